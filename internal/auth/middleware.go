package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/life-command/pkg/respond"
)

const (
	APIKeyHeader = "x-api-key"

	MsgUnauthorized     = "Unauthorized"
	MsgMissingBearer    = "Missing or invalid authorization header. Expected: Bearer <jwt_token>"
	MsgInvalidBearer    = "Invalid JWT token or user not found"
	MsgNotAuthenticated = "Not authenticated"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}

// Middleware resolves the caller before any task handler runs. Every
// rejection is a 401 with a JSON error body.
type Middleware struct {
	verifier   Verifier
	apiKey     string
	cookieName string
	logger     *zap.Logger
}

func NewMiddleware(verifier Verifier, apiKey, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{
		verifier:   verifier,
		apiKey:     apiKey,
		cookieName: cookieName,
		logger:     logger,
	}
}

// APIKey compares x-api-key with the configured secret. With no secret
// configured every request is rejected.
func (m *Middleware) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if m.apiKey == "" || key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) != 1 {
			respond.Error(w, r, http.StatusUnauthorized, MsgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Bearer resolves the caller from "Authorization: Bearer <token>".
func (m *Middleware) Bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			respond.Error(w, r, http.StatusUnauthorized, MsgMissingBearer)
			return
		}

		userID, err := m.verifier.Verify(r.Context(), strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			m.logger.Debug("bearer token rejected", zap.Error(err))
			respond.Error(w, r, http.StatusUnauthorized, MsgInvalidBearer)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// Session resolves the caller from the session cookie holding the identity token.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			respond.Error(w, r, http.StatusUnauthorized, MsgNotAuthenticated)
			return
		}

		userID, err := m.verifier.Verify(r.Context(), cookie.Value)
		if err != nil {
			m.logger.Debug("session cookie rejected", zap.Error(err))
			respond.Error(w, r, http.StatusUnauthorized, MsgNotAuthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// ClearSession expires the session cookie.
func (m *Middleware) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
