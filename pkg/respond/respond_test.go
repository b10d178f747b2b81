package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	id := "0b7f3c2e-5d1a-4c8e-9f6b-2a4d8e1c7b90"

	tests := []struct {
		name     string
		code     int
		data     interface{}
		wantBody map[string]interface{}
	}{
		{
			name: "task body",
			code: http.StatusOK,
			data: map[string]interface{}{"id": id, "title": "Buy milk", "completed": false, "priority": 2, "due_date": nil},
			wantBody: map[string]interface{}{
				"id":        id,
				"title":     "Buy milk",
				"completed": false,
				"priority":  float64(2),
				"due_date":  nil,
			},
		},
		{
			name: "task list",
			code: http.StatusOK,
			data: map[string]interface{}{"tasks": []map[string]interface{}{{"id": id, "completed": true}}},
			wantBody: map[string]interface{}{
				"tasks": []interface{}{map[string]interface{}{"id": id, "completed": true}},
			},
		},
		{
			name:     "degraded health",
			code:     http.StatusServiceUnavailable,
			data:     map[string]interface{}{"status": "degraded", "checks": map[string]string{"postgres": "down"}},
			wantBody: map[string]interface{}{"status": "degraded", "checks": map[string]interface{}{"postgres": "down"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/commands", nil)

			JSON(w, r, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
	}{
		{name: "rejected payload", code: http.StatusBadRequest, message: "Title too long"},
		{name: "no session", code: http.StatusUnauthorized, message: "Unauthorized"},
		{name: "unknown task", code: http.StatusNotFound, message: "Task not found"},
		{name: "store failure", code: http.StatusInternalServerError, message: "too many connections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/commands", nil)

			Error(w, r, tt.code, tt.message)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var got map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, StatusError, got["status"])
			assert.Equal(t, tt.message, got["message"])
		})
	}
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	Success(w, r, "Task created", map[string]interface{}{
		"task":    map[string]string{"title": "Buy milk"},
		"status":  "ignored",
		"message": "ignored",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, StatusSuccess, got["status"])
	assert.Equal(t, "Task created", got["message"])
	assert.Equal(t, map[string]interface{}{"title": "Buy milk"}, got["task"])
}

func TestSuccess_NoExtra(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	Success(w, r, "Task deleted", nil)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, map[string]interface{}{"status": "success", "message": "Task deleted"}, got)
}
