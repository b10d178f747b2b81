package respond

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// Success writes {"status":"success","message":...} merged with extra fields.
func Success(w http.ResponseWriter, r *http.Request, message string, extra map[string]interface{}) {
	body := make(map[string]interface{}, len(extra)+2)
	for k, v := range extra {
		body[k] = v
	}
	body["status"] = StatusSuccess
	body["message"] = message
	JSON(w, r, http.StatusOK, body)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"status": StatusError, "message": message})
}
