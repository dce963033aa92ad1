package httpapi

import (
	"encoding/json"
	"net/http"
)

// ConnState reports the store connection as "connected" or "disconnected".
type ConnState interface {
	Label() string
}

// HealthHandler always answers 200; the store state is informational.
func HealthHandler(state ConnState, driver string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Server is running",
			"mongodb": state.Label(),
			"store":   driver,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
