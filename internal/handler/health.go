package handler

import (
	"net/http"
	"time"
)

// HealthHandler reports liveness. The desktop client pings this on
// startup to decide whether the backend is reachable.
type HealthHandler struct {
	env string
}

func NewHealthHandler(env string) *HealthHandler {
	return &HealthHandler{env: env}
}

// HandleHealth returns the service status.
//
// HTTP: GET /api/health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		OK   bool   `json:"ok"`
		Env  string `json:"env"`
		Time string `json:"time"`
	}{
		OK:   true,
		Env:  h.env,
		Time: time.Now().UTC().Format(time.RFC3339),
	})
}
