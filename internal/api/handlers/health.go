package handlers

import (
	"log"
	"net/http"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
)

type HealthHandler struct {
	Alerts ports.AlertStore
}

// Check reports liveness and the size of the active alert set. An
// unreachable alert store answers 503 so the instance is taken out of rotation.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	active := 0
	if h.Alerts != nil {
		alerts, err := h.Alerts.ListActive(r.Context())
		if err != nil {
			log.Printf("req_id=%s op=health err=%v", obs.RequestID(r.Context()), err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
			return
		}
		active = len(alerts)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "active_alerts": active})
}
