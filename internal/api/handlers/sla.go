package handlers

import (
	"net/http"
	"route-consolidation-service/internal/api/dto"
	"route-consolidation-service/internal/ports"
	"route-consolidation-service/internal/services"
	"strconv"
	"strings"
	"time"
)

type SLAHandler struct {
	SLA           *services.SLAService
	AlertStore    ports.AlertStore
	DefaultMargin int
}

// Validate evaluates a caller-supplied parcel against a known route distance.
func (h *SLAHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateSLARequest
	if !decodeJSON(w, r, &req) {
		return
	}

	margin := req.SafetyMarginMinutes
	if margin <= 0 {
		margin = h.DefaultMargin
	}

	res, err := h.SLA.ValidateSLA(req.Parcel.ToDomain(), req.VehicleLocation, req.RouteDistanceKm, margin)
	if err != nil {
		writeServiceError(w, r, "sla.validate", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SLAHandler) Deadline(w http.ResponseWriter, r *http.Request) {
	var req dto.DeadlineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PickupTime.IsZero() {
		writeError(w, r, http.StatusBadRequest, "pickup_time is required")
		return
	}

	level := services.ServiceLevel(strings.ToUpper(strings.TrimSpace(req.ServiceLevel)))
	if level == "" {
		level = services.ServiceStandard
	}

	deadline, err := h.SLA.CalculateSLADeadline(req.PickupTime, level)
	if err != nil {
		writeServiceError(w, r, "sla.deadline", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DeadlineResponse{ServiceLevel: string(level), SLADeadline: deadline})
}

// AtRisk runs an on-demand scan. threshold is the look-ahead in minutes.
func (h *SLAHandler) AtRisk(w http.ResponseWriter, r *http.Request) {
	threshold := services.DefaultRiskWindowMinutes
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "threshold must be a positive integer")
			return
		}
		threshold = n
	}

	res, err := h.SLA.GetAtRiskParcels(r.Context(), threshold)
	if err != nil {
		writeServiceError(w, r, "sla.at_risk", err)
		return
	}

	out := dto.AtRiskResponse{
		ThresholdMinutes: threshold,
		Scanned:          res.Scanned,
		Alerts:           nonNil(res.Alerts),
		Breaches:         nonNil(res.Breaches),
		Failures:         make([]dto.ScanFailureResponse, 0, len(res.Failures)),
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, dto.ScanFailureResponse{ParcelID: f.ParcelID, Error: f.Err.Error()})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Alerts lists the alerts raised by the latest scheduled scan.
func (h *SLAHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.AlertStore.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, r, "sla.alerts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.AlertsResponse{Alerts: nonNil(alerts)})
}

func (h *SLAHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start must be an RFC3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "end must be an RFC3339 timestamp")
		return
	}

	report, err := h.SLA.GenerateSLAComplianceReport(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, r, "sla.compliance", err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}
