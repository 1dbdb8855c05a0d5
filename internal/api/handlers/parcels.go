package handlers

import (
	"net/http"
	"route-consolidation-service/internal/api/dto"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/ports"
	"route-consolidation-service/internal/services"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// ParcelHandler exposes parcel lookups, per-parcel SLA checks and status
// transitions.
type ParcelHandler struct {
	Store         ports.ParcelStore
	SLA           *services.SLAService
	DefaultMargin int
	Now           func() time.Time
}

func (h *ParcelHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// List returns parcels, optionally filtered by a comma-separated status list.
func (h *ParcelHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter ports.ParcelFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			st := domain.ParcelStatus(strings.ToUpper(strings.TrimSpace(s)))
			if !st.Valid() {
				writeError(w, r, http.StatusBadRequest, "unknown status "+s)
				return
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	parcels, err := h.Store.Find(r.Context(), filter, ports.OrderByCreatedAsc)
	if err != nil {
		writeServiceError(w, r, "parcels.list", err)
		return
	}

	res := dto.ListParcelsResponse{Parcels: make([]dto.ParcelResponse, 0, len(parcels))}
	for _, p := range parcels {
		res.Parcels = append(res.Parcels, dto.NewParcelResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ParcelHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "parcels.get", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewParcelResponse(p))
}

// SLACheck evaluates a stored parcel for a vehicle at the given location.
func (h *ParcelHandler) SLACheck(w http.ResponseWriter, r *http.Request) {
	var req dto.SLACheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	margin := req.SafetyMarginMinutes
	if margin <= 0 {
		margin = h.DefaultMargin
	}

	res, err := h.SLA.ValidateParcelSLA(r.Context(), chi.URLParam(r, "id"), req.VehicleLocation, margin)
	if err != nil {
		writeServiceError(w, r, "parcels.sla_check", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Transition validates a status change against the state machine and, if
// allowed, persists it.
func (h *ParcelHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req dto.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	to := domain.ParcelStatus(strings.ToUpper(string(req.Status)))

	p, err := h.SLA.CheckTransition(r.Context(), chi.URLParam(r, "id"), to)
	if err != nil {
		writeServiceError(w, r, "parcels.transition", err)
		return
	}

	now := h.now().UTC()
	p.Status = to
	p.UpdatedAt = now
	switch to {
	case domain.StatusAssigned:
		if req.VehicleID == nil || strings.TrimSpace(*req.VehicleID) == "" {
			writeError(w, r, http.StatusUnprocessableEntity, "vehicle_id is required for ASSIGNED")
			return
		}
		p.AssignedVehicleID = req.VehicleID
		p.AssignedAt = &now
	case domain.StatusPending:
		p.AssignedVehicleID = nil
		p.AssignedAt = nil
	}

	saved, err := h.Store.Save(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, "parcels.transition", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewParcelResponse(saved))
}
