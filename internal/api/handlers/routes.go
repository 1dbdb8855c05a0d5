package handlers

import (
	"net/http"
	"route-consolidation-service/internal/api/dto"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/services"
)

type RouteHandler struct {
	SLA           *services.SLAService
	Routes        *services.RouteService
	DefaultMargin int
}

// Impact reports the cost of inserting a new pickup and delivery into a route.
func (h *RouteHandler) Impact(w http.ResponseWriter, r *http.Request) {
	var req dto.ImpactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.SLA.CalculateDeliveryTimeImpact(req.ExistingRoute, req.NewPickup, req.NewDelivery, req.OriginalETA)
	if err != nil {
		writeServiceError(w, r, "routes.impact", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Optimize reorders the stops of one or more vehicles.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Vehicles) == 0 {
		writeError(w, r, http.StatusBadRequest, "vehicles must not be empty")
		return
	}

	routes := make([]services.VehicleRoute, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		routes = append(routes, services.VehicleRoute{VehicleID: v.VehicleID, Start: v.Start, Points: v.Points})
	}

	out, err := h.Routes.ReoptimizeFleet(r.Context(), routes)
	if err != nil {
		writeServiceError(w, r, "routes.optimize", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{Routes: out})
}

// Recommend ranks candidate vehicles for a stored parcel.
func (h *RouteHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req dto.RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ParcelID == "" {
		writeError(w, r, http.StatusBadRequest, "parcel_id is required")
		return
	}

	margin := req.SafetyMarginMinutes
	if margin <= 0 {
		margin = h.DefaultMargin
	}

	candidates := make([]services.VehicleCandidate, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		candidates = append(candidates, services.VehicleCandidate{
			Vehicle: &domain.Vehicle{
				ID:              v.ID,
				CapacityKg:      v.CapacityKg,
				LoadKg:          v.LoadKg,
				CurrentLocation: v.CurrentLocation,
				Route:           v.Route,
			},
			RouteETA: v.RouteETA,
		})
	}

	recs, err := h.SLA.RecommendVehicles(r.Context(), req.ParcelID, candidates, margin)
	if err != nil {
		writeServiceError(w, r, "routes.recommend", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"recommendations": recs})
}
