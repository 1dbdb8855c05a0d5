package dto

import (
	"route-consolidation-service/internal/domain"
	"time"
)

type ImpactRequest struct {
	ExistingRoute []domain.RoutePoint `json:"existing_route"`
	NewPickup     domain.Coordinates  `json:"new_pickup"`
	NewDelivery   domain.Coordinates  `json:"new_delivery"`
	OriginalETA   time.Time           `json:"original_eta"`
}

type VehicleRouteRequest struct {
	VehicleID string              `json:"vehicle_id"`
	Start     domain.Coordinates  `json:"start"`
	Points    []domain.RoutePoint `json:"points"`
}

type OptimizeRequest struct {
	Vehicles []VehicleRouteRequest `json:"vehicles"`
}

type OptimizeResponse struct {
	Routes map[string][]domain.RoutePoint `json:"routes"`
}

type VehicleRequest struct {
	ID              string              `json:"id"`
	CapacityKg      float64             `json:"capacity_kg"`
	LoadKg          float64             `json:"load_kg"`
	CurrentLocation domain.Coordinates  `json:"current_location"`
	Route           []domain.RoutePoint `json:"route"`
	RouteETA        time.Time           `json:"route_eta"`
}

type RecommendRequest struct {
	ParcelID            string           `json:"parcel_id"`
	Vehicles            []VehicleRequest `json:"vehicles"`
	SafetyMarginMinutes int              `json:"safety_margin_minutes"`
}
