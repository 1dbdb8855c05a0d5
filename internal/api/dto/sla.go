package dto

import (
	"route-consolidation-service/internal/domain"
	"time"
)

type ValidateSLARequest struct {
	Parcel              ParcelRequest      `json:"parcel"`
	VehicleLocation     domain.Coordinates `json:"vehicle_location"`
	RouteDistanceKm     float64            `json:"route_distance_km"`
	SafetyMarginMinutes int                `json:"safety_margin_minutes"`
}

type SLACheckRequest struct {
	VehicleLocation     domain.Coordinates `json:"vehicle_location"`
	SafetyMarginMinutes int                `json:"safety_margin_minutes"`
}

type DeadlineRequest struct {
	PickupTime   time.Time `json:"pickup_time"`
	ServiceLevel string    `json:"service_level"`
}

type DeadlineResponse struct {
	ServiceLevel string    `json:"service_level"`
	SLADeadline  time.Time `json:"sla_deadline"`
}

type ScanFailureResponse struct {
	ParcelID string `json:"parcel_id"`
	Error    string `json:"error"`
}

type AtRiskResponse struct {
	ThresholdMinutes int                   `json:"threshold_minutes"`
	Scanned          int                   `json:"scanned"`
	Alerts           []domain.SLARiskAlert `json:"alerts"`
	Breaches         []domain.BreachEvent  `json:"breaches"`
	Failures         []ScanFailureResponse `json:"failures"`
}

type AlertsResponse struct {
	Alerts []domain.SLARiskAlert `json:"alerts"`
}
