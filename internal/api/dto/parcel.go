package dto

import (
	"route-consolidation-service/internal/domain"
	"time"
)

type ParcelResponse struct {
	ID                string              `json:"id"`
	TrackingNumber    string              `json:"tracking_number"`
	PickupLocation    domain.Coordinates  `json:"pickup_location"`
	DeliveryLocation  domain.Coordinates  `json:"delivery_location"`
	WeightKg          float64             `json:"weight_kg"`
	Dimensions        domain.Dimensions   `json:"dimensions"`
	Priority          domain.Priority     `json:"priority"`
	SLADeadline       time.Time           `json:"sla_deadline"`
	Status            domain.ParcelStatus `json:"status"`
	AssignedVehicleID *string             `json:"assigned_vehicle_id"`
	AssignedAt        *time.Time          `json:"assigned_at"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type ListParcelsResponse struct {
	Parcels []ParcelResponse `json:"parcels"`
}

// ParcelRequest is a parcel supplied inline by the caller.
type ParcelRequest struct {
	ID               string              `json:"id"`
	TrackingNumber   string              `json:"tracking_number"`
	PickupLocation   domain.Coordinates  `json:"pickup_location"`
	DeliveryLocation domain.Coordinates  `json:"delivery_location"`
	WeightKg         float64             `json:"weight_kg"`
	Dimensions       domain.Dimensions   `json:"dimensions"`
	Priority         domain.Priority     `json:"priority"`
	SLADeadline      time.Time           `json:"sla_deadline"`
	Status           domain.ParcelStatus `json:"status"`
	AssignedAt       *time.Time          `json:"assigned_at"`
}

type TransitionRequest struct {
	Status    domain.ParcelStatus `json:"status"`
	VehicleID *string             `json:"vehicle_id"`
}

func NewParcelResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:                p.ID,
		TrackingNumber:    p.TrackingNumber,
		PickupLocation:    p.PickupLocation,
		DeliveryLocation:  p.DeliveryLocation,
		WeightKg:          p.WeightKg,
		Dimensions:        p.Dimensions,
		Priority:          p.Priority,
		SLADeadline:       p.SLADeadline,
		Status:            p.Status,
		AssignedVehicleID: p.AssignedVehicleID,
		AssignedAt:        p.AssignedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (r ParcelRequest) ToDomain() *domain.Parcel {
	status := r.Status
	if status == "" {
		status = domain.StatusPending
	}
	return &domain.Parcel{
		ID:               r.ID,
		TrackingNumber:   r.TrackingNumber,
		PickupLocation:   r.PickupLocation,
		DeliveryLocation: r.DeliveryLocation,
		WeightKg:         r.WeightKg,
		Dimensions:       r.Dimensions,
		Priority:         r.Priority,
		SLADeadline:      r.SLADeadline,
		Status:           status,
		AssignedAt:       r.AssignedAt,
	}
}
