package domain

import "time"

// Priority of a parcel as declared by the shipper.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// IsElevated reports whether the priority warrants extra attention.
func (p Priority) IsElevated() bool {
	return p == PriorityHigh || p == PriorityUrgent
}

type Dimensions struct {
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// Represents a single shipment handled by the consolidation engine.
// The SLA deadline is fixed at creation; the engine only reads it.
// Status changes are performed by the persistence layer after the
// transition has been validated against the status table.
type Parcel struct {
	ID                string
	TrackingNumber    string
	PickupLocation    Coordinates
	DeliveryLocation  Coordinates
	WeightKg          float64
	Dimensions        Dimensions
	Priority          Priority
	SLADeadline       time.Time
	Status            ParcelStatus
	AssignedVehicleID *string
	AssignedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive reports whether the parcel is still moving through the network.
func (p *Parcel) IsActive() bool {
	return p.Status == StatusPending || p.Status == StatusAssigned || p.Status == StatusInTransit
}
