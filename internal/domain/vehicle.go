package domain

// Delivery vehicle aggregate holding its current position and planned stops.
type Vehicle struct {
	ID              string
	CapacityKg      float64
	CurrentLocation Coordinates
	Route           []RoutePoint
	LoadKg          float64
}

func NewVehicle(id string, capacityKg float64, location Coordinates) *Vehicle {
	return &Vehicle{
		ID:              id,
		CapacityKg:      capacityKg,
		CurrentLocation: location,
	}
}

// RemainingCapacityKg is the weight the vehicle can still take on.
func (v *Vehicle) RemainingCapacityKg() float64 {
	return v.CapacityKg - v.LoadKg
}

// CanCarry reports whether the parcel fits into the remaining capacity.
func (v *Vehicle) CanCarry(p *Parcel) bool {
	return p.WeightKg <= v.RemainingCapacityKg()
}

// PendingStops returns the route points not yet completed.
func (v *Vehicle) PendingStops() []RoutePoint {
	out := make([]RoutePoint, 0, len(v.Route))
	for _, p := range v.Route {
		if !p.Completed {
			out = append(out, p)
		}
	}
	return out
}
