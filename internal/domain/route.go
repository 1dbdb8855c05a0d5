package domain

import "time"

type RoutePointType string

const (
	PointPickup   RoutePointType = "pickup"
	PointDelivery RoutePointType = "delivery"
)

// Represents a single stop in a vehicle route.
// Sequence is the 1-based position in the route and is assigned by the
// route optimizer; callers should not rely on incoming values.
type RoutePoint struct {
	ID            string         `json:"id"`
	ParcelID      string         `json:"parcel_id"`
	Location      Coordinates    `json:"location"`
	Type          RoutePointType `json:"type"`
	Sequence      int            `json:"sequence"`
	Completed     bool           `json:"completed"`
	EstimatedTime *time.Time     `json:"estimated_time,omitempty"`
}

// RoutePointsForParcel returns the pickup and delivery stops of a parcel.
func RoutePointsForParcel(p *Parcel) (pickup RoutePoint, delivery RoutePoint) {
	pickup = RoutePoint{
		ID:       p.ID + "-pickup",
		ParcelID: p.ID,
		Location: p.PickupLocation,
		Type:     PointPickup,
	}
	delivery = RoutePoint{
		ID:       p.ID + "-delivery",
		ParcelID: p.ID,
		Location: p.DeliveryLocation,
		Type:     PointDelivery,
	}
	return pickup, delivery
}

// Locations returns the coordinates of points in order.
func Locations(points []RoutePoint) []Coordinates {
	out := make([]Coordinates, 0, len(points))
	for _, p := range points {
		out = append(out, p.Location)
	}
	return out
}

// Renumber assigns contiguous 1-based sequence numbers in slice order.
func Renumber(points []RoutePoint) {
	for i := range points {
		points[i].Sequence = i + 1
	}
}
