package ports

import (
	"context"
	"errors"
	"route-consolidation-service/internal/domain"
)

// ErrDirectionsUnavailable signals that no route could be obtained from the provider.
var ErrDirectionsUnavailable = errors.New("directions unavailable")

// A single leg of a routed trip.
type DirectionsLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// Routed trip between an origin and a destination, in leg order.
type Directions struct {
	Legs             []DirectionsLeg
	OverviewPolyline string
}

// TotalDistanceKm sums leg distances.
func (d Directions) TotalDistanceKm() float64 {
	total := 0
	for _, l := range d.Legs {
		total += l.DistanceMeters
	}
	return float64(total) / 1000
}

// TotalDurationSeconds sums leg durations.
func (d Directions) TotalDurationSeconds() int {
	total := 0
	for _, l := range d.Legs {
		total += l.DurationSeconds
	}
	return total
}

// Contract for an optional external road-routing service.
type DirectionsProvider interface {
	// Return a road route from origin to destination through the waypoints in order.
	Route(ctx context.Context, origin, destination domain.Coordinates, waypoints []domain.Coordinates) (Directions, error)
}
