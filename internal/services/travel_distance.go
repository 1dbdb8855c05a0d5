package services

import (
	"context"
	"fmt"
	"log"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
	"time"
)

const DefaultDirectionsTimeout = 3 * time.Second

// TravelDistance estimates road distance through an ordered list of points.
//
// When a directions provider is configured it is asked first, bounded by
// Timeout. Any provider error or timeout falls back to the Haversine sum of
// the legs; the fallback is logged as degraded and never surfaced to callers.
type TravelDistance struct {
	Provider ports.DirectionsProvider
	Timeout  time.Duration
}

func NewTravelDistance(provider ports.DirectionsProvider, timeout time.Duration) *TravelDistance {
	if timeout <= 0 {
		timeout = DefaultDirectionsTimeout
	}
	return &TravelDistance{Provider: provider, Timeout: timeout}
}

// DistanceKm returns the distance through points in order.
func (t *TravelDistance) DistanceKm(ctx context.Context, points []domain.Coordinates) (float64, error) {
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("travel distance: point %d: %w", i, err)
		}
	}
	if len(points) < 2 {
		return 0, nil
	}

	if t.Provider != nil {
		km, err := t.fromProvider(ctx, points)
		if err == nil {
			return km, nil
		}
		log.Printf("req_id=%s op=directions degraded=true err=%v", obs.RequestID(ctx), err)
	}

	km, err := RouteDistance(points)
	if err != nil {
		return 0, fmt.Errorf("travel distance: %w", err)
	}
	return km, nil
}

func (t *TravelDistance) fromProvider(ctx context.Context, points []domain.Coordinates) (float64, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultDirectionsTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	origin := points[0]
	destination := points[len(points)-1]
	waypoints := points[1 : len(points)-1]

	dir, err := t.Provider.Route(ctx, origin, destination, waypoints)
	if err != nil {
		return 0, err
	}
	if len(dir.Legs) == 0 {
		return 0, ports.ErrDirectionsUnavailable
	}
	return dir.TotalDistanceKm(), nil
}
