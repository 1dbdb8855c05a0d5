package services

import (
	"context"
	"errors"
	"math"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/ports"
	"testing"
	"time"
)

type stubProvider struct {
	dir   ports.Directions
	err   error
	delay time.Duration
	calls int
}

func (s *stubProvider) Route(ctx context.Context, origin, destination domain.Coordinates, waypoints []domain.Coordinates) (ports.Directions, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ports.Directions{}, ctx.Err()
		}
	}
	return s.dir, s.err
}

func TestTravelDistanceUsesProvider(t *testing.T) {
	p := &stubProvider{dir: ports.Directions{Legs: []ports.DirectionsLeg{{DistanceMeters: 7200}, {DistanceMeters: 800}}}}
	td := NewTravelDistance(p, time.Second)

	got, err := td.DistanceKm(context.Background(), []domain.Coordinates{nyc, midtown, nyc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Fatalf("distance = %v, want 8", got)
	}
}

func TestTravelDistanceFallsBackToHaversine(t *testing.T) {
	want, _ := RouteDistance([]domain.Coordinates{nyc, midtown})

	cases := map[string]ports.DirectionsProvider{
		"no provider":    nil,
		"provider error": &stubProvider{err: ports.ErrDirectionsUnavailable},
		"empty legs":     &stubProvider{},
		"timeout":        &stubProvider{delay: time.Second, dir: ports.Directions{Legs: []ports.DirectionsLeg{{DistanceMeters: 1}}}},
	}

	for name, provider := range cases {
		t.Run(name, func(t *testing.T) {
			td := NewTravelDistance(provider, 20*time.Millisecond)
			got, err := td.DistanceKm(context.Background(), []domain.Coordinates{nyc, midtown})
			if err != nil {
				t.Fatalf("fallback surfaced an error: %v", err)
			}
			if math.Abs(got-want) > 1e-9 {
				t.Fatalf("distance = %v, want haversine %v", got, want)
			}
		})
	}
}

func TestTravelDistanceValidatesPoints(t *testing.T) {
	p := &stubProvider{}
	td := NewTravelDistance(p, time.Second)

	_, err := td.DistanceKm(context.Background(), []domain.Coordinates{nyc, {Lat: 200}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if p.calls != 0 {
		t.Fatal("provider called with invalid points")
	}

	if got, err := td.DistanceKm(context.Background(), []domain.Coordinates{nyc}); err != nil || got != 0 {
		t.Fatalf("single point = (%v, %v), want (0, nil)", got, err)
	}
}
