package services

import (
	"context"
	"fmt"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/ports"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultRouteLockTTL       = 30 * time.Second
	defaultFleetParallelism   = 5
	vehicleRouteLockKeyPrefix = "route:vehicle:"
)

// A vehicle's current position and the stops to reorder.
type VehicleRoute struct {
	VehicleID string
	Start     domain.Coordinates
	Points    []domain.RoutePoint
}

// RouteService reorders vehicle routes. Reoptimizations of the same vehicle
// are serialized through the locker; different vehicles run in parallel.
type RouteService struct {
	locker      ports.Locker
	lockTTL     time.Duration
	parallelism int
}

func NewRouteService(locker ports.Locker, lockTTL time.Duration) *RouteService {
	if lockTTL <= 0 {
		lockTTL = DefaultRouteLockTTL
	}
	return &RouteService{locker: locker, lockTTL: lockTTL, parallelism: defaultFleetParallelism}
}

// Reoptimize recomputes one vehicle's stop order with the nearest-neighbor heuristic.
func (s *RouteService) Reoptimize(ctx context.Context, vr VehicleRoute) ([]domain.RoutePoint, error) {
	if vr.VehicleID == "" {
		return nil, &domain.ValidationError{Field: "vehicle_id", Msg: "must be non-empty"}
	}

	release, err := s.locker.Acquire(ctx, vehicleRouteLockKeyPrefix+vr.VehicleID, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("reoptimize vehicle %s: acquire lock: %w", vr.VehicleID, err)
	}
	defer release()

	points, err := NearestNeighborRoute(vr.Start, vr.Points)
	if err != nil {
		return nil, fmt.Errorf("reoptimize vehicle %s: %w", vr.VehicleID, err)
	}
	return points, nil
}

// ReoptimizeFleet reoptimizes every vehicle concurrently and returns the new
// routes keyed by vehicle id. The first failure cancels the remaining work.
func (s *RouteService) ReoptimizeFleet(ctx context.Context, routes []VehicleRoute) (map[string][]domain.RoutePoint, error) {
	seen := make(map[string]struct{}, len(routes))
	for _, vr := range routes {
		if _, ok := seen[vr.VehicleID]; ok {
			return nil, &domain.ValidationError{Field: "vehicle_id", Msg: fmt.Sprintf("duplicate vehicle %q", vr.VehicleID)}
		}
		seen[vr.VehicleID] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	var mu sync.Mutex
	out := make(map[string][]domain.RoutePoint, len(routes))

	for _, vr := range routes {
		g.Go(func() error {
			points, err := s.Reoptimize(gctx, vr)
			if err != nil {
				return err
			}
			mu.Lock()
			out[vr.VehicleID] = points
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reoptimize fleet: %w", err)
	}
	return out, nil
}
