package directions

import (
	"context"
	"fmt"
	"route-consolidation-service/internal/adapters/cache"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/ports"
	"sync"
)

// MockRoute is a canned response for one ordered stop list.
type MockRoute struct {
	Stops      []domain.Coordinates
	Directions ports.Directions
}

// MockDirectionsProvider answers from a fixed table and counts calls.
// Unknown stop lists fail with ports.ErrDirectionsUnavailable. It is used
// by local runs without an API key and by tests.
type MockDirectionsProvider struct {
	m map[string]ports.Directions

	mu    sync.Mutex
	calls int
}

func NewMockDirectionsProvider(routes []MockRoute) *MockDirectionsProvider {
	m := make(map[string]ports.Directions, len(routes))
	for _, r := range routes {
		m[cache.RouteKey(r.Stops)] = r.Directions
	}
	return &MockDirectionsProvider{m: m}
}

func (p *MockDirectionsProvider) Route(
	ctx context.Context,
	origin, destination domain.Coordinates,
	waypoints []domain.Coordinates,
) (ports.Directions, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.Directions{}, fmt.Errorf("%w: %w", ports.ErrDirectionsUnavailable, err)
	}

	stops := append([]domain.Coordinates{origin}, waypoints...)
	stops = append(stops, destination)

	d, ok := p.m[cache.RouteKey(stops)]
	if !ok {
		return ports.Directions{}, fmt.Errorf("%w: no mock route for %s", ports.ErrDirectionsUnavailable, cache.RouteKey(stops))
	}
	return d, nil
}

// Calls returns how many times Route has been invoked.
func (p *MockDirectionsProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
