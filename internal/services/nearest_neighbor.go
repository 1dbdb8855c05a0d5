package services

import (
	"errors"
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
)

// Reorder a vehicle's stops using a greedy nearest-neighbor algorithm.
//
// Completed stops keep their relative order at the head of the result.
// Pending stops are chained from start by picking the closest remaining
// stop at each step; a delivery only becomes eligible once the pickup of
// the same parcel has been placed (or is absent/completed).
// The algorithm does not attempt global route optimization (e.g., VRP solvers).
// With zero or one pending stop the input is returned unchanged.
func NearestNeighborRoute(start domain.Coordinates, points []domain.RoutePoint) ([]domain.RoutePoint, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("nearest neighbor route: start: %w", err)
	}

	completed := make([]domain.RoutePoint, 0, len(points))
	pending := make([]domain.RoutePoint, 0, len(points))
	for _, p := range points {
		if p.Completed {
			completed = append(completed, p)
		} else {
			pending = append(pending, p)
		}
	}

	if len(pending) <= 1 {
		out := make([]domain.RoutePoint, len(points))
		copy(out, points)
		return out, nil
	}

	// Parcels whose pickup is still waiting to be placed.
	pickupPending := make(map[string]int)
	for _, p := range pending {
		if p.Type == domain.PointPickup {
			pickupPending[p.ParcelID]++
		}
	}

	remaining := make([]bool, len(pending))
	for i := range remaining {
		remaining[i] = true
	}

	out := make([]domain.RoutePoint, 0, len(points))
	out = append(out, completed...)

	currentLocation := start
	for placed := 0; placed < len(pending); placed++ {
		bestIdx := -1
		minDistance := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		for i, p := range pending {
			if !remaining[i] {
				continue
			}
			if p.Type == domain.PointDelivery && pickupPending[p.ParcelID] > 0 {
				continue
			}

			d, err := Distance(currentLocation, p.Location)
			if err != nil {
				return nil, fmt.Errorf("nearest neighbor route: stop %q: %w", p.ID, err)
			}
			// Strict comparison keeps input order on ties.
			if d < minDistance {
				minDistance = d
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			return nil, errors.New("nearest neighbor route: failed to select next stop")
		}

		next := pending[bestIdx]
		remaining[bestIdx] = false
		if next.Type == domain.PointPickup {
			pickupPending[next.ParcelID]--
		}

		out = append(out, next)
		currentLocation = next.Location
	}

	domain.Renumber(out)
	return out, nil
}
