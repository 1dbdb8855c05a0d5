package services

import (
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
)

// InsertionIndex returns the index in route at which inserting p adds the
// least distance, and that added distance in kilometers.
//
// Every index 0..len(route) is evaluated; the detour at index i is
// d(prev,p) + d(p,next) - d(prev,next), using only the existing neighbor at
// either end. Ties go to the lowest index so results are deterministic.
func InsertionIndex(route []domain.Coordinates, p domain.Coordinates) (int, float64, error) {
	return insertionIndexFrom(route, p, 0)
}

func insertionIndexFrom(route []domain.Coordinates, p domain.Coordinates, from int) (int, float64, error) {
	if err := p.Validate(); err != nil {
		return 0, 0, fmt.Errorf("insertion index: %w", err)
	}
	if from < 0 || from > len(route) {
		return 0, 0, fmt.Errorf("insertion index: start %d outside route of length %d", from, len(route))
	}

	bestIndex := -1
	bestDetour := math.Inf(1)

	for i := from; i <= len(route); i++ {
		detour, err := detourAt(route, p, i)
		if err != nil {
			return 0, 0, fmt.Errorf("insertion index: %w", err)
		}
		// Strict comparison keeps the lowest index on ties.
		if detour < bestDetour {
			bestDetour = detour
			bestIndex = i
		}
	}

	return bestIndex, bestDetour, nil
}

func detourAt(route []domain.Coordinates, p domain.Coordinates, i int) (float64, error) {
	switch {
	case len(route) == 0:
		return 0, nil
	case i == 0:
		return Distance(p, route[0])
	case i == len(route):
		return Distance(route[i-1], p)
	}

	prev, next := route[i-1], route[i]
	toNew, err := Distance(prev, p)
	if err != nil {
		return 0, err
	}
	fromNew, err := Distance(p, next)
	if err != nil {
		return 0, err
	}
	direct, err := Distance(prev, next)
	if err != nil {
		return 0, err
	}
	return toNew + fromNew - direct, nil
}

// InsertPair inserts a parcel's pickup and delivery stops into an ordered route.
//
// The pickup is placed first at its cheapest index; the delivery is then
// placed at the cheapest index after the pickup so pickup-before-delivery
// ordering holds. Stops are never inserted ahead of completed stops. If the
// greedy placement turns out longer than appending both stops at the end,
// the appended route is returned instead. Sequences are renumbered from 1.
func InsertPair(route []domain.RoutePoint, pickup, delivery domain.RoutePoint) ([]domain.RoutePoint, error) {
	from := 0
	for i, p := range route {
		if p.Completed {
			from = i + 1
		}
	}

	coords := domain.Locations(route)
	pickupIdx, _, err := insertionIndexFrom(coords, pickup.Location, from)
	if err != nil {
		return nil, fmt.Errorf("insert pair: pickup: %w", err)
	}
	withPickup := insertAt(route, pickupIdx, pickup)

	deliveryIdx, _, err := insertionIndexFrom(domain.Locations(withPickup), delivery.Location, pickupIdx+1)
	if err != nil {
		return nil, fmt.Errorf("insert pair: delivery: %w", err)
	}
	greedy := insertAt(withPickup, deliveryIdx, delivery)

	naive := make([]domain.RoutePoint, 0, len(route)+2)
	naive = append(naive, route...)
	naive = append(naive, pickup, delivery)

	greedyKm, err := RouteDistance(domain.Locations(greedy))
	if err != nil {
		return nil, fmt.Errorf("insert pair: %w", err)
	}
	naiveKm, err := RouteDistance(domain.Locations(naive))
	if err != nil {
		return nil, fmt.Errorf("insert pair: %w", err)
	}

	out := greedy
	if naiveKm < greedyKm {
		out = naive
	}
	domain.Renumber(out)
	return out, nil
}

// insertAt returns a copy of route with p placed at index i.
func insertAt(route []domain.RoutePoint, i int, p domain.RoutePoint) []domain.RoutePoint {
	out := make([]domain.RoutePoint, 0, len(route)+1)
	out = append(out, route[:i]...)
	out = append(out, p)
	out = append(out, route[i:]...)
	return out
}
