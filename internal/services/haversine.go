package services

import (
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between a and b
// using the Haversine formula.
func Distance(a, b domain.Coordinates) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("distance: origin: %w", err)
	}
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("distance: destination: %w", err)
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h slightly outside [0, 1] for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h)), nil
}

// RouteDistance sums the distances between consecutive points.
func RouteDistance(points []domain.Coordinates) (float64, error) {
	total := 0.0
	for i := 1; i < len(points); i++ {
		d, err := Distance(points[i-1], points[i])
		if err != nil {
			return 0, fmt.Errorf("route distance: leg %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}
