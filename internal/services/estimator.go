package services

import (
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
)

// Estimator converts travel distance and stop counts into minutes.
// A zero-value field falls back to its default.
type Estimator struct {
	AverageSpeedKmh float64
	PickupMinutes   float64
	DeliveryMinutes float64
	TrafficBuffer   float64
}

func DefaultEstimator() Estimator {
	return Estimator{
		AverageSpeedKmh: 25,
		PickupMinutes:   15,
		DeliveryMinutes: 10,
		TrafficBuffer:   1.3,
	}
}

func (e Estimator) withDefaults() Estimator {
	d := DefaultEstimator()
	if e.AverageSpeedKmh > 0 {
		d.AverageSpeedKmh = e.AverageSpeedKmh
	}
	if e.PickupMinutes > 0 {
		d.PickupMinutes = e.PickupMinutes
	}
	if e.DeliveryMinutes > 0 {
		d.DeliveryMinutes = e.DeliveryMinutes
	}
	if e.TrafficBuffer > 0 {
		d.TrafficBuffer = e.TrafficBuffer
	}
	return d
}

// TravelMinutes is the unbuffered driving time for distanceKm.
func (e Estimator) TravelMinutes(distanceKm float64) (float64, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return 0, &domain.ValidationError{Field: "distance_km", Msg: fmt.Sprintf("must be a finite non-negative number, got %v", distanceKm)}
	}
	e = e.withDefaults()
	return distanceKm / e.AverageSpeedKmh * 60, nil
}

// ServiceMinutes is the dwell time for the given stops.
func (e Estimator) ServiceMinutes(pickups, deliveries int) float64 {
	e = e.withDefaults()
	return float64(pickups)*e.PickupMinutes + float64(deliveries)*e.DeliveryMinutes
}

// Buffer returns the configured traffic multiplier.
func (e Estimator) Buffer() float64 {
	return e.withDefaults().TrafficBuffer
}

// EstimateMinutes returns (travel + dwell) * traffic buffer, rounded to the
// nearest minute.
func (e Estimator) EstimateMinutes(distanceKm float64, pickups, deliveries int) (int, error) {
	if pickups < 0 || deliveries < 0 {
		return 0, &domain.ValidationError{Field: "stops", Msg: "stop counts must not be negative"}
	}
	travel, err := e.TravelMinutes(distanceKm)
	if err != nil {
		return 0, fmt.Errorf("estimate delivery time: %w", err)
	}

	total := (travel + e.ServiceMinutes(pickups, deliveries)) * e.Buffer()
	return int(math.Round(total)), nil
}
