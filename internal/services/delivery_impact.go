package services

import (
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
	"time"
)

// IDs given to the inserted stops in DeliveryTimeImpact.OptimizedRoute.
const (
	NewPickupPointID   = "new-pickup"
	NewDeliveryPointID = "new-delivery"
)

// ImpactCalculator quantifies the marginal cost of adding one parcel to a route.
type ImpactCalculator struct {
	Estimator Estimator
}

func NewImpactCalculator(est Estimator) *ImpactCalculator {
	return &ImpactCalculator{Estimator: est}
}

// Calculate inserts the new pickup and delivery into existingRoute and
// reports the extra distance and time this costs.
//
// AdditionalTime is the buffered detour driving time plus the fixed dwell
// time of the two new stops. The impact level is graded on the buffered
// detour alone, since the dwell time is paid by whichever vehicle takes the
// parcel.
func (c *ImpactCalculator) Calculate(
	existingRoute []domain.RoutePoint,
	newPickup domain.Coordinates,
	newDelivery domain.Coordinates,
	originalETA time.Time,
) (domain.DeliveryTimeImpact, error) {
	originalKm, err := RouteDistance(domain.Locations(existingRoute))
	if err != nil {
		return domain.DeliveryTimeImpact{}, fmt.Errorf("delivery time impact: original route: %w", err)
	}

	pickup := domain.RoutePoint{ID: NewPickupPointID, Location: newPickup, Type: domain.PointPickup}
	delivery := domain.RoutePoint{ID: NewDeliveryPointID, Location: newDelivery, Type: domain.PointDelivery}

	optimized, err := InsertPair(existingRoute, pickup, delivery)
	if err != nil {
		return domain.DeliveryTimeImpact{}, fmt.Errorf("delivery time impact: %w", err)
	}

	newKm, err := RouteDistance(domain.Locations(optimized))
	if err != nil {
		return domain.DeliveryTimeImpact{}, fmt.Errorf("delivery time impact: optimized route: %w", err)
	}

	deviation := math.Max(0, newKm-originalKm)
	travel, err := c.Estimator.TravelMinutes(deviation)
	if err != nil {
		return domain.DeliveryTimeImpact{}, fmt.Errorf("delivery time impact: %w", err)
	}
	detourMinutes := travel * c.Estimator.Buffer()
	additional := int(math.Round(detourMinutes + c.Estimator.ServiceMinutes(1, 1)))

	return domain.DeliveryTimeImpact{
		OriginalETA:    originalETA,
		NewETA:         originalETA.Add(time.Duration(additional) * time.Minute),
		AdditionalTime: additional,
		RouteDeviation: math.Round(deviation*100) / 100,
		ImpactLevel:    classifyImpact(detourMinutes),
		OptimizedRoute: optimized,
	}, nil
}

// classifyImpact grades the buffered detour only; the fixed 25 minutes of
// dwell would otherwise rule out MINIMAL for any insertion.
func classifyImpact(minutes float64) domain.ImpactLevel {
	switch {
	case minutes <= 15:
		return domain.ImpactMinimal
	case minutes <= 30:
		return domain.ImpactModerate
	case minutes <= 60:
		return domain.ImpactSignificant
	default:
		return domain.ImpactSevere
	}
}
