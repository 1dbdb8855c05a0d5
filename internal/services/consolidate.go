package services

import (
	"context"
	"fmt"
	"route-consolidation-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// A vehicle considered for taking on a parcel, with the ETA of its current
// last stop.
type VehicleCandidate struct {
	Vehicle  *domain.Vehicle
	RouteETA time.Time
}

type VehicleRecommendation struct {
	VehicleID string                    `json:"vehicle_id"`
	Impact    domain.DeliveryTimeImpact `json:"impact"`
	Risk      domain.RiskAssessment     `json:"risk"`
}

// RecommendVehicles ranks candidate vehicles for a parcel.
//
// Vehicles without spare capacity are skipped. Each remaining vehicle is
// scored by the impact of inserting the parcel into its pending stops and
// by the SLA risk of the resulting trip. Vehicles that would breach the
// deadline sort last; otherwise lower additional time wins, then vehicle id
// so the ranking is deterministic.
func (s *SLAService) RecommendVehicles(
	ctx context.Context,
	parcelID string,
	candidates []VehicleCandidate,
	safetyMarginMinutes int,
) ([]VehicleRecommendation, error) {
	parcel, err := s.store.FindByID(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("recommend vehicles: %w", err)
	}

	recs := make([]VehicleRecommendation, 0, len(candidates))
	for _, c := range candidates {
		if c.Vehicle == nil || !c.Vehicle.CanCarry(parcel) {
			continue
		}

		pending := c.Vehicle.PendingStops()
		impact, err := s.impact.Calculate(pending, parcel.PickupLocation, parcel.DeliveryLocation, c.RouteETA)
		if err != nil {
			return nil, fmt.Errorf("recommend vehicles: vehicle %s: %w", c.Vehicle.ID, err)
		}

		km, err := s.travel.DistanceKm(ctx, tripToDelivery(c.Vehicle.CurrentLocation, impact.OptimizedRoute))
		if err != nil {
			return nil, fmt.Errorf("recommend vehicles: vehicle %s: %w", c.Vehicle.ID, err)
		}

		risk, err := s.evaluator.ValidateSLA(parcel, c.Vehicle.CurrentLocation, km, safetyMarginMinutes)
		if err != nil {
			return nil, fmt.Errorf("recommend vehicles: vehicle %s: %w", c.Vehicle.ID, err)
		}

		recs = append(recs, VehicleRecommendation{VehicleID: c.Vehicle.ID, Impact: impact, Risk: risk})
	}

	slices.SortFunc(recs, func(a, b VehicleRecommendation) int {
		if a.Risk.IsValid != b.Risk.IsValid {
			if a.Risk.IsValid {
				return -1
			}
			return 1
		}
		if a.Impact.AdditionalTime != b.Impact.AdditionalTime {
			return a.Impact.AdditionalTime - b.Impact.AdditionalTime
		}
		return strings.Compare(a.VehicleID, b.VehicleID)
	})

	return recs, nil
}

// tripToDelivery returns the vehicle position followed by the optimized
// stops up to and including the new parcel's delivery.
func tripToDelivery(start domain.Coordinates, route []domain.RoutePoint) []domain.Coordinates {
	out := []domain.Coordinates{start}
	for _, p := range route {
		if p.Completed {
			continue
		}
		out = append(out, p.Location)
		if p.ID == NewDeliveryPointID {
			break
		}
	}
	return out
}
