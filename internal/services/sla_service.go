package services

import (
	"context"
	"fmt"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/ports"
	"time"
)

// SLAService exposes the engine operations consumed by the HTTP layer and CLIs.
// Collaborators are injected; the service holds no mutable state of its own.
type SLAService struct {
	store      ports.ParcelStore
	evaluator  *RiskEvaluator
	impact     *ImpactCalculator
	scanner    *AtRiskScanner
	compliance *ComplianceReporter
	travel     *TravelDistance
}

func NewSLAService(
	store ports.ParcelStore,
	evaluator *RiskEvaluator,
	impact *ImpactCalculator,
	scanner *AtRiskScanner,
	compliance *ComplianceReporter,
	travel *TravelDistance,
) *SLAService {
	return &SLAService{
		store:      store,
		evaluator:  evaluator,
		impact:     impact,
		scanner:    scanner,
		compliance: compliance,
		travel:     travel,
	}
}

// ValidateSLA evaluates a caller-supplied parcel against a known route distance.
func (s *SLAService) ValidateSLA(
	parcel *domain.Parcel,
	vehicleLocation domain.Coordinates,
	routeDistanceKm float64,
	safetyMarginMinutes int,
) (domain.RiskAssessment, error) {
	return s.evaluator.ValidateSLA(parcel, vehicleLocation, routeDistanceKm, safetyMarginMinutes)
}

// ValidateParcelSLA loads a parcel and evaluates it for a vehicle at
// vehicleLocation, estimating the vehicle -> pickup -> delivery distance.
func (s *SLAService) ValidateParcelSLA(
	ctx context.Context,
	parcelID string,
	vehicleLocation domain.Coordinates,
	safetyMarginMinutes int,
) (domain.RiskAssessment, error) {
	parcel, err := s.store.FindByID(ctx, parcelID)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("validate parcel sla: %w", err)
	}

	km, err := s.travel.DistanceKm(ctx, []domain.Coordinates{
		vehicleLocation,
		parcel.PickupLocation,
		parcel.DeliveryLocation,
	})
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("validate parcel sla: %w", err)
	}

	return s.evaluator.ValidateSLA(parcel, vehicleLocation, km, safetyMarginMinutes)
}

func (s *SLAService) CalculateDeliveryTimeImpact(
	existingRoute []domain.RoutePoint,
	newPickup domain.Coordinates,
	newDelivery domain.Coordinates,
	originalETA time.Time,
) (domain.DeliveryTimeImpact, error) {
	return s.impact.Calculate(existingRoute, newPickup, newDelivery, originalETA)
}

// GetAtRiskParcels runs an on-demand scan over the next thresholdMinutes.
func (s *SLAService) GetAtRiskParcels(ctx context.Context, thresholdMinutes int) (ScanResult, error) {
	return s.scanner.Scan(ctx, thresholdMinutes)
}

func (s *SLAService) GenerateSLAComplianceReport(ctx context.Context, start, end time.Time) (domain.ComplianceReport, error) {
	return s.compliance.Generate(ctx, start, end)
}

func (s *SLAService) CalculateSLADeadline(pickup time.Time, level ServiceLevel) (time.Time, error) {
	return CalculateSLADeadline(pickup, level)
}

// CheckTransition validates a requested status change without applying it.
func (s *SLAService) CheckTransition(ctx context.Context, parcelID string, to domain.ParcelStatus) (*domain.Parcel, error) {
	if !to.Valid() {
		return nil, &domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", to)}
	}

	parcel, err := s.store.FindByID(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("check transition: %w", err)
	}

	if err := domain.ValidateTransition(parcel.Status, to); err != nil {
		return nil, fmt.Errorf("check transition: parcel %s: %w", parcelID, err)
	}
	return parcel, nil
}
