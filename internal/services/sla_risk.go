package services

import (
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
	"time"
)

const (
	DefaultSafetyMarginMinutes = 60
	longRouteKm                = 50.0
)

const (
	factorExceedsDeadline = "Estimated delivery time exceeds SLA deadline"
	factorVeryTight       = "Very tight delivery window"
	factorLimitedMargin   = "Limited safety margin"
	factorHighPriority    = "High priority parcel requires extra attention"
	factorLongRoute       = "Long delivery route increases risk"
	factorOffPeak         = "Delivery during off-peak hours may have delays"
	factorUnassigned      = "Parcel not yet assigned to a vehicle"
)

// RiskEvaluator scores how likely a parcel is to miss its SLA deadline.
// It holds no mutable state and is safe for concurrent use.
type RiskEvaluator struct {
	Estimator Estimator
	// Now defaults to time.Now.
	Now func() time.Time
	// Location used for the off-peak check; defaults to time.Local.
	Location *time.Location
}

func NewRiskEvaluator(est Estimator) *RiskEvaluator {
	return &RiskEvaluator{Estimator: est}
}

func (r *RiskEvaluator) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// ValidateSLA estimates delivery time over routeDistanceKm (one pickup, one
// delivery) and classifies the resulting margin against the parcel deadline.
// A non-positive safetyMarginMinutes uses the 60 minute default.
func (r *RiskEvaluator) ValidateSLA(
	parcel *domain.Parcel,
	vehicleLocation domain.Coordinates,
	routeDistanceKm float64,
	safetyMarginMinutes int,
) (domain.RiskAssessment, error) {
	if parcel == nil {
		return domain.RiskAssessment{}, &domain.ValidationError{Field: "parcel", Msg: "must not be nil"}
	}
	if err := vehicleLocation.Validate(); err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("validate sla: vehicle location: %w", err)
	}
	if safetyMarginMinutes <= 0 {
		safetyMarginMinutes = DefaultSafetyMarginMinutes
	}

	now := r.now()
	timeToDeadline := minutesUntil(now, parcel.SLADeadline)

	estimated, err := r.Estimator.EstimateMinutes(routeDistanceKm, 1, 1)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("validate sla: parcel %s: %w", parcel.ID, err)
	}

	margin := timeToDeadline - estimated
	level, reason := classifyMargin(margin, safetyMarginMinutes)

	a := domain.RiskAssessment{
		IsValid:               level != domain.RiskCritical,
		RiskLevel:             level,
		TimeToDeadline:        timeToDeadline,
		EstimatedDeliveryTime: estimated,
		SafetyMargin:          margin,
		RiskFactors:           []string{},
	}
	if reason != "" {
		a.RiskFactors = append(a.RiskFactors, reason)
	}
	if parcel.Priority.IsElevated() {
		a.RiskFactors = append(a.RiskFactors, factorHighPriority)
	}
	if routeDistanceKm > longRouteKm {
		a.RiskFactors = append(a.RiskFactors, factorLongRoute)
	}
	if r.isOffPeak(now) {
		a.RiskFactors = append(a.RiskFactors, factorOffPeak)
	}

	return a, nil
}

func (r *RiskEvaluator) isOffPeak(t time.Time) bool {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	h := t.In(loc).Hour()
	return h >= 17 || h <= 8
}

// classifyMargin applies the shared precedence: negative margin is CRITICAL,
// under half the safety margin HIGH, under the safety margin MEDIUM.
func classifyMargin(margin, safetyMarginMinutes int) (domain.RiskLevel, string) {
	switch {
	case margin < 0:
		return domain.RiskCritical, factorExceedsDeadline
	case float64(margin) < float64(safetyMarginMinutes)*0.5:
		return domain.RiskHigh, factorVeryTight
	case margin < safetyMarginMinutes:
		return domain.RiskMedium, factorLimitedMargin
	default:
		return domain.RiskLow, ""
	}
}

// minutesUntil returns whole minutes from now to t, negative when t has passed.
func minutesUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Minutes()))
}
