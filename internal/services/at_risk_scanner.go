package services

import (
	"context"
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	DefaultRiskWindowMinutes = 120

	baseRemainingMinutes  = 180.0
	minRemainingMinutes   = 30.0
	urgentRemainingFactor = 0.7
	lowRemainingFactor    = 1.3
)

// A parcel whose evaluation failed during a scan.
type ScanFailure struct {
	ParcelID string
	Err      error
}

// Outcome of one at-risk scan.
type ScanResult struct {
	StartedAt time.Time
	Scanned   int
	Alerts    []domain.SLARiskAlert
	Breaches  []domain.BreachEvent
	Failures  []ScanFailure
}

// AtRiskScanner finds in-flight parcels likely to miss their deadline.
type AtRiskScanner struct {
	store ports.ParcelStore
	now   func() time.Time

	scans  metric.Int64Counter
	alerts metric.Int64Counter
}

func NewAtRiskScanner(store ports.ParcelStore, now func() time.Time) *AtRiskScanner {
	if now == nil {
		now = time.Now
	}

	meter := otel.Meter("route-consolidation-service/scanner")
	scans, _ := meter.Int64Counter("sla.scans", metric.WithDescription("Completed at-risk scans"))
	alerts, _ := meter.Int64Counter("sla.alerts", metric.WithDescription("At-risk alerts raised, by level"))

	return &AtRiskScanner{store: store, now: now, scans: scans, alerts: alerts}
}

// Scan evaluates active parcels whose deadline falls within windowMinutes.
// Parcels already past their deadline are reported as breaches. A failure
// on one parcel is recorded and the scan moves on.
func (s *AtRiskScanner) Scan(ctx context.Context, windowMinutes int) (_ ScanResult, err error) {
	defer obs.Time(ctx, "scanner.Scan")(&err)

	if windowMinutes <= 0 {
		windowMinutes = DefaultRiskWindowMinutes
	}

	now := s.now()
	cutoff := now.Add(time.Duration(windowMinutes) * time.Minute)

	parcels, err := s.store.Find(ctx, ports.ParcelFilter{
		Statuses:       domain.ActiveStatuses,
		DeadlineBefore: &cutoff,
	}, ports.OrderByDeadlineAsc)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scan at-risk parcels: find active parcels: %w", err)
	}

	res := ScanResult{StartedAt: now, Scanned: len(parcels)}
	for _, p := range parcels {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("scan at-risk parcels: %w", err)
		}

		ttd := minutesUntil(now, p.SLADeadline)
		if !p.SLADeadline.After(now) {
			res.Breaches = append(res.Breaches, domain.BreachEvent{
				ParcelID:       p.ID,
				TrackingNumber: p.TrackingNumber,
				SLADeadline:    p.SLADeadline,
				MinutesOverdue: -ttd,
				DetectedAt:     now,
			})
			continue
		}

		alert, ok, err := s.evaluate(p, now, ttd)
		if err != nil {
			res.Failures = append(res.Failures, ScanFailure{ParcelID: p.ID, Err: err})
			continue
		}
		if ok {
			res.Alerts = append(res.Alerts, alert)
			s.alerts.Add(ctx, 1, metric.WithAttributes(attribute.String("level", string(alert.RiskLevel))))
		}
	}

	s.scans.Add(ctx, 1)
	return res, nil
}

func (s *AtRiskScanner) evaluate(p *domain.Parcel, now time.Time, ttd int) (domain.SLARiskAlert, bool, error) {
	if !p.Priority.Valid() {
		return domain.SLARiskAlert{}, false, &domain.ValidationError{
			Field: "priority",
			Msg:   fmt.Sprintf("parcel %s has unknown priority %q", p.ID, p.Priority),
		}
	}

	estimated := estimateRemainingMinutes(p, now)
	level, reason := classifyMargin(ttd-estimated, DefaultSafetyMarginMinutes)
	if level == domain.RiskLow {
		return domain.SLARiskAlert{}, false, nil
	}

	factors := []string{reason}
	if p.Priority.IsElevated() {
		factors = append(factors, factorHighPriority)
	}
	if p.Status == domain.StatusPending {
		factors = append(factors, factorUnassigned)
	}

	return domain.SLARiskAlert{
		ParcelID:              p.ID,
		TrackingNumber:        p.TrackingNumber,
		RiskLevel:             level,
		TimeToDeadline:        ttd,
		EstimatedDeliveryTime: estimated,
		RiskFactors:           factors,
		RecommendedActions:    recommendedActions(level),
		DetectedAt:            now,
	}, true, nil
}

// estimateRemainingMinutes is a location-free heuristic: a 180 minute base
// scaled by priority, reduced by time already spent assigned, floored at 30.
func estimateRemainingMinutes(p *domain.Parcel, now time.Time) int {
	est := baseRemainingMinutes
	switch p.Priority {
	case domain.PriorityUrgent:
		est *= urgentRemainingFactor
	case domain.PriorityLow:
		est *= lowRemainingFactor
	}

	if p.AssignedAt != nil && now.After(*p.AssignedAt) {
		est -= now.Sub(*p.AssignedAt).Minutes()
	}

	return int(math.Round(math.Max(minRemainingMinutes, est)))
}

func recommendedActions(level domain.RiskLevel) []string {
	switch level {
	case domain.RiskCritical:
		return []string{"Immediate dispatcher intervention required", "Consider emergency reassignment"}
	case domain.RiskHigh:
		return []string{"Monitor closely", "Prepare contingency plan"}
	case domain.RiskMedium:
		return []string{"Track progress regularly"}
	}
	return []string{}
}
