package services

import (
	"context"
	"fmt"
	"math"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
	"time"
)

// ComplianceReporter aggregates delivered parcels against their deadlines.
type ComplianceReporter struct {
	store ports.ParcelStore
}

func NewComplianceReporter(store ports.ParcelStore) *ComplianceReporter {
	return &ComplianceReporter{store: store}
}

// Generate reports on DELIVERED parcels created within [start, end].
// A parcel counts as on time when its last update is not after the deadline.
func (c *ComplianceReporter) Generate(ctx context.Context, start, end time.Time) (_ domain.ComplianceReport, err error) {
	defer obs.Time(ctx, "compliance.Generate")(&err)

	if end.Before(start) {
		return domain.ComplianceReport{}, &domain.ValidationError{
			Field: "end_date",
			Msg:   fmt.Sprintf("%s is before start_date %s", end.Format(time.RFC3339), start.Format(time.RFC3339)),
		}
	}

	parcels, err := c.store.Find(ctx, ports.ParcelFilter{
		Statuses:    []domain.ParcelStatus{domain.StatusDelivered},
		CreatedFrom: &start,
		CreatedTo:   &end,
	}, ports.OrderByCreatedAsc)
	if err != nil {
		return domain.ComplianceReport{}, fmt.Errorf("compliance report: find delivered parcels: %w", err)
	}

	report := domain.ComplianceReport{
		StartDate:    start,
		EndDate:      end,
		TotalParcels: len(parcels),
	}
	if len(parcels) == 0 {
		return report, nil
	}

	totalMinutes := 0.0
	for _, p := range parcels {
		if !p.UpdatedAt.After(p.SLADeadline) {
			report.OnTimeDeliveries++
		}
		totalMinutes += p.UpdatedAt.Sub(p.CreatedAt).Minutes()
		report.RiskBreakdown.Add(deliveryMarginLevel(p.SLADeadline.Sub(p.UpdatedAt)))
	}

	report.LateDeliveries = report.TotalParcels - report.OnTimeDeliveries
	report.ComplianceRate = round2(float64(report.OnTimeDeliveries) / float64(report.TotalParcels) * 100)
	report.AverageDeliveryTime = round2(totalMinutes / float64(report.TotalParcels))

	return report, nil
}

// deliveryMarginLevel buckets the slack left at delivery.
func deliveryMarginLevel(margin time.Duration) domain.RiskLevel {
	switch {
	case margin < 0:
		return domain.RiskCritical
	case margin < 30*time.Minute:
		return domain.RiskHigh
	case margin < 60*time.Minute:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
