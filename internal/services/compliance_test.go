package services

import (
	"context"
	"errors"
	"route-consolidation-service/internal/adapters/memory"
	"route-consolidation-service/internal/domain"
	"testing"
	"time"
)

func deliveredParcel(id string, created time.Time, took, slack time.Duration) *domain.Parcel {
	p := testParcel(id, domain.PriorityMedium, domain.StatusDelivered, time.Time{})
	p.CreatedAt = created
	p.UpdatedAt = created.Add(took)
	p.SLADeadline = p.UpdatedAt.Add(slack)
	return p
}

func TestComplianceReport(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	store := memory.NewParcelStore(
		deliveredParcel("on-time-1", created, time.Hour, 2*time.Hour),
		deliveredParcel("on-time-2", created, 2*time.Hour, 0),
		deliveredParcel("late", created, 3*time.Hour, -15*time.Minute),
		deliveredParcel("outside", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), time.Hour, time.Hour),
		testParcel("in-flight", domain.PriorityMedium, domain.StatusInTransit, created),
	)

	got, err := NewComplianceReporter(store).Generate(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TotalParcels != 3 {
		t.Fatalf("total = %d, want 3", got.TotalParcels)
	}
	if got.OnTimeDeliveries != 2 || got.LateDeliveries != 1 {
		t.Fatalf("on-time/late = %d/%d, want 2/1", got.OnTimeDeliveries, got.LateDeliveries)
	}
	if got.ComplianceRate != 66.67 {
		t.Fatalf("compliance rate = %v, want 66.67", got.ComplianceRate)
	}
	if got.AverageDeliveryTime != 120 {
		t.Fatalf("average delivery time = %v, want 120", got.AverageDeliveryTime)
	}
	want := domain.RiskBreakdown{Low: 1, High: 1, Critical: 1}
	if got.RiskBreakdown != want {
		t.Fatalf("breakdown = %+v, want %+v", got.RiskBreakdown, want)
	}
}

func TestComplianceReportEmptyRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := NewComplianceReporter(memory.NewParcelStore()).Generate(context.Background(), start, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalParcels != 0 || got.ComplianceRate != 0 {
		t.Fatalf("empty report = %+v", got)
	}
}

func TestComplianceReportRejectsInvertedRange(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewComplianceReporter(memory.NewParcelStore()).Generate(context.Background(), start, start.Add(-time.Hour))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
