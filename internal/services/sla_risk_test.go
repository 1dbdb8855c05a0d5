package services

import (
	"errors"
	"route-consolidation-service/internal/domain"
	"slices"
	"testing"
	"time"
)

func newTestEvaluator() *RiskEvaluator {
	r := NewRiskEvaluator(DefaultEstimator())
	r.Now = fixedClock
	r.Location = time.UTC
	return r
}

func TestValidateSLARiskLevels(t *testing.T) {
	// 10 km with one pickup and one delivery estimates to 64 minutes.
	tests := []struct {
		name     string
		deadline time.Duration
		want     domain.RiskLevel
		margin   int
	}{
		{"comfortable", 200 * time.Minute, domain.RiskLow, 136},
		{"inside safety margin", 110 * time.Minute, domain.RiskMedium, 46},
		{"under half the margin", 80 * time.Minute, domain.RiskHigh, 16},
		{"exactly on time", 64 * time.Minute, domain.RiskHigh, 0},
		{"past deadline", 50 * time.Minute, domain.RiskCritical, -14},
	}

	r := newTestEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParcel("P", domain.PriorityMedium, domain.StatusAssigned, testNow.Add(tt.deadline))
			got, err := r.ValidateSLA(p, nyc, 10, 60)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.RiskLevel != tt.want {
				t.Fatalf("risk = %s, want %s", got.RiskLevel, tt.want)
			}
			if got.SafetyMargin != tt.margin {
				t.Fatalf("margin = %d, want %d", got.SafetyMargin, tt.margin)
			}
			if got.EstimatedDeliveryTime != 64 {
				t.Fatalf("estimate = %d, want 64", got.EstimatedDeliveryTime)
			}
			if got.IsValid != (tt.want != domain.RiskCritical) {
				t.Fatalf("is_valid = %v for %s", got.IsValid, got.RiskLevel)
			}
		})
	}
}

func TestValidateSLARiskFactors(t *testing.T) {
	r := newTestEvaluator()

	p := testParcel("P", domain.PriorityUrgent, domain.StatusAssigned, testNow.Add(10*time.Hour))
	got, err := r.ValidateSLA(p, nyc, 60, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Contains(got.RiskFactors, factorHighPriority) {
		t.Fatalf("missing high priority factor: %v", got.RiskFactors)
	}
	if !slices.Contains(got.RiskFactors, factorLongRoute) {
		t.Fatalf("missing long route factor: %v", got.RiskFactors)
	}
	if slices.Contains(got.RiskFactors, factorOffPeak) {
		t.Fatalf("unexpected off-peak factor at noon: %v", got.RiskFactors)
	}

	r.Now = func() time.Time { return time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC) }
	got, _ = r.ValidateSLA(p, nyc, 5, 0)
	if !slices.Contains(got.RiskFactors, factorOffPeak) {
		t.Fatalf("missing off-peak factor at 19:00: %v", got.RiskFactors)
	}
}

func TestValidateSLAErrors(t *testing.T) {
	r := newTestEvaluator()
	p := testParcel("P", domain.PriorityLow, domain.StatusPending, testNow.Add(time.Hour))

	if _, err := r.ValidateSLA(nil, nyc, 1, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("nil parcel: expected validation error, got %v", err)
	}
	if _, err := r.ValidateSLA(p, domain.Coordinates{Lat: -91}, 1, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad vehicle location: expected validation error, got %v", err)
	}
	if _, err := r.ValidateSLA(p, nyc, -3, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative distance: expected validation error, got %v", err)
	}
}
