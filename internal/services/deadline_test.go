package services

import (
	"errors"
	"route-consolidation-service/internal/domain"
	"testing"
	"time"
)

func TestCalculateSLADeadline(t *testing.T) {
	pickup := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		level ServiceLevel
		want  time.Time
	}{
		{ServiceStandard, time.Date(2024, 1, 16, 18, 0, 0, 0, time.UTC)},
		{"", time.Date(2024, 1, 16, 18, 0, 0, 0, time.UTC)},
		{ServiceExpress, time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)},
		{ServiceSameDay, time.Date(2024, 1, 15, 23, 59, 59, 999_000_000, time.UTC)},
		{"express", time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := CalculateSLADeadline(pickup, tt.level)
		if err != nil {
			t.Fatalf("level %q: unexpected error: %v", tt.level, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("level %q: deadline = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCalculateSLADeadlineUsesPickupLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 23:30 in Tokyo is still the 15th locally.
	pickup := time.Date(2024, 1, 15, 23, 30, 0, 0, tokyo)

	got, err := CalculateSLADeadline(pickup, ServiceStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 16, 18, 0, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Fatalf("deadline = %v, want %v", got, want)
	}
}

func TestCalculateSLADeadlineMonthRollover(t *testing.T) {
	pickup := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	got, _ := CalculateSLADeadline(pickup, ServiceStandard)
	if want := time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("deadline = %v, want %v", got, want)
	}
}

func TestCalculateSLADeadlineUnknownLevel(t *testing.T) {
	_, err := CalculateSLADeadline(time.Now(), "OVERNIGHT")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
