package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to ParcelStatus
		ok       bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusInTransit, false},
		{StatusAssigned, StatusInTransit, true},
		{StatusAssigned, StatusPending, true},
		{StatusAssigned, StatusFailed, true},
		{StatusAssigned, StatusDelivered, false},
		{StatusInTransit, StatusDelivered, true},
		{StatusInTransit, StatusFailed, true},
		{StatusInTransit, StatusPending, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusFailed, false},
		{StatusFailed, StatusPending, true},
		{StatusFailed, StatusAssigned, false},
		{"BOGUS", StatusPending, false},
	}

	for _, tc := range tests {
		err := ValidateTransition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%s -> %s: expected error", tc.from, tc.to)
				continue
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("%s -> %s: error %v is not a validation error", tc.from, tc.to, err)
			}
			msg := err.Error()
			if !strings.Contains(msg, string(tc.from)) || !strings.Contains(msg, string(tc.to)) {
				t.Errorf("error %q should name both states", msg)
			}
		}
	}
}

func TestDeliveredIsTerminal(t *testing.T) {
	if !StatusDelivered.IsTerminal() {
		t.Fatalf("DELIVERED should be terminal")
	}
	if StatusFailed.IsTerminal() {
		t.Fatalf("FAILED allows retry and is not terminal")
	}
}

func TestCoordinatesValidate(t *testing.T) {
	bad := []Coordinates{
		{Lat: 91, Lon: 0},
		{Lat: -90.5, Lon: 0},
		{Lat: 0, Lon: 180.1},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
	}
	for _, c := range bad {
		if err := c.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("Validate(%+v) = %v, want validation error", c, err)
		}
	}

	if err := (Coordinates{Lat: -90, Lon: 180}).Validate(); err != nil {
		t.Errorf("boundary coordinates rejected: %v", err)
	}
}
