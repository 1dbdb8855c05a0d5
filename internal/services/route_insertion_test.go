package services

import (
	"route-consolidation-service/internal/domain"
	"testing"
)

func indexOf(route []domain.RoutePoint, id string) int {
	for i, p := range route {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func TestInsertionIndexBetweenNeighbors(t *testing.T) {
	a := domain.Coordinates{Lat: 40.0, Lon: -74.0}
	b := domain.Coordinates{Lat: 40.1, Lon: -74.0}
	c := domain.Coordinates{Lat: 40.2, Lon: -74.0}

	idx, detour, err := InsertionIndex([]domain.Coordinates{a, c}, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("index = %d, want 1", idx)
	}
	if detour > 1e-6 {
		t.Fatalf("detour for a collinear midpoint = %v, want ~0", detour)
	}
}

func TestInsertionIndexEmptyAndTies(t *testing.T) {
	idx, detour, err := InsertionIndex(nil, nyc)
	if err != nil || idx != 0 || detour != 0 {
		t.Fatalf("empty route: got (%d, %v, %v), want (0, 0, nil)", idx, detour, err)
	}

	// Inserting before or after a single stop costs the same; lowest index wins.
	idx, _, err = InsertionIndex([]domain.Coordinates{midtown}, nyc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Fatalf("tie broken to index %d, want 0", idx)
	}
}

func TestInsertPairKeepsPickupBeforeDelivery(t *testing.T) {
	route := []domain.RoutePoint{
		point("a", "x", domain.PointPickup, nyc),
		point("b", "x", domain.PointDelivery, midtown),
	}
	// The delivery lies right next to the first stop, which would tempt a
	// naive cheapest insertion to put it ahead of its pickup.
	pickup := point("p", "new", domain.PointPickup, domain.Coordinates{Lat: 40.7570, Lon: -73.9860})
	delivery := point("d", "new", domain.PointDelivery, domain.Coordinates{Lat: 40.7130, Lon: -74.0058})

	got, err := InsertPair(route, pickup, delivery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 stops, got %d", len(got))
	}
	if indexOf(got, "p") >= indexOf(got, "d") {
		t.Fatalf("pickup at %d not before delivery at %d", indexOf(got, "p"), indexOf(got, "d"))
	}
	for i, p := range got {
		if p.Sequence != i+1 {
			t.Fatalf("stop %q has sequence %d, want %d", p.ID, p.Sequence, i+1)
		}
	}
}

func TestInsertPairNeverWorseThanAppending(t *testing.T) {
	routes := [][]domain.RoutePoint{
		nil,
		{point("a", "x", domain.PointPickup, nyc)},
		{
			point("a", "x", domain.PointPickup, nyc),
			point("b", "x", domain.PointDelivery, midtown),
			point("c", "y", domain.PointDelivery, domain.Coordinates{Lat: 40.6782, Lon: -73.9442}),
		},
	}
	pickup := point("p", "new", domain.PointPickup, domain.Coordinates{Lat: 40.7306, Lon: -73.9352})
	delivery := point("d", "new", domain.PointDelivery, domain.Coordinates{Lat: 40.8448, Lon: -73.8648})

	for _, route := range routes {
		got, err := InsertPair(route, pickup, delivery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		naive := append(append([]domain.RoutePoint{}, route...), pickup, delivery)
		gotKm, _ := RouteDistance(domain.Locations(got))
		naiveKm, _ := RouteDistance(domain.Locations(naive))
		if gotKm > naiveKm+1e-9 {
			t.Fatalf("inserted route %.3f km is longer than appending %.3f km", gotKm, naiveKm)
		}
	}
}

func TestInsertPairRespectsCompletedStops(t *testing.T) {
	done := point("a", "x", domain.PointPickup, nyc)
	done.Completed = true
	route := []domain.RoutePoint{done, point("b", "x", domain.PointDelivery, midtown)}

	pickup := point("p", "new", domain.PointPickup, domain.Coordinates{Lat: 40.7000, Lon: -74.0100})
	delivery := point("d", "new", domain.PointDelivery, domain.Coordinates{Lat: 40.7010, Lon: -74.0110})

	got, err := InsertPair(route, pickup, delivery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].ID != "a" {
		t.Fatalf("completed stop moved; first stop is %q", got[0].ID)
	}
}

func TestInsertPairRejectsInvalidLocation(t *testing.T) {
	bad := point("p", "new", domain.PointPickup, domain.Coordinates{Lat: 100})
	if _, err := InsertPair(nil, bad, point("d", "new", domain.PointDelivery, nyc)); err == nil {
		t.Fatal("expected error for invalid pickup location")
	}
}
