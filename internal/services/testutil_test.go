package services

import (
	"route-consolidation-service/internal/domain"
	"time"
)

var (
	nyc     = domain.Coordinates{Lat: 40.7128, Lon: -74.0060}
	midtown = domain.Coordinates{Lat: 40.7580, Lon: -73.9855}
	la      = domain.Coordinates{Lat: 34.0522, Lon: -118.2437}

	// Midday in UTC so the off-peak factor never fires unexpectedly.
	testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return testNow }

func testParcel(id string, priority domain.Priority, status domain.ParcelStatus, deadline time.Time) *domain.Parcel {
	return &domain.Parcel{
		ID:               id,
		TrackingNumber:   "TRK-" + id,
		PickupLocation:   nyc,
		DeliveryLocation: midtown,
		WeightKg:         2,
		Priority:         priority,
		SLADeadline:      deadline,
		Status:           status,
		CreatedAt:        testNow.Add(-2 * time.Hour),
		UpdatedAt:        testNow.Add(-2 * time.Hour),
	}
}

func point(id, parcelID string, typ domain.RoutePointType, c domain.Coordinates) domain.RoutePoint {
	return domain.RoutePoint{ID: id, ParcelID: parcelID, Type: typ, Location: c}
}
