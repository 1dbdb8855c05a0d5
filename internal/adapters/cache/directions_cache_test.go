package cache

import (
	"context"
	"route-consolidation-service/internal/adapters/repositories"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/db"
	"route-consolidation-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SQLDirectionsCache {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	d, err := repositories.DialectFor(db.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, repositories.InitSchema(context.Background(), conn, d))

	return NewSQLDirectionsCache(conn, d)
}

func TestDirectionsCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	key := RouteKey([]domain.Coordinates{{Lat: 40.7128, Lon: -74.0060}, {Lat: 40.7580, Lon: -73.9855}})

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := ports.Directions{
		Legs:             []ports.DirectionsLeg{{DistanceMeters: 5400, DurationSeconds: 720}},
		OverviewPolyline: "a~l~Fjk~uOwHJy@P",
	}
	require.NoError(t, c.Put(ctx, key, want))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// Overwrite.
	want.Legs[0].DistanceMeters = 6000
	require.NoError(t, c.Put(ctx, key, want))
	got, _, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 6000, got.Legs[0].DistanceMeters)
}

func TestRouteKeyRoundsCoordinates(t *testing.T) {
	a := RouteKey([]domain.Coordinates{{Lat: 40.712800001, Lon: -74.006}})
	b := RouteKey([]domain.Coordinates{{Lat: 40.7128, Lon: -74.006000004}})
	assert.Equal(t, a, b)
	assert.Equal(t, "40.71280,-74.00600", a)
}
