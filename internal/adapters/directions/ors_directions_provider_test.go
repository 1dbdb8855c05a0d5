package directions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"route-consolidation-service/internal/adapters/cache"
	"route-consolidation-service/internal/adapters/repositories"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/db"
	"route-consolidation-service/internal/ports"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nyc     = domain.Coordinates{Lat: 40.7128, Lon: -74.0060}
	midtown = domain.Coordinates{Lat: 40.7580, Lon: -73.9855}
	bronx   = domain.Coordinates{Lat: 40.8448, Lon: -73.8648}
)

const twoSegmentBody = `{
  "routes": [{
    "segments": [
      {"distance": 5400.4, "duration": 719.6},
      {"distance": 11020.0, "duration": 1320.2}
    ],
    "geometry": "a~l~Fjk~uOwHJy@P"
  }]
}`

func newTestDirectionsCache(t *testing.T) *cache.SQLDirectionsCache {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	d, err := repositories.DialectFor(db.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, repositories.InitSchema(context.Background(), conn, d))
	return cache.NewSQLDirectionsCache(conn, d)
}

func TestORSRouteParsesSegmentsAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var body directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{nyc.CoordsToList(), midtown.CoordsToList(), bronx.CoordsToList()}, body.Coordinates)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoSegmentBody))
	}))
	defer srv.Close()

	p, err := NewORSDirectionsProvider("test-key", srv.URL, "", newTestDirectionsCache(t))
	require.NoError(t, err)

	got, err := p.Route(context.Background(), nyc, bronx, []domain.Coordinates{midtown})
	require.NoError(t, err)

	require.Len(t, got.Legs, 2)
	assert.Equal(t, 5400, got.Legs[0].DistanceMeters)
	assert.Equal(t, 720, got.Legs[0].DurationSeconds)
	assert.InDelta(t, 16.42, got.TotalDistanceKm(), 0.001)
	assert.Equal(t, "a~l~Fjk~uOwHJy@P", got.OverviewPolyline)

	again, err := p.Route(context.Background(), nyc, bronx, []domain.Coordinates{midtown})
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), hits.Load(), "second call should be served from cache")
}

func TestORSRouteRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"routes":[{"segments":[{"distance":1000,"duration":60}],"geometry":""}]}`))
	}))
	defer srv.Close()

	p, err := NewORSDirectionsProvider("k", srv.URL, "", nil)
	require.NoError(t, err)

	got, err := p.Route(context.Background(), nyc, midtown, nil)
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Legs[0].DistanceMeters)
	assert.Equal(t, int32(2), hits.Load())
}

func TestORSRouteClientErrorIsUnavailable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := NewORSDirectionsProvider("k", srv.URL, "", nil)
	require.NoError(t, err)

	_, err = p.Route(context.Background(), nyc, midtown, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrDirectionsUnavailable))

	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, int32(1), hits.Load(), "4xx other than 429 is not retried")
}

func TestORSRouteRejectsInvalidStops(t *testing.T) {
	p, err := NewORSDirectionsProvider("k", "http://127.0.0.1:0", "", nil)
	require.NoError(t, err)

	_, err = p.Route(context.Background(), domain.Coordinates{Lat: 91}, midtown, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestNewORSDirectionsProviderRequiresKey(t *testing.T) {
	_, err := NewORSDirectionsProvider("", "", "", nil)
	assert.Error(t, err)
}

func TestMockDirectionsProvider(t *testing.T) {
	m := NewMockDirectionsProvider([]MockRoute{{
		Stops:      []domain.Coordinates{nyc, midtown},
		Directions: ports.Directions{Legs: []ports.DirectionsLeg{{DistanceMeters: 5400, DurationSeconds: 700}}},
	}})

	got, err := m.Route(context.Background(), nyc, midtown, nil)
	require.NoError(t, err)
	assert.InDelta(t, 5.4, got.TotalDistanceKm(), 1e-9)

	_, err = m.Route(context.Background(), midtown, nyc, nil)
	assert.True(t, errors.Is(err, ports.ErrDirectionsUnavailable))
	assert.Equal(t, 2, m.Calls())
}
