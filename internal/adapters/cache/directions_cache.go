package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"route-consolidation-service/internal/adapters/repositories"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
	"strings"
)

// SQLDirectionsCache is a SQL-backed cache of routed trips keyed by the
// ordered list of stops.
type SQLDirectionsCache struct {
	DB      *sql.DB
	dialect repositories.Dialect
}

func NewSQLDirectionsCache(db *sql.DB, d repositories.Dialect) *SQLDirectionsCache {
	return &SQLDirectionsCache{DB: db, dialect: d}
}

// RouteKey builds the cache key for an ordered list of stops.
// Coordinates are rounded to 5 decimals (about 1 m).
func RouteKey(stops []domain.Coordinates) string {
	parts := make([]string, 0, len(stops))
	for _, c := range stops {
		parts = append(parts, fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon))
	}
	return strings.Join(parts, ";")
}

type cachedLeg struct {
	Meters  int `json:"m"`
	Seconds int `json:"s"`
}

// Get returns the cached directions for key. ok is false on a miss.
func (c *SQLDirectionsCache) Get(ctx context.Context, key string) (_ ports.Directions, ok bool, err error) {
	defer obs.Time(ctx, "directions.cache.Get")(&err)

	if c.DB == nil {
		return ports.Directions{}, false, errors.New("directions cache: db is nil")
	}
	if key == "" {
		return ports.Directions{}, false, errors.New("get directions cache: key must not be empty")
	}

	q := c.dialect.Rebind(`SELECT legs, polyline FROM directions_cache WHERE route_key = ?`)

	var rawLegs, polyline string
	err = c.DB.QueryRowContext(ctx, q, key).Scan(&rawLegs, &polyline)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Directions{}, false, nil
	}
	if err != nil {
		return ports.Directions{}, false, fmt.Errorf("get directions cache: query: %w", err)
	}

	var legs []cachedLeg
	if err := json.Unmarshal([]byte(rawLegs), &legs); err != nil {
		return ports.Directions{}, false, fmt.Errorf("get directions cache: decode legs: %w", err)
	}

	out := ports.Directions{
		Legs:             make([]ports.DirectionsLeg, 0, len(legs)),
		OverviewPolyline: polyline,
	}
	for _, l := range legs {
		out.Legs = append(out.Legs, ports.DirectionsLeg{DistanceMeters: l.Meters, DurationSeconds: l.Seconds})
	}
	return out, true, nil
}

// Put stores directions under key, replacing any previous entry.
func (c *SQLDirectionsCache) Put(ctx context.Context, key string, d ports.Directions) error {
	if c.DB == nil {
		return errors.New("directions cache: db is nil")
	}
	if key == "" {
		return errors.New("insert directions cache: key must not be empty")
	}

	legs := make([]cachedLeg, 0, len(d.Legs))
	for _, l := range d.Legs {
		legs = append(legs, cachedLeg{Meters: l.DistanceMeters, Seconds: l.DurationSeconds})
	}
	raw, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("insert directions cache: encode legs: %w", err)
	}

	q := c.dialect.Rebind(`
	INSERT INTO directions_cache (route_key, legs, polyline)
	VALUES (?, ?, ?)
	ON CONFLICT (route_key) DO UPDATE
	SET legs = excluded.legs,
		polyline = excluded.polyline;
	`)

	if _, err := c.DB.ExecContext(ctx, q, key, string(raw), d.OverviewPolyline); err != nil {
		return fmt.Errorf("insert directions cache key=%q: %w", key, err)
	}
	return nil
}
