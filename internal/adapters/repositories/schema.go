package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-consolidation-service/internal/domain"
	"strings"
	"time"
)

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	realType, ts := d.RealType(), d.TimestampType()

	createParcelsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS parcels (
		id TEXT PRIMARY KEY,
		tracking_number TEXT NOT NULL UNIQUE,
		pickup_lat %[1]s NOT NULL,
		pickup_lon %[1]s NOT NULL,
		delivery_lat %[1]s NOT NULL,
		delivery_lon %[1]s NOT NULL,
		weight_kg %[1]s NOT NULL DEFAULT 0,
		length_cm %[1]s NOT NULL DEFAULT 0,
		width_cm %[1]s NOT NULL DEFAULT 0,
		height_cm %[1]s NOT NULL DEFAULT 0,
		priority TEXT NOT NULL,
		sla_deadline %[2]s NOT NULL,
		status TEXT NOT NULL,
		assigned_vehicle_id TEXT,
		assigned_at %[2]s,
		created_at %[2]s NOT NULL,
		updated_at %[2]s NOT NULL
	);
	`, realType, ts)

	createDirectionsCacheQuery := `
	CREATE TABLE IF NOT EXISTS directions_cache (
		route_key TEXT PRIMARY KEY,
		legs TEXT NOT NULL,
		polyline TEXT NOT NULL DEFAULT ''
	);
	`

	createDeadlineIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_parcels_status_deadline
	ON parcels(status, sla_deadline);
	`

	createCreatedIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_parcels_status_created
	ON parcels(status, created_at);
	`

	statements := []string{
		createParcelsQuery,
		createDirectionsCacheQuery,
		createDeadlineIndexQuery,
		createCreatedIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ParcelSeed struct {
	ID              string     `json:"id"`
	TrackingNumber  string     `json:"tracking_number"`
	PickupLat       float64    `json:"pickup_lat"`
	PickupLon       float64    `json:"pickup_lon"`
	DeliveryLat     float64    `json:"delivery_lat"`
	DeliveryLon     float64    `json:"delivery_lon"`
	WeightKg        float64    `json:"weight_kg"`
	Priority        string     `json:"priority"`
	SLADeadline     time.Time  `json:"sla_deadline"`
	Status          string     `json:"status"`
	AssignedVehicle *string    `json:"assigned_vehicle_id"`
	AssignedAt      *time.Time `json:"assigned_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// Populate the parcels table from a JSON file.
func SeedFromJSON(ctx context.Context, repo *SQLParcelRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed parcels: read %q: %w", jsonPath, err)
	}

	var data []ParcelSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed parcels: parse json: %w", err)
	}

	parcels := make([]*domain.Parcel, 0, len(data))
	for i, item := range data {
		p, err := item.toParcel()
		if err != nil {
			return 0, fmt.Errorf("seed parcels: item at index %d: %w", i, err)
		}
		parcels = append(parcels, p)
	}

	for _, p := range parcels {
		if _, err := repo.Save(ctx, p); err != nil {
			return 0, fmt.Errorf("seed parcels: %w", err)
		}
	}

	return len(parcels), nil
}

func (s ParcelSeed) toParcel() (*domain.Parcel, error) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return nil, errors.New("id cannot be empty")
	}
	if strings.TrimSpace(s.TrackingNumber) == "" {
		return nil, fmt.Errorf("parcel %s: tracking_number cannot be empty", id)
	}

	p := &domain.Parcel{
		ID:                id,
		TrackingNumber:    strings.TrimSpace(s.TrackingNumber),
		PickupLocation:    domain.Coordinates{Lat: s.PickupLat, Lon: s.PickupLon},
		DeliveryLocation:  domain.Coordinates{Lat: s.DeliveryLat, Lon: s.DeliveryLon},
		WeightKg:          s.WeightKg,
		Priority:          domain.Priority(strings.ToUpper(s.Priority)),
		SLADeadline:       s.SLADeadline,
		Status:            domain.ParcelStatus(strings.ToUpper(s.Status)),
		AssignedVehicleID: s.AssignedVehicle,
		AssignedAt:        s.AssignedAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		p.UpdatedAt = *s.UpdatedAt
	}
	if p.Status == "" {
		p.Status = domain.StatusPending
	}

	if err := validateParcel(p); err != nil {
		return nil, err
	}
	return p, nil
}
