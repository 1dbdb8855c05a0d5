package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/platform/obs"
	"route-consolidation-service/internal/ports"
	"strings"
)

// SQL-backed implementation of the ParcelStore port for SQLite and PostgreSQL.
type SQLParcelRepository struct {
	DB      *sql.DB
	dialect Dialect
}

func NewSQLParcelRepository(db *sql.DB, d Dialect) *SQLParcelRepository {
	return &SQLParcelRepository{DB: db, dialect: d}
}

const parcelColumns = `
	id, tracking_number,
	pickup_lat, pickup_lon, delivery_lat, delivery_lon,
	weight_kg, length_cm, width_cm, height_cm,
	priority, sla_deadline, status,
	assigned_vehicle_id, assigned_at, created_at, updated_at`

// Return the parcel with the given id.
func (s *SQLParcelRepository) FindByID(ctx context.Context, id string) (_ *domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.FindByID")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: DB is nil")
	}

	q := s.dialect.Rebind(`SELECT` + parcelColumns + ` FROM parcels WHERE id = ?;`)
	row := s.DB.QueryRowContext(ctx, q, id)

	p, err := scanParcel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find parcel %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find parcel %q: %w", id, err)
	}
	return p, nil
}

// Return all parcels matching filter.
func (s *SQLParcelRepository) Find(
	ctx context.Context,
	filter ports.ParcelFilter,
	order ports.ParcelOrder,
) (_ []*domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.Find")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: DB is nil")
	}

	var (
		where []string
		args  []any
	)

	if len(filter.Statuses) > 0 {
		ph := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			ph = append(ph, "?")
			args = append(args, string(st))
		}
		// Only the placeholder structure is interpolated; all values remain parameterized.
		where = append(where, fmt.Sprintf("status IN (%s)", strings.Join(ph, ",")))
	}
	if filter.DeadlineBefore != nil {
		where = append(where, "sla_deadline <= ?")
		args = append(args, s.dialect.TimeArg(*filter.DeadlineBefore))
	}
	if filter.CreatedFrom != nil {
		where = append(where, "created_at >= ?")
		args = append(args, s.dialect.TimeArg(*filter.CreatedFrom))
	}
	if filter.CreatedTo != nil {
		where = append(where, "created_at <= ?")
		args = append(args, s.dialect.TimeArg(*filter.CreatedTo))
	}

	q := `SELECT` + parcelColumns + ` FROM parcels`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	switch order {
	case ports.OrderByDeadlineAsc:
		q += " ORDER BY sla_deadline ASC, id ASC"
	case ports.OrderByCreatedAsc:
		q += " ORDER BY created_at ASC, id ASC"
	default:
		q += " ORDER BY id ASC"
	}

	rows, err := s.DB.QueryContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("find parcels: query parcels table: %w", err)
	}
	defer rows.Close()

	parcels := make([]*domain.Parcel, 0, 64)
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, fmt.Errorf("find parcels: scan row: %w", err)
		}
		parcels = append(parcels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find parcels: row iteration: %w", err)
	}

	return parcels, nil
}

// Insert or update a parcel. The SLA deadline is never changed once stored.
func (s *SQLParcelRepository) Save(ctx context.Context, p *domain.Parcel) (_ *domain.Parcel, err error) {
	defer obs.Time(ctx, "parcels.Save")(&err)

	if s.DB == nil {
		return nil, errors.New("parcel repository: DB is nil")
	}
	if err := validateParcel(p); err != nil {
		return nil, fmt.Errorf("save parcel: %w", err)
	}

	var assignedAt any
	if p.AssignedAt != nil {
		assignedAt = s.dialect.TimeArg(*p.AssignedAt)
	}

	q := s.dialect.Rebind(`
	INSERT INTO parcels (` + parcelColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET tracking_number = excluded.tracking_number,
		pickup_lat = excluded.pickup_lat,
		pickup_lon = excluded.pickup_lon,
		delivery_lat = excluded.delivery_lat,
		delivery_lon = excluded.delivery_lon,
		weight_kg = excluded.weight_kg,
		length_cm = excluded.length_cm,
		width_cm = excluded.width_cm,
		height_cm = excluded.height_cm,
		priority = excluded.priority,
		status = excluded.status,
		assigned_vehicle_id = excluded.assigned_vehicle_id,
		assigned_at = excluded.assigned_at,
		updated_at = excluded.updated_at;
	`)

	_, err = s.DB.ExecContext(ctx, q,
		p.ID, p.TrackingNumber,
		p.PickupLocation.Lat, p.PickupLocation.Lon, p.DeliveryLocation.Lat, p.DeliveryLocation.Lon,
		p.WeightKg, p.Dimensions.LengthCm, p.Dimensions.WidthCm, p.Dimensions.HeightCm,
		string(p.Priority), s.dialect.TimeArg(p.SLADeadline), string(p.Status),
		p.AssignedVehicleID, assignedAt, s.dialect.TimeArg(p.CreatedAt), s.dialect.TimeArg(p.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("save parcel %q: %w", p.ID, err)
	}

	// The stored row wins: sla_deadline is never overwritten on update.
	return s.FindByID(ctx, p.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcel(r rowScanner) (*domain.Parcel, error) {
	var (
		p                                      domain.Parcel
		priority, status                       string
		vehicleID                              sql.NullString
		deadline, assignedAt, created, updated any
	)

	err := r.Scan(
		&p.ID, &p.TrackingNumber,
		&p.PickupLocation.Lat, &p.PickupLocation.Lon, &p.DeliveryLocation.Lat, &p.DeliveryLocation.Lon,
		&p.WeightKg, &p.Dimensions.LengthCm, &p.Dimensions.WidthCm, &p.Dimensions.HeightCm,
		&priority, &deadline, &status,
		&vehicleID, &assignedAt, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	p.Priority = domain.Priority(priority)
	p.Status = domain.ParcelStatus(status)
	if vehicleID.Valid {
		v := vehicleID.String
		p.AssignedVehicleID = &v
	}

	if p.SLADeadline, err = parseTime(deadline); err != nil {
		return nil, fmt.Errorf("parcel %s sla_deadline: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parcel %s created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parcel %s updated_at: %w", p.ID, err)
	}
	at, err := parseTime(assignedAt)
	if err != nil {
		return nil, fmt.Errorf("parcel %s assigned_at: %w", p.ID, err)
	}
	if !at.IsZero() {
		p.AssignedAt = &at
	}

	return &p, nil
}

func validateParcel(p *domain.Parcel) error {
	if p == nil {
		return &domain.ValidationError{Field: "parcel", Msg: "must not be nil"}
	}
	if strings.TrimSpace(p.ID) == "" {
		return &domain.ValidationError{Field: "id", Msg: "must be non-empty"}
	}
	if err := p.PickupLocation.Validate(); err != nil {
		return fmt.Errorf("parcel %s pickup: %w", p.ID, err)
	}
	if err := p.DeliveryLocation.Validate(); err != nil {
		return fmt.Errorf("parcel %s delivery: %w", p.ID, err)
	}
	if !p.Priority.Valid() {
		return &domain.ValidationError{Field: "priority", Msg: fmt.Sprintf("unknown priority %q", p.Priority)}
	}
	if !p.Status.Valid() {
		return &domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", p.Status)}
	}
	if p.SLADeadline.IsZero() {
		return &domain.ValidationError{Field: "sla_deadline", Msg: "must be set"}
	}
	return nil
}
