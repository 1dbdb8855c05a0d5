package ports

import (
	"context"
	"route-consolidation-service/internal/domain"
	"time"
)

// Selection criteria for ParcelStore.Find. Zero values mean "no constraint".
type ParcelFilter struct {
	Statuses []domain.ParcelStatus
	// Upper bound on SLADeadline, inclusive.
	DeadlineBefore *time.Time
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

type ParcelOrder int

const (
	OrderNone ParcelOrder = iota
	OrderByDeadlineAsc
	OrderByCreatedAsc
)

// Port: a boundary for reading and writing Parcel entities.
// The engine itself only reads; Save is used by collaborators.
type ParcelStore interface {
	// Return the parcel or an error wrapping domain.ErrNotFound.
	FindByID(ctx context.Context, id string) (*domain.Parcel, error)
	// Return all parcels matching filter, sorted by order.
	Find(ctx context.Context, filter ParcelFilter, order ParcelOrder) ([]*domain.Parcel, error)
	// Insert or update a parcel.
	Save(ctx context.Context, p *domain.Parcel) (*domain.Parcel, error)
}
