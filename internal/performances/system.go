package performances

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/pagination"
)

// System defines the public contract for schedule operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Performance], error)

	Find(ctx context.Context, id uuid.UUID) (*Performance, error)
	Create(ctx context.Context, cmd Command) (*Performance, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Performance, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Lineup returns every performance overlapping [from, to), ordered by
	// start time.
	Lineup(ctx context.Context, from, to time.Time) ([]Slot, error)
}
