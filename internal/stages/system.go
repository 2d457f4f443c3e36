package stages

import (
	"context"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/pagination"
)

// System defines the public contract for stage catalog operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Stage], error)

	// All returns every stage ordered by name.
	All(ctx context.Context) ([]Stage, error)

	Find(ctx context.Context, id uuid.UUID) (*Stage, error)
	Create(ctx context.Context, cmd Command) (*Stage, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Stage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
