package artists

import (
	"context"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/pagination"
)

// System defines the public contract for artist catalog operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Artist], error)

	Find(ctx context.Context, id uuid.UUID) (*Artist, error)
	Create(ctx context.Context, cmd Command) (*Artist, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Artist, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
