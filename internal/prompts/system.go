package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/pagination"
)

// System defines the public contract for prompt domain operations.
// It is also the instruction source used by query dispatch.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prompt], error)

	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// Instructions returns the active override for t, or the default
	// instructions when none is active.
	Instructions(ctx context.Context, t queries.QueryType) (string, error)

	// Spec returns the fixed reply format appended to the instructions.
	Spec(ctx context.Context, t queries.QueryType) (string, error)
}
