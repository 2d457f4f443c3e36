// Package prompts manages instruction overrides per query type. The active
// override for a type replaces its default instructions; the reply format
// appended after the instructions is fixed.
package prompts

import (
	"github.com/google/uuid"

	"github.com/musiclands/backend/internal/queries"
	"github.com/musiclands/backend/pkg/validation"
)

// Prompt is a named instruction override for one query type.
type Prompt struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	QueryType    queries.QueryType `json:"query_type"`
	Instructions string            `json:"instructions"`
	Description  *string           `json:"description"`
	Active       bool              `json:"active"`
}

// CreateCommand carries the data needed to create a prompt override.
type CreateCommand struct {
	Name         string            `json:"name" validate:"required,max=100"`
	QueryType    queries.QueryType `json:"query_type" validate:"required"`
	Instructions string            `json:"instructions" validate:"required"`
	Description  *string           `json:"description"`
}

// Validate checks the command. Failures wrap ErrInvalidCommand.
func (c CreateCommand) Validate() error {
	return validation.Struct(ErrInvalidCommand, c)
}

// UpdateCommand carries the data needed to update a prompt override.
type UpdateCommand struct {
	Name         string            `json:"name" validate:"required,max=100"`
	QueryType    queries.QueryType `json:"query_type" validate:"required"`
	Instructions string            `json:"instructions" validate:"required"`
	Description  *string           `json:"description"`
}

// Validate checks the command. Failures wrap ErrInvalidCommand.
func (c UpdateCommand) Validate() error {
	return validation.Struct(ErrInvalidCommand, c)
}
