package stages

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/musiclands/backend/pkg/pagination"
	"github.com/musiclands/backend/pkg/query"
	"github.com/musiclands/backend/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a stage repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "stages"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Stage], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count stages: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	stages, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanStage)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}

	result := pagination.NewPageResult(stages, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Stage, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	st, err := repository.QueryOne(ctx, r.db, q, args, scanStage)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &st, nil
}

func (r *repo) All(ctx context.Context) ([]Stage, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	stages, err := repository.QueryMany(ctx, r.db, q, args, scanStage)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	return stages, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Stage, error) {
	args, err := commandArgs(&cmd)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO stages(name, stage_type, lat, lng, capacity, description,
			amenities, accessibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		` + returning

	st, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Stage, error) {
		return repository.QueryOne(ctx, tx, q, args, scanStage)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("stage created", "id", st.ID, "name", st.Name, "stage_type", st.StageType)
	return &st, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Stage, error) {
	args, err := commandArgs(&cmd)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE stages
		SET name = $1, stage_type = $2, lat = $3, lng = $4, capacity = $5,
			description = $6, amenities = $7, accessibility = $8,
			updated_at = NOW()
		WHERE id = $9
		` + returning

	st, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Stage, error) {
		return repository.QueryOne(ctx, tx, q, append(args, id), scanStage)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("stage updated", "id", st.ID, "name", st.Name)
	return &st, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM stages WHERE id = $1", id)
	})
	if err != nil {
		return dbErrors.Map(err)
	}

	r.logger.Info("stage deleted", "id", id)
	return nil
}

// commandArgs validates cmd and returns its insert/update arguments in
// column order.
func commandArgs(cmd *Command) ([]any, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	amenities, err := json.Marshal(cmd.Amenities)
	if err != nil {
		return nil, fmt.Errorf("marshal amenities: %w", err)
	}

	return []any{
		cmd.Name, cmd.StageType, cmd.Lat, cmd.Lng, cmd.Capacity,
		cmd.Description, amenities, cmd.Accessibility,
	}, nil
}
