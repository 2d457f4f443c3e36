package performances

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

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

// New creates a performance repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "performances"),
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
) (*pagination.PageResult[Performance], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count performances: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	performances, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPerformance)
	if err != nil {
		return nil, fmt.Errorf("query performances: %w", err)
	}

	result := pagination.NewPageResult(performances, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Performance, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPerformance)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Performance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO performances(artist_id, stage_id, start_time, end_time, title,
			description, set_type, special_notes, ticket_required, vip_only,
			age_restriction, expected_attendance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Performance, error) {
		return repository.QueryOne(ctx, tx, q, commandArgs(cmd), scanPerformance)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("performance created",
		"id", p.ID,
		"artist_id", p.ArtistID,
		"stage_id", p.StageID,
		"start_time", p.StartTime,
	)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Performance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE performances
		SET artist_id = $1, stage_id = $2, start_time = $3, end_time = $4,
			title = $5, description = $6, set_type = $7, special_notes = $8,
			ticket_required = $9, vip_only = $10, age_restriction = $11,
			expected_attendance = $12, updated_at = NOW()
		WHERE id = $13
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Performance, error) {
		return repository.QueryOne(ctx, tx, q, append(commandArgs(cmd), id), scanPerformance)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("performance updated", "id", p.ID)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM performances WHERE id = $1", id)
	})
	if err != nil {
		return dbErrors.Map(err)
	}

	r.logger.Info("performance deleted", "id", id)
	return nil
}

func (r *repo) Lineup(ctx context.Context, from, to time.Time) ([]Slot, error) {
	if !to.After(from) {
		return nil, ErrInvalidWindow
	}

	q, args := query.
		NewBuilder(lineupProjection, defaultSort).
		WhereOverlaps("StartTime", "EndTime", from, to).
		Build()

	slots, err := repository.QueryMany(ctx, r.db, q, args, scanSlot)
	if err != nil {
		return nil, fmt.Errorf("query lineup: %w", err)
	}
	return slots, nil
}

func commandArgs(cmd Command) []any {
	return []any{
		cmd.ArtistID, cmd.StageID, cmd.StartTime, cmd.EndTime, cmd.Title,
		cmd.Description, cmd.SetType, cmd.SpecialNotes, cmd.TicketRequired,
		cmd.VIPOnly, cmd.AgeRestriction, cmd.ExpectedAttendance,
	}
}
