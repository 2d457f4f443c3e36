package artists

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

// New creates an artist repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "artists"),
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
) (*pagination.PageResult[Artist], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Bio")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count artists: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	artists, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArtist)
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}

	result := pagination.NewPageResult(artists, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Artist, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtist)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Artist, error) {
	args, err := commandArgs(&cmd)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO artists(name, genres, bio, image_url, website, spotify_url,
			instagram, twitter, popularity_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Artist, error) {
		return repository.QueryOne(ctx, tx, q, args, scanArtist)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("artist created", "id", a.ID, "name", a.Name)
	return &a, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Artist, error) {
	args, err := commandArgs(&cmd)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE artists
		SET name = $1, genres = $2, bio = $3, image_url = $4, website = $5,
			spotify_url = $6, instagram = $7, twitter = $8, popularity_score = $9,
			updated_at = NOW()
		WHERE id = $10
		` + returning

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Artist, error) {
		return repository.QueryOne(ctx, tx, q, append(args, id), scanArtist)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("artist updated", "id", a.ID, "name", a.Name)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM artists WHERE id = $1", id)
	})
	if err != nil {
		return dbErrors.Map(err)
	}

	r.logger.Info("artist deleted", "id", id)
	return nil
}

// commandArgs validates cmd and returns its insert/update arguments in
// column order.
func commandArgs(cmd *Command) ([]any, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	genres, err := json.Marshal(cmd.Genres)
	if err != nil {
		return nil, fmt.Errorf("marshal genres: %w", err)
	}

	return []any{
		cmd.Name, genres, cmd.Bio, cmd.ImageURL, cmd.Website,
		cmd.SpotifyURL, cmd.Instagram, cmd.Twitter, cmd.PopularityScore,
	}, nil
}
