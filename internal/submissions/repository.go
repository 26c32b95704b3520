package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a PostgreSQL-backed submission System.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "submissions"),
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
) (*pagination.PageResult[Submission], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "FieldsText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	subs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}

	result := pagination.NewPageResult(subs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Export(ctx context.Context, filters Filters) ([]Submission, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.BuildList()
	subs, err := repository.QueryMany(ctx, r.db, q, args, scanSubmission)
	if err != nil {
		return nil, fmt.Errorf("export submissions: %w", err)
	}
	return subs, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Submission, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSubmission)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Submission, error) {
	if cmd.Payload == nil {
		return nil, fmt.Errorf("%w: payload is required", ErrInvalidField)
	}

	fields, err := json.Marshal(cmd.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	q := `
		INSERT INTO submissions(id, category, fields, severity)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	args := []any{
		uuid.New(),
		string(cmd.Payload.Category()),
		fields,
		string(cmd.Severity),
	}

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSubmission)
	if err != nil {
		if repository.IsCheckViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"submission created",
		"id", s.ID,
		"category", s.Category,
		"severity", s.Severity,
	)
	return &s, nil
}

func (r *repo) SetRead(ctx context.Context, id uuid.UUID, read bool) (*Submission, error) {
	q := `
		UPDATE submissions SET read = $2
		WHERE id = $1
		RETURNING ` + columns

	s, err := repository.QueryOne(ctx, r.db, q, []any{id, read}, scanSubmission)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Trash(ctx context.Context, id uuid.UUID) error {
	return r.setDeleted(ctx, id, true)
}

func (r *repo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.setDeleted(ctx, id, false)
}

func (r *repo) Purge(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM submissions WHERE id = $1 AND deleted",
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return findErr
		}
		return ErrNotTrashed
	}
	if err != nil {
		return fmt.Errorf("purge submission: %w", err)
	}

	r.logger.Info("submission purged", "id", id)
	return nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	q := `
		SELECT category, severity, read, deleted, COUNT(*)
		FROM submissions
		GROUP BY category, severity, read, deleted`

	type bucket struct {
		category Category
		level    severity.Level
		read     bool
		deleted  bool
		count    int
	}

	buckets, err := repository.QueryMany(ctx, r.db, q, nil, func(s repository.Scanner) (bucket, error) {
		var b bucket
		err := s.Scan(&b.category, &b.level, &b.read, &b.deleted, &b.count)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	stats := &Stats{
		ByCategory: make(map[Category]int, len(Categories)),
		BySeverity: make(map[severity.Level]int, len(severity.Levels)),
	}
	for _, c := range Categories {
		stats.ByCategory[c] = 0
	}
	for _, l := range severity.Levels {
		stats.BySeverity[l] = 0
	}

	for _, b := range buckets {
		if b.deleted {
			stats.Trashed += b.count
			continue
		}
		stats.Total += b.count
		stats.ByCategory[b.category] += b.count
		stats.BySeverity[b.level] += b.count
		if !b.read {
			stats.Unread += b.count
		}
	}

	return stats, nil
}

func (r *repo) setDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE submissions SET deleted = $2 WHERE id = $1",
		id, deleted,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("submission trash state changed", "id", id, "deleted", deleted)
	return nil
}
