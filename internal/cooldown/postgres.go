package cooldown

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JaimeStill/warden/pkg/repository"
)

// The conditional upsert runs as one statement, so two concurrent acquires
// for the same category serialize on the row lock and only one updates it.
// prior reads the stamp from the statement snapshot; it is NULL when the row
// was first inserted by a concurrent acquire.
const acquireSQL = `
	WITH prior AS (
		SELECT last_sent_at FROM alert_cooldowns WHERE category = $1
	), acquired AS (
		INSERT INTO alert_cooldowns(category, last_sent_at)
		VALUES ($1, $2)
		ON CONFLICT (category) DO UPDATE
			SET last_sent_at = EXCLUDED.last_sent_at
			WHERE alert_cooldowns.last_sent_at <= $3
		RETURNING last_sent_at
	)
	SELECT EXISTS (SELECT 1 FROM acquired), (SELECT last_sent_at FROM prior)`

// PostgresStore keeps the cooldown record in the alert_cooldowns table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Acquire(ctx context.Context, category string, now time.Time, window time.Duration) (bool, time.Time, error) {
	var (
		ok    bool
		prior sql.NullTime
	)

	err := p.db.
		QueryRowContext(ctx, acquireSQL, category, now, now.Add(-window)).
		Scan(&ok, &prior)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("acquire cooldown %s: %w", category, err)
	}

	if ok || !prior.Valid {
		return ok, now, nil
	}
	return false, prior.Time, nil
}

func (p *PostgresStore) Snapshot(ctx context.Context) (map[string]time.Time, error) {
	type entry struct {
		category string
		last     time.Time
	}

	entries, err := repository.QueryMany(
		ctx, p.db,
		"SELECT category, last_sent_at FROM alert_cooldowns ORDER BY category",
		nil,
		func(s repository.Scanner) (entry, error) {
			var e entry
			err := s.Scan(&e.category, &e.last)
			return e, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot cooldowns: %w", err)
	}

	out := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		out[e.category] = e.last
	}
	return out, nil
}
