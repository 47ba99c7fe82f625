package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-flow/internal/domain"
)

// ActivityLogArchive streams activity entries to Postgres for retention
// beyond the in-memory cap. A nil pool disables the archive; every method
// short-circuits.
type ActivityLogArchive struct {
	pool *pgxpool.Pool
}

// NewActivityLogArchive constructs the archive over the given pool.
func NewActivityLogArchive(pool *pgxpool.Pool) *ActivityLogArchive {
	return &ActivityLogArchive{pool: pool}
}

// Append inserts one entry. Implements the ticket store's LogSink.
func (a *ActivityLogArchive) Append(ctx context.Context, entry domain.LogEntry) error {
	if a == nil || a.pool == nil {
		return nil
	}
	const query = `
        INSERT INTO activity_log (entry_id, user_name, activity_type, entity_type, entity_id, detail, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := a.pool.Exec(ctx, query,
		entry.ID,
		entry.UserName,
		entry.Type,
		entry.EntityType,
		entry.EntityID,
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit archived entries, newest first.
func (a *ActivityLogArchive) ListRecent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if a == nil || a.pool == nil {
		return []domain.LogEntry{}, nil
	}
	if limit <= 0 {
		limit = 100
	}
	const query = `
        SELECT entry_id, user_name, activity_type, entity_type, entity_id, detail, created_at
        FROM activity_log ORDER BY created_at DESC LIMIT $1`
	rows, err := a.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var entry domain.LogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserName,
			&entry.Type,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Enabled reports whether the archive has a live pool behind it.
func (a *ActivityLogArchive) Enabled() bool {
	return a != nil && a.pool != nil
}
