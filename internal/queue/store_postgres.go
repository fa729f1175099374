package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/databunker/enrich/internal/db"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool db.Pool

	maxAttempts  int
	retryBackoff time.Duration
}

// NewPostgresStore creates a new PostgresStore. maxAttempts and retryBackoff
// apply to rows it inserts and to failure rescheduling.
func NewPostgresStore(pool db.Pool, maxAttempts int, retryBackoff time.Duration) *PostgresStore {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if retryBackoff <= 0 {
		retryBackoff = time.Hour
	}
	return &PostgresStore{pool: pool, maxAttempts: maxAttempts, retryBackoff: retryBackoff}
}

// Enqueue inserts a pending item for a company. Returns false when the
// company already has an active item (the partial unique index absorbs the
// conflict).
func (s *PostgresStore) Enqueue(ctx context.Context, companyID uuid.UUID, priority int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO enrichment_queue (company_id, priority, max_attempts)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id) WHERE status IN ('pending', 'processing') DO NOTHING`,
		companyID, priority, s.maxAttempts,
	)
	if err != nil {
		return false, eris.Wrapf(err, "queue: enqueue %s", companyID)
	}
	return tag.RowsAffected() > 0, nil
}

// EnqueueMissing queues companies still missing website, phone or email that
// have no active item yet, up to cap rows. Returns how many were inserted.
func (s *PostgresStore) EnqueueMissing(ctx context.Context, cap int) (int64, error) {
	if cap <= 0 {
		cap = 10000
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO enrichment_queue (company_id, max_attempts)
		SELECT c.id, $2
		FROM companies c
		WHERE (c.website IS NULL OR c.phone IS NULL OR c.email IS NULL)
		AND NOT EXISTS (
			SELECT 1 FROM enrichment_queue q
			WHERE q.company_id = c.id AND q.status IN ('pending', 'processing')
		)
		ORDER BY c.last_updated ASC
		LIMIT $1
		ON CONFLICT (company_id) WHERE status IN ('pending', 'processing') DO NOTHING`,
		cap, s.maxAttempts,
	)
	if err != nil {
		return 0, eris.Wrap(err, "queue: enqueue missing")
	}
	return tag.RowsAffected(), nil
}

// ClaimBatch atomically moves up to n due pending items to processing and
// returns them. SKIP LOCKED keeps concurrent workers off each other's rows.
func (s *PostgresStore) ClaimBatch(ctx context.Context, n int) ([]Item, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.pool.Query(ctx, `
		UPDATE enrichment_queue SET
			status='processing', started_at=now(), attempts=attempts+1, updated_at=now()
		WHERE id IN (
			SELECT id FROM enrichment_queue
			WHERE status='pending' AND scheduled_for <= now() AND attempts < max_attempts
			ORDER BY priority DESC, scheduled_for ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+itemColumns, n)
	if err != nil {
		return nil, eris.Wrap(err, "queue: claim batch")
	}
	defer rows.Close()
	return scanItems(rows)
}

// MarkCompleted moves an item to completed.
func (s *PostgresStore) MarkCompleted(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE enrichment_queue SET
			status='completed', completed_at=now(), error_message=NULL, updated_at=now()
		WHERE id=$1`, id)
	if err != nil {
		return eris.Wrapf(err, "queue: mark completed %d", id)
	}
	return nil
}

// MarkFailed records an item failure: terminal failed once attempts have
// reached the ceiling, otherwise back to pending with a backoff schedule.
func (s *PostgresStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE enrichment_queue SET
			status = CASE WHEN attempts >= max_attempts THEN 'failed' ELSE 'pending' END,
			scheduled_for = now() + $2::interval,
			error_message = $3,
			updated_at = now()
		WHERE id=$1`, id, s.retryBackoff, errMsg)
	if err != nil {
		return eris.Wrapf(err, "queue: mark failed %d", id)
	}
	return nil
}

// Counts returns per-status totals.
func (s *PostgresStore) Counts(ctx context.Context) (*Counts, error) {
	var c Counts
	err := s.pool.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE status='pending'),
			count(*) FILTER (WHERE status='processing'),
			count(*) FILTER (WHERE status='completed'),
			count(*) FILTER (WHERE status='failed')
		FROM enrichment_queue`).
		Scan(&c.Pending, &c.Processing, &c.Completed, &c.Failed)
	if err != nil {
		return nil, eris.Wrap(err, "queue: counts")
	}
	return &c, nil
}

const itemColumns = `id, company_id, status, priority, attempts, max_attempts,
	scheduled_for, started_at, completed_at, error_message, created_at, updated_at`

func scanItems(rows pgx.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.Status, &it.Priority,
			&it.Attempts, &it.MaxAttempts, &it.ScheduledFor, &it.StartedAt,
			&it.CompletedAt, &it.ErrorMessage, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "queue: scan item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
