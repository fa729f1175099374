// Package queue persists enrichment work items and their retry state.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Item statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Item is one unit of enrichment work for a company.
type Item struct {
	ID           int64      `json:"id" db:"id"`
	CompanyID    uuid.UUID  `json:"company_id" db:"company_id"`
	Status       string     `json:"status" db:"status"`
	Priority     int        `json:"priority" db:"priority"`
	Attempts     int        `json:"attempts" db:"attempts"`
	MaxAttempts  int        `json:"max_attempts" db:"max_attempts"`
	ScheduledFor time.Time  `json:"scheduled_for" db:"scheduled_for"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Counts holds per-status queue totals.
type Counts struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// Store is the persistence interface for the enrichment queue.
type Store interface {
	Enqueue(ctx context.Context, companyID uuid.UUID, priority int) (bool, error)
	EnqueueMissing(ctx context.Context, cap int) (int64, error)
	ClaimBatch(ctx context.Context, n int) ([]Item, error)
	MarkCompleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	Counts(ctx context.Context) (*Counts, error)
}
