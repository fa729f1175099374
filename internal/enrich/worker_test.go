package enrich

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databunker/enrich/internal/queue"
)

// scriptedEnricher fails the company IDs in failFor and succeeds otherwise.
type scriptedEnricher struct {
	mu      sync.Mutex
	failFor map[uuid.UUID]bool
	seen    []uuid.UUID
}

func (e *scriptedEnricher) EnrichCompany(_ context.Context, id uuid.UUID) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = append(e.seen, id)
	if e.failFor[id] {
		return nil, eris.New("scripted failure")
	}
	return &Result{Status: StatusSuccess, FieldsUpdated: []string{"phone"}}, nil
}

func fastConfig() WorkerConfig {
	return WorkerConfig{
		ID:         "test",
		BatchSize:  10,
		BatchDelay: time.Millisecond,
		EmptyDelay: time.Millisecond,
		ErrorDelay: time.Millisecond,
		StatsEvery: 1000,
	}
}

func runWorker(t *testing.T, w *Worker, stop func(q *mockQueue) bool, q *mockQueue) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for !stop(q) {
		select {
		case <-deadline:
			cancel()
			t.Fatal("worker did not reach expected state")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestWorker_ProcessesBatchAndRecordsOutcomes(t *testing.T) {
	good := uuid.New()
	bad := uuid.New()
	q := &mockQueue{batches: [][]queue.Item{{
		{ID: 1, CompanyID: good, Attempts: 1},
		{ID: 2, CompanyID: bad, Attempts: 1},
	}}}
	e := &scriptedEnricher{failFor: map[uuid.UUID]bool{bad: true}}

	w := NewWorker(q, e, fastConfig())
	runWorker(t, w, func(q *mockQueue) bool {
		completed, failed, _ := q.snapshot()
		return len(completed) == 1 && len(failed) == 1
	}, q)

	completed, failed, _ := q.snapshot()
	assert.Equal(t, []int64{1}, completed)
	assert.Equal(t, []int64{2}, failed)

	snap := w.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.Processed)
	assert.Equal(t, int64(1), snap.Succeeded)
	assert.Equal(t, int64(1), snap.Failed)
}

func TestWorker_EmptyQueueTriggersScan(t *testing.T) {
	q := &mockQueue{}
	w := NewWorker(q, &scriptedEnricher{}, fastConfig())

	runWorker(t, w, func(q *mockQueue) bool {
		_, _, scans := q.snapshot()
		return scans >= 2
	}, q)
}

func TestWorker_ClaimErrorKeepsLooping(t *testing.T) {
	q := &mockQueue{claimErr: eris.New("db down")}
	w := NewWorker(q, &scriptedEnricher{}, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	// The loop must survive repeated claim failures until canceled.
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// cancelingEnricher cancels the worker's context while the first item is
// still being processed.
type cancelingEnricher struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (e *cancelingEnricher) EnrichCompany(context.Context, uuid.UUID) (*Result, error) {
	e.once.Do(e.cancel)
	return &Result{Status: StatusSuccess}, nil
}

func TestWorker_StopFinishesClaimedBatch(t *testing.T) {
	q := &mockQueue{batches: [][]queue.Item{{
		{ID: 1, CompanyID: uuid.New()},
		{ID: 2, CompanyID: uuid.New()},
		{ID: 3, CompanyID: uuid.New()},
	}}}
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(q, &cancelingEnricher{cancel: cancel}, fastConfig())

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	// Claiming already marked all three processing, so a stop arriving
	// mid-batch must still resolve every claimed item.
	completed, failed, _ := q.snapshot()
	assert.Equal(t, []int64{1, 2, 3}, completed)
	assert.Empty(t, failed)
}

func TestWorker_StopsBetweenBatches(t *testing.T) {
	q := &mockQueue{}
	w := NewWorker(q, &scriptedEnricher{}, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
}

func TestWorkerConfig_Defaults(t *testing.T) {
	cfg := WorkerConfig{}
	cfg.defaults()
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.BatchDelay)
	assert.Equal(t, 30*time.Second, cfg.EmptyDelay)
	assert.Equal(t, 10*time.Second, cfg.ErrorDelay)
	assert.Equal(t, 10000, cfg.EnqueueScanCap)
	assert.Equal(t, "worker", cfg.ID)
}
