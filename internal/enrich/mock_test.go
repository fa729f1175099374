package enrich

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/databunker/enrich/internal/company"
	"github.com/databunker/enrich/internal/contact"
	"github.com/databunker/enrich/internal/discovery"
	"github.com/databunker/enrich/internal/queue"
	"github.com/databunker/enrich/pkg/registry"
)

// mockCompanyStore implements company.Store in memory.
type mockCompanyStore struct {
	companies map[uuid.UUID]*company.CompanyRecord
	applied   []company.Enrichment
	officers  map[uuid.UUID][]company.Officer

	getErr   error
	applyErr error
}

func newMockCompanyStore(records ...*company.CompanyRecord) *mockCompanyStore {
	s := &mockCompanyStore{
		companies: make(map[uuid.UUID]*company.CompanyRecord),
		officers:  make(map[uuid.UUID][]company.Officer),
	}
	for _, c := range records {
		s.companies[c.ID] = c
	}
	return s
}

func (s *mockCompanyStore) UpsertCompany(_ context.Context, c *company.CompanyRecord) error {
	s.companies[c.ID] = c
	return nil
}

func (s *mockCompanyStore) GetCompany(_ context.Context, id uuid.UUID) (*company.CompanyRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	c, ok := s.companies[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (s *mockCompanyStore) GetCompanyByNumber(_ context.Context, number string) (*company.CompanyRecord, error) {
	for _, c := range s.companies {
		if c.CompanyNumber == number {
			return c, nil
		}
	}
	return nil, nil
}

func (s *mockCompanyStore) ListNeedingEnrichment(context.Context, int) ([]company.CompanyRecord, error) {
	return nil, nil
}

func (s *mockCompanyStore) ApplyEnrichment(_ context.Context, id uuid.UUID, e company.Enrichment) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, e)
	if c, ok := s.companies[id]; ok {
		company.Merge(c, e)
	}
	return nil
}

func (s *mockCompanyStore) ReplaceOfficers(_ context.Context, companyID uuid.UUID, officers []company.Officer) error {
	s.officers[companyID] = officers
	return nil
}

func (s *mockCompanyStore) GetOfficers(_ context.Context, companyID uuid.UUID) ([]company.Officer, error) {
	return s.officers[companyID], nil
}

func (s *mockCompanyStore) Coverage(context.Context) (*company.CoverageStats, error) {
	return &company.CoverageStats{}, nil
}

type mockDiscoverer struct {
	result *discovery.Result
	err    error
	calls  int
}

func (m *mockDiscoverer) Discover(context.Context, string, string) (*discovery.Result, error) {
	m.calls++
	return m.result, m.err
}

type mockScraper struct {
	record *contact.Record
	err    error
	calls  int
	urls   []string
}

func (m *mockScraper) ScrapeCompanyContacts(_ context.Context, siteURL, _ string) (*contact.Record, error) {
	m.calls++
	m.urls = append(m.urls, siteURL)
	if m.err != nil {
		return nil, m.err
	}
	if m.record != nil {
		return m.record, nil
	}
	return &contact.Record{Website: siteURL, Social: map[string]string{}}, nil
}

type mockSnippets struct {
	result *contact.SearchResult
	err    error
	calls  int
}

func (m *mockSnippets) Lookup(context.Context, string, string, string) (*contact.SearchResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &contact.SearchResult{}, nil
}

type mockOfficers struct {
	officers []registry.Officer
	err      error
	calls    int
}

func (m *mockOfficers) GetOfficers(context.Context, string) ([]registry.Officer, error) {
	m.calls++
	return m.officers, m.err
}

// mockQueue implements queue.Store for worker tests.
type mockQueue struct {
	mu        sync.Mutex
	batches   [][]queue.Item
	claimErr  error
	completed []int64
	failed    []int64
	scans     int
}

func (q *mockQueue) Enqueue(context.Context, uuid.UUID, int) (bool, error) {
	return true, nil
}

func (q *mockQueue) EnqueueMissing(context.Context, int) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.scans++
	return 0, nil
}

func (q *mockQueue) ClaimBatch(context.Context, int) ([]queue.Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.claimErr != nil {
		return nil, q.claimErr
	}
	if len(q.batches) == 0 {
		return nil, nil
	}
	batch := q.batches[0]
	q.batches = q.batches[1:]
	return batch, nil
}

func (q *mockQueue) MarkCompleted(_ context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.completed = append(q.completed, id)
	return nil
}

func (q *mockQueue) MarkFailed(_ context.Context, id int64, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed = append(q.failed, id)
	return nil
}

func (q *mockQueue) Counts(context.Context) (*queue.Counts, error) {
	return &queue.Counts{}, nil
}

func (q *mockQueue) snapshot() (completed, failed []int64, scans int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]int64(nil), q.completed...), append([]int64(nil), q.failed...), q.scans
}
