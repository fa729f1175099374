package company

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence interface for companies and their officers.
type Store interface {
	UpsertCompany(ctx context.Context, c *CompanyRecord) error
	GetCompany(ctx context.Context, id uuid.UUID) (*CompanyRecord, error)
	GetCompanyByNumber(ctx context.Context, companyNumber string) (*CompanyRecord, error)
	ListNeedingEnrichment(ctx context.Context, limit int) ([]CompanyRecord, error)
	ApplyEnrichment(ctx context.Context, id uuid.UUID, e Enrichment) error
	ReplaceOfficers(ctx context.Context, companyID uuid.UUID, officers []Officer) error
	GetOfficers(ctx context.Context, companyID uuid.UUID) ([]Officer, error)
	Coverage(ctx context.Context) (*CoverageStats, error)
}
