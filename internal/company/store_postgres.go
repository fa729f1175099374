package company

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/databunker/enrich/internal/db"
)

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// UpsertCompany inserts a company or refreshes its descriptive fields,
// keyed on company_number. Enrichable columns are COALESCE-guarded so a
// re-import never blanks out data the pipeline already filled.
func (s *PostgresStore) UpsertCompany(ctx context.Context, c *CompanyRecord) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO companies (
			company_number, name, legal_name, jurisdiction, company_type, company_status,
			incorporation_date,
			address_line_1, address_line_2, locality, region, postal_code, country,
			website, phone, email, email_format, industry
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18
		)
		ON CONFLICT (company_number) DO UPDATE SET
			name=EXCLUDED.name, legal_name=EXCLUDED.legal_name,
			jurisdiction=EXCLUDED.jurisdiction, company_type=EXCLUDED.company_type,
			company_status=EXCLUDED.company_status,
			incorporation_date=EXCLUDED.incorporation_date,
			address_line_1=COALESCE(companies.address_line_1, EXCLUDED.address_line_1),
			address_line_2=COALESCE(companies.address_line_2, EXCLUDED.address_line_2),
			locality=EXCLUDED.locality, region=EXCLUDED.region,
			postal_code=EXCLUDED.postal_code, country=EXCLUDED.country,
			website=COALESCE(companies.website, EXCLUDED.website),
			phone=COALESCE(companies.phone, EXCLUDED.phone),
			email=COALESCE(companies.email, EXCLUDED.email),
			email_format=COALESCE(companies.email_format, EXCLUDED.email_format),
			industry=COALESCE(companies.industry, EXCLUDED.industry),
			last_updated=now()
		RETURNING id, created_at, last_updated`,
		c.CompanyNumber, c.Name, c.LegalName, c.Jurisdiction, c.CompanyType, c.CompanyStatus,
		c.IncorporationDate,
		c.AddressLine1, c.AddressLine2, c.Locality, c.Region, c.PostalCode, c.Country,
		c.Website, c.Phone, c.Email, c.EmailFormat, c.Industry,
	).Scan(&c.ID, &c.CreatedAt, &c.LastUpdated)
	if err != nil {
		return eris.Wrapf(err, "company: upsert %s", c.CompanyNumber)
	}
	return nil
}

// GetCompany fetches a company by ID.
func (s *PostgresStore) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyRecord, error) {
	c := &CompanyRecord{}
	err := s.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id).
		Scan(companyDests(c)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "company: get %s", id)
	}
	return c, nil
}

// GetCompanyByNumber fetches a company by its registration number.
func (s *PostgresStore) GetCompanyByNumber(ctx context.Context, companyNumber string) (*CompanyRecord, error) {
	c := &CompanyRecord{}
	err := s.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE company_number=$1`, companyNumber).
		Scan(companyDests(c)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "company: get by number %s", companyNumber)
	}
	return c, nil
}

// ListNeedingEnrichment returns companies still missing website, phone or
// email, least-recently-touched first.
func (s *PostgresStore) ListNeedingEnrichment(ctx context.Context, limit int) ([]CompanyRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE website IS NULL OR phone IS NULL OR email IS NULL
		ORDER BY last_updated ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "company: list needing enrichment")
	}
	defer rows.Close()
	return scanCompanies(rows)
}

// ApplyEnrichment writes discovered fields onto a company, filling nulls
// only. Populated columns win over the incoming value.
func (s *PostgresStore) ApplyEnrichment(ctx context.Context, id uuid.UUID, e Enrichment) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE companies SET
			website=COALESCE(website, $2),
			phone=COALESCE(phone, $3),
			email=COALESCE(email, $4),
			email_format=COALESCE(email_format, $5),
			industry=COALESCE(industry, $6),
			address_line_1=COALESCE(address_line_1, $7),
			last_updated=now()
		WHERE id=$1`,
		id, e.Website, e.Phone, e.Email, e.EmailFormat, e.Industry, e.AddressLine1,
	)
	if err != nil {
		return eris.Wrapf(err, "company: apply enrichment %s", id)
	}
	return nil
}

// ReplaceOfficers swaps the full officer list for a company in one tx.
// Delete plus COPY keeps repeated imports duplicate-free.
func (s *PostgresStore) ReplaceOfficers(ctx context.Context, companyID uuid.UUID, officers []Officer) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "company: begin replace officers")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM officers WHERE company_id=$1`, companyID); err != nil {
		return eris.Wrap(err, "company: delete old officers")
	}

	rows := make([][]any, 0, len(officers))
	for _, o := range officers {
		id := o.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		rows = append(rows, []any{id, companyID, o.Name, o.Role, o.AppointedOn, o.ResignedOn, o.Nationality, o.Occupation})
	}
	if _, err := db.CopyFrom(ctx, tx, "officers",
		[]string{"id", "company_id", "name", "role", "appointed_on", "resigned_on", "nationality", "occupation"},
		rows); err != nil {
		return eris.Wrap(err, "company: insert officers")
	}

	return tx.Commit(ctx)
}

// GetOfficers returns all officers for a company.
func (s *PostgresStore) GetOfficers(ctx context.Context, companyID uuid.UUID) ([]Officer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, role, appointed_on, resigned_on, nationality, occupation, created_at
		FROM officers WHERE company_id=$1 ORDER BY appointed_on DESC NULLS LAST, name`, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "company: get officers")
	}
	defer rows.Close()

	var officers []Officer
	for rows.Next() {
		var o Officer
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Name, &o.Role, &o.AppointedOn,
			&o.ResignedOn, &o.Nationality, &o.Occupation, &o.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "company: scan officer")
		}
		officers = append(officers, o)
	}
	return officers, rows.Err()
}

// Coverage reports how many companies have each enrichable field populated.
func (s *PostgresStore) Coverage(ctx context.Context) (*CoverageStats, error) {
	var cs CoverageStats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(website), count(phone), count(email), count(industry)
		FROM companies`).
		Scan(&cs.Total, &cs.WithWebsite, &cs.WithPhone, &cs.WithEmail, &cs.WithIndustry)
	if err != nil {
		return nil, eris.Wrap(err, "company: coverage")
	}
	return &cs, nil
}

// companyColumns is the standard column list for company queries.
const companyColumns = `id, company_number, name, legal_name, jurisdiction, company_type, company_status,
	incorporation_date,
	address_line_1, address_line_2, locality, region, postal_code, country,
	website, phone, email, email_format, industry,
	created_at, last_updated`

// companyDests returns scan destinations for a CompanyRecord.
func companyDests(c *CompanyRecord) []any {
	return []any{
		&c.ID, &c.CompanyNumber, &c.Name, &c.LegalName, &c.Jurisdiction, &c.CompanyType, &c.CompanyStatus,
		&c.IncorporationDate,
		&c.AddressLine1, &c.AddressLine2, &c.Locality, &c.Region, &c.PostalCode, &c.Country,
		&c.Website, &c.Phone, &c.Email, &c.EmailFormat, &c.Industry,
		&c.CreatedAt, &c.LastUpdated,
	}
}

func scanCompanies(rows pgx.Rows) ([]CompanyRecord, error) {
	var companies []CompanyRecord
	for rows.Next() {
		var c CompanyRecord
		if err := rows.Scan(companyDests(&c)...); err != nil {
			return nil, eris.Wrap(err, "company: scan")
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
