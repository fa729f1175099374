package db

import (
	"context"

	"github.com/rotisserie/eris"
)

// Schema creates the tables and indexes the pipeline needs. Statements are
// idempotent so migrate can run repeatedly.
const Schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS companies (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	company_number TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	legal_name TEXT NOT NULL DEFAULT '',
	jurisdiction TEXT NOT NULL DEFAULT '',
	company_type TEXT NOT NULL DEFAULT '',
	company_status TEXT NOT NULL DEFAULT '',
	incorporation_date DATE,
	address_line_1 TEXT,
	address_line_2 TEXT,
	locality TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	website TEXT,
	phone TEXT,
	email TEXT,
	email_format TEXT,
	industry TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_companies_needs_enrichment
	ON companies (last_updated)
	WHERE website IS NULL OR phone IS NULL OR email IS NULL;

CREATE TABLE IF NOT EXISTS officers (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	appointed_on DATE,
	resigned_on DATE,
	nationality TEXT NOT NULL DEFAULT '',
	occupation TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_officers_company ON officers (company_id);

CREATE TABLE IF NOT EXISTS enrichment_queue (
	id BIGSERIAL PRIMARY KEY,
	company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	status TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'processing', 'completed', 'failed')),
	priority INT NOT NULL DEFAULT 0,
	attempts INT NOT NULL DEFAULT 0,
	max_attempts INT NOT NULL DEFAULT 3,
	scheduled_for TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- One active item per company.
CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_one_active_per_company
	ON enrichment_queue (company_id)
	WHERE status IN ('pending', 'processing');

CREATE INDEX IF NOT EXISTS idx_queue_claim
	ON enrichment_queue (priority DESC, scheduled_for ASC)
	WHERE status = 'pending';
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return eris.Wrap(err, "db: migrate")
	}
	return nil
}
