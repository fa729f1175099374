// Package company defines the company record and its Postgres store.
package company

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompanyRecord is a company as held in the companies table. Descriptive
// fields come from the registry import; the pointer fields are enrichable:
// they start null and are filled opportunistically by the enrichment
// pipeline, never overwritten once set.
type CompanyRecord struct { //nolint:revive // stutters but widely used across codebase
	ID            uuid.UUID `json:"id" db:"id"`
	CompanyNumber string    `json:"company_number" db:"company_number"`
	Name          string    `json:"name" db:"name"`
	LegalName     string    `json:"legal_name,omitempty" db:"legal_name"`
	Jurisdiction  string    `json:"jurisdiction,omitempty" db:"jurisdiction"`
	CompanyType   string    `json:"company_type,omitempty" db:"company_type"`
	CompanyStatus string    `json:"company_status,omitempty" db:"company_status"`

	IncorporationDate *time.Time `json:"incorporation_date,omitempty" db:"incorporation_date"`

	// Registered address
	AddressLine1 *string `json:"address_line_1,omitempty" db:"address_line_1"`
	AddressLine2 *string `json:"address_line_2,omitempty" db:"address_line_2"`
	Locality     string  `json:"locality,omitempty" db:"locality"`
	Region       string  `json:"region,omitempty" db:"region"`
	PostalCode   string  `json:"postal_code,omitempty" db:"postal_code"`
	Country      string  `json:"country,omitempty" db:"country"`

	// Enrichable fields, fill-if-null only.
	Website     *string `json:"website,omitempty" db:"website"`
	Phone       *string `json:"phone,omitempty" db:"phone"`
	Email       *string `json:"email,omitempty" db:"email"`
	EmailFormat *string `json:"email_format,omitempty" db:"email_format"`
	Industry    *string `json:"industry,omitempty" db:"industry"`

	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// Officer is a company officer imported from the registry.
type Officer struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CompanyID   uuid.UUID  `json:"company_id" db:"company_id"`
	Name        string     `json:"name" db:"name"`
	Role        string     `json:"role,omitempty" db:"role"`
	AppointedOn *time.Time `json:"appointed_on,omitempty" db:"appointed_on"`
	ResignedOn  *time.Time `json:"resigned_on,omitempty" db:"resigned_on"`
	Nationality string     `json:"nationality,omitempty" db:"nationality"`
	Occupation  string     `json:"occupation,omitempty" db:"occupation"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// NeedsEnrichment reports whether any enrichable contact field is still null.
func (c *CompanyRecord) NeedsEnrichment() bool {
	return c.Website == nil || c.Phone == nil || c.Email == nil
}

// ukJurisdictions covers the forms the registry and imports use for UK rows.
var ukJurisdictions = map[string]bool{
	"gb": true, "uk": true, "united kingdom": true, "great britain": true,
	"england": true, "scotland": true, "wales": true, "northern ireland": true,
	"england and wales": true, "england-wales": true,
}

// IsUK reports whether the company is UK-registered, checking jurisdiction
// first and the address country as a fallback.
func (c *CompanyRecord) IsUK() bool {
	if ukJurisdictions[strings.ToLower(strings.TrimSpace(c.Jurisdiction))] {
		return true
	}
	return ukJurisdictions[strings.ToLower(strings.TrimSpace(c.Country))]
}

// CoverageStats summarizes how many companies have each enrichable field set.
type CoverageStats struct {
	Total        int64 `json:"total"`
	WithWebsite  int64 `json:"with_website"`
	WithPhone    int64 `json:"with_phone"`
	WithEmail    int64 `json:"with_email"`
	WithIndustry int64 `json:"with_industry"`
}
