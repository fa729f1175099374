// Package enrich runs the per-company enrichment pipeline and the worker
// loop that drains the queue.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/company"
	"github.com/databunker/enrich/internal/contact"
	"github.com/databunker/enrich/internal/discovery"
	"github.com/databunker/enrich/pkg/registry"
)

// Enrichment outcomes.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusNoData  = "no_data"
)

// Discoverer finds a company's website.
type Discoverer interface {
	Discover(ctx context.Context, name, country string) (*discovery.Result, error)
}

// Scraper extracts contact data from a company website.
type Scraper interface {
	ScrapeCompanyContacts(ctx context.Context, siteURL, country string) (*contact.Record, error)
}

// SnippetSource mines search snippets for contact fields.
type SnippetSource interface {
	Lookup(ctx context.Context, name, location, country string) (*contact.SearchResult, error)
}

// OfficerSource fetches a company's officer list from the registry.
type OfficerSource interface {
	GetOfficers(ctx context.Context, companyNumber string) ([]registry.Officer, error)
}

// Result summarizes one enrichment pass.
type Result struct {
	Status        string        `json:"status"`
	FieldsUpdated []string      `json:"fields_updated"`
	Sources       []string      `json:"sources"`
	Elapsed       time.Duration `json:"-"`
}

// Enricher runs the full pipeline for one company: website discovery,
// contact scraping, snippet fallback, officer import, fill-gaps write-back.
type Enricher struct {
	companies  company.Store
	discoverer Discoverer
	scraper    Scraper
	snippets   SnippetSource
	officers   OfficerSource
}

// NewEnricher creates an Enricher. snippets and officers may be nil to
// disable those stages.
func NewEnricher(companies company.Store, d Discoverer, s Scraper, snippets SnippetSource, officers OfficerSource) *Enricher {
	return &Enricher{
		companies:  companies,
		discoverer: d,
		scraper:    s,
		snippets:   snippets,
		officers:   officers,
	}
}

// EnrichCompany runs one enrichment pass. Zero discovered fields is a clean
// no_data result; errors are transient upstream failures the queue should
// retry.
func (e *Enricher) EnrichCompany(ctx context.Context, companyID uuid.UUID) (*Result, error) {
	start := time.Now()

	c, err := e.companies.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, eris.Errorf("enrich: company %s not found", companyID)
	}

	var ent company.Enrichment
	var sources []string
	partial := false

	website := ""
	if c.Website != nil {
		website = *c.Website
	} else {
		res, err := e.discoverer.Discover(ctx, c.Name, c.Country)
		if err != nil {
			return nil, err
		}
		if res.Found {
			website = res.URL
			ent.Website = &res.URL
			sources = append(sources, "discovery")
		}
	}

	if website != "" {
		rec, err := e.scraper.ScrapeCompanyContacts(ctx, website, c.Country)
		if err != nil {
			return nil, err
		}
		applyScrape(&ent, rec)
		if !rec.Empty() {
			sources = append(sources, "scrape")
		}
	}

	if e.snippets != nil && (missing(c.Phone, ent.Phone) || missing(c.Email, ent.Email) || missing(c.AddressLine1, ent.AddressLine1)) {
		found, err := e.snippetFallback(ctx, c, &ent)
		switch {
		case err != nil && ent.Empty():
			return nil, err
		case err != nil:
			zap.L().Warn("snippet fallback failed",
				zap.String("company", c.CompanyNumber), zap.Error(err))
			partial = true
		case found:
			sources = append(sources, "websearch")
		}
	}

	if e.officers != nil && c.IsUK() && c.CompanyNumber != "" {
		if err := e.importOfficers(ctx, c); err != nil {
			zap.L().Warn("officer import failed",
				zap.String("company", c.CompanyNumber), zap.Error(err))
			partial = true
		} else {
			sources = append(sources, "registry")
		}
	}

	updated := company.Merge(c, ent)
	if len(updated) > 0 {
		if err := e.companies.ApplyEnrichment(ctx, c.ID, ent); err != nil {
			return nil, err
		}
	}

	status := StatusNoData
	switch {
	case len(updated) > 0 && partial:
		status = StatusPartial
	case len(updated) > 0:
		status = StatusSuccess
	}

	zap.L().Info("company enriched",
		zap.String("company", c.CompanyNumber),
		zap.String("status", status),
		zap.Strings("fields", updated),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{
		Status:        status,
		FieldsUpdated: updated,
		Sources:       sources,
		Elapsed:       time.Since(start),
	}, nil
}

// applyScrape maps a scrape record onto the pending enrichment. Inferred
// email picks keep their tag in the stored format so consumers can tell a
// guess from an observed address.
func applyScrape(ent *company.Enrichment, rec *contact.Record) {
	if rec.Phone != "" {
		ent.Phone = &rec.Phone
	}
	if rec.Email != "" {
		ent.Email = &rec.Email
	}
	if rec.EmailFormat != "" {
		format := rec.EmailFormat
		if rec.EmailInferred {
			format = "inferred:" + format
		}
		ent.EmailFormat = &format
	}
	if rec.Industry != "" {
		ent.Industry = &rec.Industry
	}
	if rec.Address != "" {
		ent.AddressLine1 = &rec.Address
	}
}

// snippetFallback fills still-missing fields from search snippets. Returns
// whether it contributed anything.
func (e *Enricher) snippetFallback(ctx context.Context, c *company.CompanyRecord, ent *company.Enrichment) (bool, error) {
	res, err := e.snippets.Lookup(ctx, c.Name, c.Locality, c.Country)
	if err != nil {
		return false, err
	}

	found := false
	if missing(c.Phone, ent.Phone) && len(res.Phones) > 0 {
		phone := contact.FormatUKPhone(res.Phones[0], c.Country)
		if phone != "" {
			ent.Phone = &phone
			found = true
		}
	}
	if missing(c.Email, ent.Email) && len(res.Emails) > 0 {
		ent.Email = &res.Emails[0]
		found = true
	}
	if missing(c.AddressLine1, ent.AddressLine1) && len(res.Addresses) > 0 {
		ent.AddressLine1 = &res.Addresses[0]
		found = true
	}
	return found, nil
}

// importOfficers replaces the company's officer list from the registry.
// An unknown number yields an empty list, which clears stale officers.
func (e *Enricher) importOfficers(ctx context.Context, c *company.CompanyRecord) error {
	regOfficers, err := e.officers.GetOfficers(ctx, c.CompanyNumber)
	if err != nil {
		return err
	}

	officers := make([]company.Officer, 0, len(regOfficers))
	for _, ro := range regOfficers {
		officers = append(officers, company.Officer{
			CompanyID:   c.ID,
			Name:        strings.TrimSpace(ro.Name),
			Role:        ro.Role,
			AppointedOn: parseDate(ro.AppointedOn),
			ResignedOn:  parseDate(ro.ResignedOn),
			Nationality: ro.Nationality,
			Occupation:  ro.Occupation,
		})
	}
	return e.companies.ReplaceOfficers(ctx, c.ID, officers)
}

func missing(existing, pending *string) bool {
	return existing == nil && pending == nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
