package contact

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/databunker/enrich/pkg/websearch"
)

const (
	maxSnippetPhones    = 3
	maxSnippetEmails    = 3
	maxSnippetAddresses = 2
)

var (
	// usStreet matches "123 Main Street" style addresses.
	usStreet = regexp.MustCompile(`\d{1,5}\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Place|Pl)\b\.?`)

	// ukPostcode matches a UK postcode; the surrounding context window is
	// taken as the address line.
	ukPostcode = regexp.MustCompile(`[A-Z]{1,2}\d[A-Z0-9]?\s*\d[A-Z]{2}`)
)

// Searcher is the snippet source the enricher queries.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Snippet, error)
}

// SearchResult is what snippet mining yielded for a company.
type SearchResult struct {
	Phones    []string `json:"phones,omitempty"`
	Emails    []string `json:"emails,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// SearchEnricher mines search-result snippets for contact fields when the
// company's own site yielded nothing.
type SearchEnricher struct {
	searcher Searcher
}

// NewSearchEnricher creates a SearchEnricher.
func NewSearchEnricher(searcher Searcher) *SearchEnricher {
	return &SearchEnricher{searcher: searcher}
}

// Lookup runs the phone/address/contact queries for a company and collects
// validated candidates. Query failures degrade to whatever the other
// queries found.
func (e *SearchEnricher) Lookup(ctx context.Context, name, location, country string) (*SearchResult, error) {
	loc := strings.TrimSpace(location)
	queries := []string{
		fmt.Sprintf("%q %s phone number", name, loc),
		fmt.Sprintf("%q %s address", name, loc),
		fmt.Sprintf("%q %s contact", name, loc),
	}

	res := &SearchResult{}
	var lastErr error
	for _, q := range queries {
		snippets, err := e.searcher.Search(ctx, q)
		if err != nil {
			zap.L().Debug("snippet query failed", zap.String("query", q), zap.Error(err))
			lastErr = err
			continue
		}
		for _, s := range snippets {
			e.collect(res, s.Snippet+" "+s.Title, country)
		}
	}
	if res.empty() && lastErr != nil {
		return nil, lastErr
	}
	return res, nil
}

func (r *SearchResult) empty() bool {
	return len(r.Phones) == 0 && len(r.Emails) == 0 && len(r.Addresses) == 0
}

func (e *SearchEnricher) collect(res *SearchResult, text, country string) {
	if len(res.Phones) < maxSnippetPhones {
		for _, p := range ExtractPhones(text) {
			if ValidSnippetPhone(p, country) && !contains(res.Phones, p) {
				res.Phones = append(res.Phones, p)
				if len(res.Phones) >= maxSnippetPhones {
					break
				}
			}
		}
	}
	if len(res.Emails) < maxSnippetEmails {
		for _, em := range ExtractEmails(text) {
			if !contains(res.Emails, em) {
				res.Emails = append(res.Emails, em)
				if len(res.Emails) >= maxSnippetEmails {
					break
				}
			}
		}
	}
	if len(res.Addresses) < maxSnippetAddresses {
		for _, a := range extractAddresses(text, country) {
			if !contains(res.Addresses, a) {
				res.Addresses = append(res.Addresses, a)
				if len(res.Addresses) >= maxSnippetAddresses {
					break
				}
			}
		}
	}
}

// extractAddresses pulls address-shaped strings from snippet text. For UK
// companies a postcode anchors the match and the preceding context window
// supplies the street part.
func extractAddresses(text, country string) []string {
	var out []string
	if IsUKCountry(country) {
		for _, loc := range ukPostcode.FindAllStringIndex(text, -1) {
			start := loc[0] - 60
			if start < 0 {
				start = 0
			}
			candidate := strings.Join(strings.Fields(text[start:loc[1]]), " ")
			// Trim leading sentence fragments up to a comma or digit start.
			if i := strings.Index(candidate, ","); i >= 0 && i < len(candidate)-10 {
				candidate = strings.TrimSpace(candidate[i+1:])
			}
			if len(candidate) >= 10 && len(candidate) <= 200 {
				out = append(out, candidate)
			}
		}
		return out
	}
	for _, m := range usStreet.FindAllString(text, -1) {
		if len(m) >= 10 && len(m) <= 200 {
			out = append(out, m)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
