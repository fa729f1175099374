package contact

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/databunker/enrich/pkg/websearch"
)

type mockSearcher struct {
	results map[string][]websearch.Snippet
	err     error
	queries []string
}

func (m *mockSearcher) Search(_ context.Context, query string) ([]websearch.Snippet, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

func TestSearchEnricher_Lookup(t *testing.T) {
	m := &mockSearcher{results: map[string][]websearch.Snippet{
		`"Acme Ltd" London phone number`: {
			{Title: "Acme Ltd - London", URL: "https://acme.co.uk", Snippet: "Call Acme on 020 7946 0958 today"},
		},
		`"Acme Ltd" London address`: {
			{Title: "Acme Ltd", URL: "https://dir.example", Snippet: "Registered at 12 High Street, London EC1A 1BB"},
		},
		`"Acme Ltd" London contact`: {
			{Title: "Contact Acme", URL: "https://acme.co.uk/contact", Snippet: "Email info@acme.co.uk"},
		},
	}}

	e := NewSearchEnricher(m)
	res, err := e.Lookup(context.Background(), "Acme Ltd", "London", "England")
	require.NoError(t, err)

	assert.Equal(t, []string{"020 7946 0958"}, res.Phones)
	assert.Equal(t, []string{"info@acme.co.uk"}, res.Emails)
	require.Len(t, res.Addresses, 1)
	assert.Contains(t, res.Addresses[0], "EC1A 1BB")
	assert.Len(t, m.queries, 3)
}

func TestSearchEnricher_InvalidPhonesFiltered(t *testing.T) {
	m := &mockSearcher{results: map[string][]websearch.Snippet{
		`"Acme Ltd" London phone number`: {
			{Title: "junk", URL: "https://x", Snippet: "ref 123 4567 code 000 111 2222"},
		},
	}}

	e := NewSearchEnricher(m)
	res, err := e.Lookup(context.Background(), "Acme Ltd", "London", "England")
	require.NoError(t, err)
	assert.Empty(t, res.Phones)
}

func TestSearchEnricher_AllQueriesFail(t *testing.T) {
	m := &mockSearcher{err: eris.New("rate limited")}

	e := NewSearchEnricher(m)
	_, err := e.Lookup(context.Background(), "Acme Ltd", "London", "England")
	assert.Error(t, err)
}

func TestExtractAddresses_US(t *testing.T) {
	out := extractAddresses("Visit us at 500 Market Street today", "US")
	require.Len(t, out, 1)
	assert.Equal(t, "500 Market Street", out[0])
}

func TestExtractAddresses_UKPostcodeWindow(t *testing.T) {
	out := extractAddresses("Our office, 12 High Street, London EC1A 1BB, is open weekdays", "England")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "EC1A 1BB")
	assert.Contains(t, out[0], "High Street")
}
