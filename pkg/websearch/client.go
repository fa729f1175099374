// Package websearch scrapes result snippets from a search engine's HTML
// endpoint. Layouts drift, so extraction is tolerant: a block that doesn't
// parse is skipped and an unrecognized page yields an empty result set.
package websearch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const maxResults = 5

// Snippet is one search result.
type Snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client defines the search operation.
type Client interface {
	Search(ctx context.Context, query string) ([]Snippet, error)
}

// Option configures the websearch client.
type Option func(*httpClient)

// WithBaseURL sets a custom search endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a websearch client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://www.google.com/search",
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		http: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string) ([]Snippet, error) {
	reqURL := c.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "websearch: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "websearch: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("websearch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, eris.Wrap(err, "websearch: read response body")
	}

	return parseResults(string(body))
}

func parseResults(html string) ([]Snippet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "websearch: parse html")
	}

	var snippets []Snippet
	doc.Find("div.g, div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find("h3").First().Text())
		href, _ := sel.Find("a[href]").First().Attr("href")
		text := strings.TrimSpace(sel.Find(".VwiC3b, .st, .snippet").First().Text())
		if text == "" {
			// Fall back to the block's own text minus the title.
			text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sel.Text()), title))
		}

		link := unwrapRedirect(href)
		if title == "" || link == "" {
			return true
		}
		snippets = append(snippets, Snippet{Title: title, URL: link, Snippet: text})
		return len(snippets) < maxResults
	})
	return snippets, nil
}

// unwrapRedirect resolves "/url?q=<real>" redirect hrefs to the target.
func unwrapRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/url?") {
		if u, err := url.Parse(href); err == nil {
			if q := u.Query().Get("q"); q != "" {
				return q
			}
		}
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return ""
}
