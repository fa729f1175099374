package contact

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/cache"
)

const (
	defaultMaxHTMLBytes = 600_000
	maxOutboundLinks    = 200
)

// Page is everything one fetch of a URL yielded.
type Page struct {
	URL         string            `json:"url"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Emails      []string          `json:"emails,omitempty"`
	Phones      []string          `json:"phones,omitempty"`
	Social      map[string]string `json:"social_links,omitempty"`
	Address     string            `json:"address,omitempty"`
	Links       []string          `json:"outbound_links,omitempty"`
	ContactURL  string            `json:"contact_url,omitempty"`
	Text        string            `json:"-"`
}

// contactLink spots "contact us" style links by text or href.
var contactLink = regexp.MustCompile(`(?i)(contact|kontakt|get in touch|support)`)

// socialHosts maps host substrings to network names; first hit per network
// wins.
var socialHosts = []struct {
	network string
	hosts   []string
}{
	{"linkedin", []string{"linkedin.com"}},
	{"twitter", []string{"twitter.com", "x.com"}},
	{"facebook", []string{"facebook.com"}},
	{"instagram", []string{"instagram.com"}},
}

var addressSelectors = []string{
	`[itemtype*="PostalAddress"]`,
	".address",
	"#address",
	`[class*="address"]`,
}

// Fetcher downloads and parses pages for the scraper, with a size cap and a
// response cache so the contact-page pass doesn't refetch the main page.
type Fetcher struct {
	client    *http.Client
	cache     *cache.Cache
	ttl       time.Duration
	maxBytes  int64
	userAgent string
}

// NewFetcher creates a Fetcher.
func NewFetcher(client *http.Client, c *cache.Cache, ttl time.Duration, maxBytes int64, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxHTMLBytes
	}
	return &Fetcher{client: client, cache: c, ttl: ttl, maxBytes: maxBytes, userAgent: userAgent}
}

// FetchPage downloads a URL and extracts its contact signals.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if f.cache != nil {
		if v, ok := f.cache.Get("page", pageURL); ok {
			if p, ok := v.(*Page); ok {
				return p, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "contact: build request %s", pageURL)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "contact: fetch %s", pageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("contact: fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, eris.Wrapf(err, "contact: read %s", pageURL)
	}

	page, err := ParsePage(pageURL, string(body))
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		f.cache.Set("page", pageURL, page, f.ttl)
	}
	zap.L().Debug("page scraped",
		zap.String("url", pageURL),
		zap.Int("emails", len(page.Emails)),
		zap.Int("phones", len(page.Phones)))
	return page, nil
}

// ParsePage extracts contact signals from raw HTML.
func ParsePage(pageURL, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(err, "contact: parse %s", pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "contact: parse url %s", pageURL)
	}

	page := &Page{
		URL:    pageURL,
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Emails: ExtractEmails(html),
		Phones: ExtractPhones(html),
		Social: make(map[string]string),
		Text:   doc.Find("body").Text(),
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs := resolveLink(base, href)
		if abs == "" {
			return
		}
		host := hostOf(abs)
		for _, sh := range socialHosts {
			for _, h := range sh.hosts {
				if host == h || strings.HasSuffix(host, "."+h) {
					if page.Social[sh.network] == "" {
						page.Social[sh.network] = abs
					}
				}
			}
		}
		if len(page.Links) < maxOutboundLinks {
			page.Links = append(page.Links, abs)
		}
		if page.ContactURL == "" && hostOf(abs) == hostOf(pageURL) &&
			(contactLink.MatchString(sel.Text()) || contactLink.MatchString(href)) {
			page.ContactURL = abs
		}
	})

	for _, sel := range addressSelectors {
		text := strings.Join(strings.Fields(doc.Find(sel).First().Text()), " ")
		if len(text) >= 10 && len(text) <= 200 {
			page.Address = text
			break
		}
	}

	return page, nil
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
