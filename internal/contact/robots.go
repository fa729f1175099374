package contact

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/databunker/enrich/internal/cache"
)

// Robots checks robots.txt before the scraper touches a page. Only the
// `User-agent: *` group's Disallow lines are honored; Allow directives and
// agent-specific groups are out of scope. Fetch failures are fail-open: a
// site without a reachable robots.txt is treated as permissive.
type Robots struct {
	client    *http.Client
	cache     *cache.Cache
	ttl       time.Duration
	userAgent string
}

// NewRobots creates a Robots checker backed by the given response cache.
func NewRobots(client *http.Client, c *cache.Cache, ttl time.Duration, userAgent string) *Robots {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Robots{client: client, cache: c, ttl: ttl, userAgent: userAgent}
}

// Allowed reports whether the URL's path may be fetched under the site's
// robots.txt rules.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	rules := r.rulesFor(ctx, u.Scheme+"://"+u.Host)
	path := u.Path
	if path == "" {
		path = "/"
	}
	for _, disallowed := range rules {
		if strings.HasPrefix(path, disallowed) {
			return false
		}
	}
	return true
}

// rulesFor returns the Disallow prefixes for an origin, fetching and caching
// robots.txt on first use.
func (r *Robots) rulesFor(ctx context.Context, origin string) []string {
	if r.cache != nil {
		if v, ok := r.cache.Get("robots", origin); ok {
			if rules, ok := v.([]string); ok {
				return rules
			}
		}
	}

	rules := r.fetch(ctx, origin)
	if r.cache != nil {
		r.cache.Set("robots", origin, rules, r.ttl)
	}
	return rules
}

func (r *Robots) fetch(ctx context.Context, origin string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		zap.L().Debug("robots fetch failed, treating as permissive",
			zap.String("origin", origin), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil
	}
	return parseRobots(string(body))
}

// parseRobots collects Disallow values from `User-agent: *` groups.
func parseRobots(body string) []string {
	var rules []string
	inWildcard := false

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			inWildcard = value == "*"
		case "disallow":
			if inWildcard && value != "" {
				rules = append(rules, value)
			}
		}
	}
	return rules
}
