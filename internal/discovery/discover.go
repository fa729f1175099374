package discovery

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// acceptedStatus are response codes treated as "a site lives here". 301/302
// count because probes don't follow redirects: a parked redirect to the real
// site still identifies the domain. 403 covers bot-hostile hosts.
var acceptedStatus = map[int]bool{
	http.StatusOK:               true,
	http.StatusMovedPermanently: true,
	http.StatusFound:            true,
	http.StatusForbidden:        true,
}

// Result is the outcome of a discovery pass. Not finding a site is a clean
// result, not an error.
type Result struct {
	Found   bool   `json:"found"`
	URL     string `json:"url,omitempty"`
	Checked int    `json:"checked"`
}

// Discoverer probes candidate URLs for a company website.
type Discoverer struct {
	client        *http.Client
	maxConcurrent int
	userAgent     string
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Discoverer) { d.client = c }
}

// WithTimeout sets the per-probe timeout.
func WithTimeout(t time.Duration) Option {
	return func(d *Discoverer) { d.client.Timeout = t }
}

// WithMaxConcurrent caps how many candidates are probed at once.
func WithMaxConcurrent(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.maxConcurrent = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent on probes.
func WithUserAgent(ua string) Option {
	return func(d *Discoverer) { d.userAgent = ua }
}

// NewDiscoverer creates a Discoverer. Probes never follow redirects; the
// first response settles the candidate.
func NewDiscoverer(opts ...Option) *Discoverer {
	d := &Discoverer{
		client: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxConcurrent: 8,
		userAgent:     "Mozilla/5.0 (compatible; DataBunkerBot/1.0)",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover probes the candidate URLs for name/country concurrently and
// returns the first acceptor in candidate order, so the country TLD wins
// over .com even when both respond.
func (d *Discoverer) Discover(ctx context.Context, name, country string) (*Result, error) {
	candidates := Candidates(name, country)
	if len(candidates) == 0 {
		return &Result{}, nil
	}

	accepted := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxConcurrent)
	for i, url := range candidates {
		g.Go(func() error {
			accepted[i] = d.probe(gctx, url)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, ok := range accepted {
		if ok {
			zap.L().Debug("website discovered",
				zap.String("name", name),
				zap.String("url", candidates[i]))
			return &Result{Found: true, URL: candidates[i], Checked: len(candidates)}, nil
		}
	}
	return &Result{Checked: len(candidates)}, nil
}

// probe tries HEAD first and falls back to GET for servers that reject HEAD.
// Any transport error means this candidate doesn't resolve.
func (d *Discoverer) probe(ctx context.Context, url string) bool {
	if status, err := d.request(ctx, http.MethodHead, url); err == nil {
		if acceptedStatus[status] {
			return true
		}
		if status != http.StatusMethodNotAllowed && status != http.StatusNotImplemented {
			return false
		}
	}
	status, err := d.request(ctx, http.MethodGet, url)
	return err == nil && acceptedStatus[status]
}

func (d *Discoverer) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
