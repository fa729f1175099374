package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/databunker/enrich/internal/cache"
	"github.com/databunker/enrich/internal/company"
	"github.com/databunker/enrich/internal/contact"
	"github.com/databunker/enrich/internal/db"
	"github.com/databunker/enrich/internal/discovery"
	"github.com/databunker/enrich/internal/enrich"
	"github.com/databunker/enrich/internal/queue"
	"github.com/databunker/enrich/internal/ratelimit"
	"github.com/databunker/enrich/internal/sources"
	"github.com/databunker/enrich/pkg/registry"
	"github.com/databunker/enrich/pkg/websearch"
)

// pipelineEnv wires the stores and pipeline collaborators for a command.
type pipelineEnv struct {
	pool      *pgxpool.Pool
	companies *company.PostgresStore
	queue     *queue.PostgresStore
	enricher  *enrich.Enricher
}

func (e *pipelineEnv) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// newStoreEnv connects the database stores only.
func newStoreEnv(ctx context.Context) (*pipelineEnv, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, eris.New("store.database_url is not configured")
	}
	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	if err != nil {
		return nil, err
	}
	return &pipelineEnv{
		pool:      pool,
		companies: company.NewPostgresStore(pool),
		queue: queue.NewPostgresStore(pool, cfg.Queue.MaxAttempts,
			time.Duration(cfg.Queue.RetryBackoffMins)*time.Minute),
	}, nil
}

// newPipelineEnv connects the stores and builds the full enricher stack.
func newPipelineEnv(ctx context.Context) (*pipelineEnv, error) {
	env, err := newStoreEnv(ctx)
	if err != nil {
		return nil, err
	}

	env.enricher = enrich.NewEnricher(
		env.companies,
		newDiscoverer(),
		newScraper(),
		newSnippetSource(),
		newOfficerSource(),
	)
	return env, nil
}

func newDiscoverer() *discovery.Discoverer {
	return discovery.NewDiscoverer(
		discovery.WithTimeout(time.Duration(cfg.Discovery.ProbeTimeoutSecs)*time.Second),
		discovery.WithMaxConcurrent(cfg.Discovery.MaxConcurrent),
		discovery.WithUserAgent(cfg.Scrape.UserAgent),
	)
}

func newScraper() *contact.Scraper {
	c := cache.New()
	client := &http.Client{Timeout: time.Duration(cfg.Scrape.TimeoutSecs) * time.Second}
	robots := contact.NewRobots(client, c,
		time.Duration(cfg.Scrape.RobotsTTLHrs)*time.Hour, cfg.Scrape.UserAgent)
	fetcher := contact.NewFetcher(client, c,
		time.Duration(cfg.Scrape.PageCacheTTLHrs)*time.Hour, cfg.Scrape.MaxHTMLBytes, cfg.Scrape.UserAgent)
	return contact.NewScraper(robots, fetcher)
}

func newSnippetSource() *contact.SearchEnricher {
	search := sources.NewCachedSearch(
		websearch.NewClient(
			websearch.WithBaseURL(cfg.Search.BaseURL),
			websearch.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Search.TimeoutSecs) * time.Second}),
		),
		cache.New(),
		ratelimit.New(cfg.Search.MaxRequests, time.Duration(cfg.Search.WindowSecs)*time.Second),
		time.Duration(cfg.Search.CacheTTLSecs)*time.Second,
	)
	return contact.NewSearchEnricher(search)
}

// newOfficerSource returns nil when no registry key is configured, which
// disables the officer-import stage.
func newOfficerSource() enrich.OfficerSource {
	if cfg.Registry.Key == "" {
		return nil
	}
	return sources.NewCachedRegistry(
		registry.NewClient(cfg.Registry.Key,
			registry.WithBaseURL(cfg.Registry.BaseURL),
			registry.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Registry.TimeoutSecs) * time.Second}),
		),
		cache.New(),
		ratelimit.New(cfg.Registry.MaxRequests, time.Duration(cfg.Registry.WindowSecs)*time.Second),
		time.Duration(cfg.Registry.CacheTTLSecs)*time.Second,
	)
}
