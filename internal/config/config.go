package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/databunker/enrich/internal/db"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Worker    WorkerConfig    `yaml:"worker" mapstructure:"worker"`
	Queue     QueueConfig     `yaml:"queue" mapstructure:"queue"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	DatabaseURL string        `yaml:"database_url" mapstructure:"database_url"`
	Pool        db.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// WorkerConfig configures the background enrichment worker loop.
type WorkerConfig struct {
	BatchSize      int `yaml:"batch_size" mapstructure:"batch_size"`
	BatchDelaySecs int `yaml:"batch_delay_secs" mapstructure:"batch_delay_secs"`
	EmptyDelaySecs int `yaml:"empty_delay_secs" mapstructure:"empty_delay_secs"`
	ErrorDelaySecs int `yaml:"error_delay_secs" mapstructure:"error_delay_secs"`
	StatsEvery     int `yaml:"stats_every" mapstructure:"stats_every"`
	EnqueueScanCap int `yaml:"enqueue_scan_cap" mapstructure:"enqueue_scan_cap"`
}

// QueueConfig configures retry accounting for queue items.
type QueueConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryBackoffMins int `yaml:"retry_backoff_mins" mapstructure:"retry_backoff_mins"`
}

// DiscoveryConfig configures website discovery probing.
type DiscoveryConfig struct {
	ProbeTimeoutSecs int `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	MaxConcurrent    int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ScrapeConfig configures the contact scraper.
type ScrapeConfig struct {
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxHTMLBytes    int64  `yaml:"max_html_bytes" mapstructure:"max_html_bytes"`
	PageCacheTTLHrs int    `yaml:"page_cache_ttl_hours" mapstructure:"page_cache_ttl_hours"`
	RobotsTTLHrs    int    `yaml:"robots_ttl_hours" mapstructure:"robots_ttl_hours"`
	UserAgent       string `yaml:"user_agent" mapstructure:"user_agent"`
}

// RegistryConfig configures the companies-registry API client.
type RegistryConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	MaxRequests  int    `yaml:"max_requests" mapstructure:"max_requests"`
	WindowSecs   int    `yaml:"window_secs" mapstructure:"window_secs"`
	CacheTTLSecs int    `yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SearchConfig configures the search-snippet client.
type SearchConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRequests  int    `yaml:"max_requests" mapstructure:"max_requests"`
	WindowSecs   int    `yaml:"window_secs" mapstructure:"window_secs"`
	CacheTTLSecs int    `yaml:"cache_ttl_secs" mapstructure:"cache_ttl_secs"`
}

// ServerConfig configures the ops HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.pool.max_conns", 0)
	v.SetDefault("store.pool.min_conns", 0)
	v.SetDefault("registry.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("worker.batch_size", 10)
	v.SetDefault("worker.batch_delay_secs", 5)
	v.SetDefault("worker.empty_delay_secs", 30)
	v.SetDefault("worker.error_delay_secs", 10)
	v.SetDefault("worker.stats_every", 100)
	v.SetDefault("worker.enqueue_scan_cap", 10000)
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.retry_backoff_mins", 60)
	v.SetDefault("discovery.probe_timeout_secs", 5)
	v.SetDefault("discovery.max_concurrent", 8)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.max_html_bytes", 600000)
	v.SetDefault("scrape.page_cache_ttl_hours", 24)
	v.SetDefault("scrape.robots_ttl_hours", 24)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; DataBunkerBot/1.0)")
	v.SetDefault("registry.base_url", "https://api.companieshouse.gov.uk")
	v.SetDefault("registry.max_requests", 10)
	v.SetDefault("registry.window_secs", 10)
	v.SetDefault("registry.cache_ttl_secs", 3600)
	v.SetDefault("registry.timeout_secs", 10)
	v.SetDefault("search.base_url", "https://www.google.com/search")
	v.SetDefault("search.timeout_secs", 8)
	v.SetDefault("search.max_requests", 30)
	v.SetDefault("search.window_secs", 60)
	v.SetDefault("search.cache_ttl_secs", 86400)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
