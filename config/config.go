package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aluiziolira/go-game-deals/models"
	"gopkg.in/yaml.v3"
)

// Session drivers.
const (
	DriverBrowser = "browser"
	DriverStatic  = "static"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatDual   = "dual"
	FormatSQLite = "sqlite"
)

// Filter defaults used when input is missing or invalid.
const (
	DefaultPriceMin    = 0.0
	DefaultPriceMax    = 150.0
	DefaultMinDiscount = 30
	DefaultGenreIndex  = 0
)

// Config holds scraper configuration.
type Config struct {
	Filter             models.Filter  `yaml:"filter"`
	Stores             []string       `yaml:"stores"`
	MaxPages           int            `yaml:"max_pages"`
	StorePages         map[string]int `yaml:"store_pages"`
	SettleDelay        time.Duration  `yaml:"settle_delay"`
	Driver             string         `yaml:"driver"`
	ControlURL         string         `yaml:"control_url"`
	BrowserBin         string         `yaml:"browser_bin"`
	Headless           bool           `yaml:"headless"`
	Timeout            time.Duration  `yaml:"timeout"`
	UserAgent          string         `yaml:"user_agent"`
	CacheSize          int            `yaml:"cache_size"`
	OutputDir          string         `yaml:"output_dir"`
	OutputFormat       string         `yaml:"output_format"` // csv, json, dual, or sqlite
	BatchSize          int            `yaml:"batch_size"`
	PipelineBufferSize int            `yaml:"pipeline_buffer_size"`
	DedupeMaxSize      int            `yaml:"dedupe_max_size"`
	MetricsAddr        string         `yaml:"metrics_addr"`
	Verbose            bool           `yaml:"verbose"`
}

// DefaultConfig returns the settings the three storefronts are tuned for.
func DefaultConfig() *Config {
	return &Config{
		Filter: models.Filter{
			PriceMin:    DefaultPriceMin,
			PriceMax:    DefaultPriceMax,
			MinDiscount: DefaultMinDiscount,
			Genre:       models.GenreFromIndex(DefaultGenreIndex),
		},
		Stores:             []string{"g2a", "kinguin", "cdkeys"},
		MaxPages:           3,
		SettleDelay:        2 * time.Second,
		Driver:             DriverBrowser,
		Headless:           true,
		Timeout:            30 * time.Second,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		CacheSize:          16,
		OutputDir:          "csv",
		OutputFormat:       FormatCSV,
		BatchSize:          64,
		PipelineBufferSize: 512,
		DedupeMaxSize:      10000,
		Verbose:            false,
	}
}

// LoadFile overlays values from a YAML file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// StoreList resolves Stores into store identifiers, preserving order.
func (c *Config) StoreList() ([]models.Store, error) {
	out := make([]models.Store, 0, len(c.Stores))
	seen := make(map[models.Store]bool, len(c.Stores))
	for _, name := range c.Stores {
		store, err := models.ParseStore(name)
		if err != nil {
			return nil, err
		}
		if seen[store] {
			return nil, fmt.Errorf("store %s listed twice", store)
		}
		seen[store] = true
		out = append(out, store)
	}
	return out, nil
}

// PageBudget returns how many listing pages to walk for store.
func (c *Config) PageBudget(store models.Store) int {
	if n, ok := c.StorePages[store.String()]; ok && n > 0 {
		return n
	}
	return c.MaxPages
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Filter.PriceMin < 0 || c.Filter.PriceMax < 0 {
		return fmt.Errorf("price bounds cannot be negative")
	}
	if c.Filter.MinDiscount < 0 {
		return fmt.Errorf("min discount cannot be negative")
	}
	if c.Filter.Genre < 0 || int(c.Filter.Genre) >= len(models.Genres()) {
		return fmt.Errorf("genre index %d out of range", int(c.Filter.Genre))
	}

	if len(c.Stores) == 0 {
		return fmt.Errorf("at least one store is required")
	}
	if _, err := c.StoreList(); err != nil {
		return fmt.Errorf("stores: %w", err)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	for name, n := range c.StorePages {
		if _, err := models.ParseStore(name); err != nil {
			return fmt.Errorf("store pages: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("store pages for %s must be positive", name)
		}
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}

	switch c.Driver {
	case DriverBrowser, DriverStatic:
	default:
		return fmt.Errorf("driver must be %s or %s", DriverBrowser, DriverStatic)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Driver == DriverStatic && strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	switch c.OutputFormat {
	case FormatCSV, FormatJSON, FormatDual, FormatSQLite:
	default:
		return fmt.Errorf("output format must be csv, json, dual, or sqlite")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}

	return nil
}
