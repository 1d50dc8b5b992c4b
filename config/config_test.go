package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-game-deals/models"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "negative price",
			mutate: func(cfg *Config) {
				cfg.Filter.PriceMin = -1
			},
			wantErr: "price",
		},
		{
			name: "negative discount",
			mutate: func(cfg *Config) {
				cfg.Filter.MinDiscount = -5
			},
			wantErr: "discount",
		},
		{
			name: "genre out of range",
			mutate: func(cfg *Config) {
				cfg.Filter.Genre = models.Genre(9)
			},
			wantErr: "genre",
		},
		{
			name: "zero max pages",
			mutate: func(cfg *Config) {
				cfg.MaxPages = 0
			},
			wantErr: "max pages",
		},
		{
			name: "unknown store",
			mutate: func(cfg *Config) {
				cfg.Stores = []string{"g2a", "steam"}
			},
			wantErr: "stores",
		},
		{
			name: "duplicate store",
			mutate: func(cfg *Config) {
				cfg.Stores = []string{"g2a", "g2a"}
			},
			wantErr: "twice",
		},
		{
			name: "no stores",
			mutate: func(cfg *Config) {
				cfg.Stores = nil
			},
			wantErr: "store",
		},
		{
			name: "bad store page budget",
			mutate: func(cfg *Config) {
				cfg.StorePages = map[string]int{"kinguin": 0}
			},
			wantErr: "store pages",
		},
		{
			name: "negative settle delay",
			mutate: func(cfg *Config) {
				cfg.SettleDelay = -1 * time.Second
			},
			wantErr: "settle",
		},
		{
			name: "unknown driver",
			mutate: func(cfg *Config) {
				cfg.Driver = "selenium"
			},
			wantErr: "driver",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "unknown format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "empty output dir",
			mutate: func(cfg *Config) {
				cfg.OutputDir = ""
			},
			wantErr: "output dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	stores, err := cfg.StoreList()
	if err != nil {
		t.Fatalf("store list: %v", err)
	}
	if len(stores) != 3 || stores[0] != models.G2A || stores[1] != models.Kinguin || stores[2] != models.CDKeys {
		t.Fatalf("stores = %v, want [g2a kinguin cdkeys]", stores)
	}
}

func TestPageBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPages = 3
	cfg.StorePages = map[string]int{"cdkeys": 5}

	if got := cfg.PageBudget(models.G2A); got != 3 {
		t.Fatalf("g2a budget = %d, want 3", got)
	}
	if got := cfg.PageBudget(models.CDKeys); got != 5 {
		t.Fatalf("cdkeys budget = %d, want 5", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.yaml")
	content := `
filter:
  price_min: 10
  price_max: 80.5
  min_discount: 45
  genre: 3
stores: [cdkeys, g2a]
settle_delay: 500ms
driver: static
output_format: sqlite
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Filter.PriceMin != 10 || cfg.Filter.PriceMax != 80.5 || cfg.Filter.MinDiscount != 45 {
		t.Fatalf("filter = %+v", cfg.Filter)
	}
	if cfg.Filter.Genre != models.Strategy {
		t.Fatalf("genre = %v, want Strategy", cfg.Filter.Genre)
	}
	if cfg.SettleDelay != 500*time.Millisecond {
		t.Fatalf("settle delay = %v, want 500ms", cfg.SettleDelay)
	}
	if cfg.Driver != DriverStatic || cfg.OutputFormat != "sqlite" {
		t.Fatalf("driver/format = %s/%s", cfg.Driver, cfg.OutputFormat)
	}
	if cfg.MaxPages != 3 {
		t.Fatalf("unset fields should keep defaults, max pages = %d", cfg.MaxPages)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DEALS_PAGES", "7")
	t.Setenv("DEALS_SETTLE", "1500ms")
	t.Setenv("DEALS_STORES", " Kinguin , cdkeys ")
	t.Setenv("DEALS_FORMAT", "JSON")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.MaxPages != 7 {
		t.Fatalf("max pages = %d, want 7", cfg.MaxPages)
	}
	if cfg.SettleDelay != 1500*time.Millisecond {
		t.Fatalf("settle = %v", cfg.SettleDelay)
	}
	if strings.Join(cfg.Stores, ",") != "kinguin,cdkeys" {
		t.Fatalf("stores = %v", cfg.Stores)
	}
	if cfg.OutputFormat != "json" {
		t.Fatalf("format = %s", cfg.OutputFormat)
	}
}

func TestApplyEnvRejectsBadInt(t *testing.T) {
	t.Setenv("DEALS_PAGES", "many")
	if err := DefaultConfig().ApplyEnv(); err == nil || !strings.Contains(err.Error(), "DEALS_PAGES") {
		t.Fatalf("expected DEALS_PAGES error, got %v", err)
	}
}

func TestFilterFromInput(t *testing.T) {
	tests := []struct {
		name string
		in   FilterInput
		want models.Filter
	}{
		{
			name: "all blank keeps defaults",
			in:   FilterInput{},
			want: models.Filter{PriceMin: 0, PriceMax: 150, MinDiscount: 30, Genre: models.Action},
		},
		{
			name: "valid answers",
			in:   FilterInput{PriceMin: " 20 ", PriceMax: "99.5\n", MinDiscount: "50", GenreIndex: "4"},
			want: models.Filter{PriceMin: 20, PriceMax: 99.5, MinDiscount: 50, Genre: models.Horror},
		},
		{
			name: "negative values fall back",
			in:   FilterInput{PriceMin: "-1", PriceMax: "-10", MinDiscount: "-3", GenreIndex: "-1"},
			want: models.Filter{PriceMin: 0, PriceMax: 150, MinDiscount: 30, Genre: models.Action},
		},
		{
			name: "garbage falls back",
			in:   FilterInput{PriceMin: "cheap", PriceMax: "inf", MinDiscount: "12.5", GenreIndex: "7"},
			want: models.Filter{PriceMin: 0, PriceMax: 150, MinDiscount: 30, Genre: models.Action},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterFromInput(tt.in); got != tt.want {
				t.Fatalf("FilterFromInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
