package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-game-deals/config"
	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/pipeline"
	"github.com/aluiziolira/go-game-deals/scraper"
	"github.com/aluiziolira/go-game-deals/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath  string
	minPrice    float64
	maxPrice    float64
	minDiscount int
	genre       string
	interactive bool
	driver      string
	controlURL  string
	pages       int
	settle      time.Duration
	stores      []string
	outputDir   string
	format      string
	metricsAddr string
	verbose     bool
}

// exitError carries a process exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

func execute(ctx context.Context) int {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cmd, _ := buildRootCmd()
	return cmd
}

func buildRootCmd() (*cobra.Command, *rootFlags) {
	defaults := config.DefaultConfig()
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "deals",
		Short:         "Collects discounted game keys from G2A, Kinguin and CDKeys into one table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "YAML config file (env DEALS_CONFIG)")
	f.Float64Var(&flags.minPrice, "min-price", defaults.Filter.PriceMin, "Minimum price in PLN")
	f.Float64Var(&flags.maxPrice, "max-price", defaults.Filter.PriceMax, "Maximum price in PLN")
	f.IntVar(&flags.minDiscount, "min-discount", defaults.Filter.MinDiscount, "Minimum discount in percent")
	f.StringVar(&flags.genre, "genre", defaults.Filter.Genre.String(), "Genre name or index (see 'deals genres')")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for the filter on stdin")
	f.StringVar(&flags.driver, "driver", defaults.Driver, "Session driver: browser or static")
	f.StringVar(&flags.controlURL, "control-url", "", "DevTools URL of an already running browser")
	f.IntVar(&flags.pages, "pages", defaults.MaxPages, "Listing pages to walk per store")
	f.DurationVar(&flags.settle, "settle", defaults.SettleDelay, "Wait after each navigation")
	f.StringSliceVar(&flags.stores, "stores", defaults.Stores, "Stores to scrape, in order")
	f.StringVar(&flags.outputDir, "output-dir", defaults.OutputDir, "Directory for export files")
	f.StringVar(&flags.format, "format", defaults.OutputFormat, "Output format: csv, json, dual, or sqlite")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newGenresCmd())
	return cmd, flags
}

// loadConfig layers defaults, the YAML file, DEALS_* variables and changed flags.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := flags.configPath
	if path == "" {
		if value, ok := config.EnvString(config.EnvPrefix + "CONFIG"); ok {
			path = value
		}
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("min-price") {
		cfg.Filter.PriceMin = flags.minPrice
	}
	if changed("max-price") {
		cfg.Filter.PriceMax = flags.maxPrice
	}
	if changed("min-discount") {
		cfg.Filter.MinDiscount = flags.minDiscount
	}
	if changed("genre") {
		genre, err := parseGenreArg(flags.genre)
		if err != nil {
			return nil, err
		}
		cfg.Filter.Genre = genre
	}
	if changed("driver") {
		cfg.Driver = strings.ToLower(flags.driver)
	}
	if changed("control-url") {
		cfg.ControlURL = flags.controlURL
	}
	if changed("pages") {
		cfg.MaxPages = flags.pages
	}
	if changed("settle") {
		cfg.SettleDelay = flags.settle
	}
	if changed("stores") {
		cfg.Stores = flags.stores
	}
	if changed("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	if changed("format") {
		cfg.OutputFormat = strings.ToLower(flags.format)
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if changed("verbose") {
		cfg.Verbose = flags.verbose
	}
	return cfg, nil
}

func parseGenreArg(value string) (models.Genre, error) {
	if idx, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if idx < 0 || idx >= len(models.Genres()) {
			return models.Action, fmt.Errorf("genre index %d out of range", idx)
		}
		return models.GenreFromIndex(idx), nil
	}
	return models.ParseGenre(value)
}

func openerFor(cfg *config.Config) session.Opener {
	if cfg.Driver == config.DriverStatic {
		return session.OpenStatic(session.StaticOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			CacheSize: cfg.CacheSize,
		})
	}
	return session.OpenBrowser(session.BrowserOptions{
		ControlURL: cfg.ControlURL,
		Bin:        cfg.BrowserBin,
		Headless:   cfg.Headless,
		Timeout:    cfg.Timeout,
	})
}

func runScrape(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Verbose))

	if flags.interactive {
		cfg.Filter = promptFilter(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		return exitError{code: 1, err: err}
	}

	ctx := cmd.Context()
	done := make(chan struct{})
	defer close(done)
	logOnCancel(ctx, done)

	s, err := scraper.NewScraper(cfg, openerFor(cfg))
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		return exitError{code: 1, err: err}
	}

	metricsServer := startMetricsServer(cfg.MetricsAddr, s.Metrics)
	defer stopMetricsServer(metricsServer)

	slog.Info("starting scrape",
		slog.String("driver", cfg.Driver),
		slog.Any("stores", cfg.Stores),
		slog.Int("pages", cfg.MaxPages),
		slog.Float64("price_min", cfg.Filter.PriceMin),
		slog.Float64("price_max", cfg.Filter.PriceMax),
		slog.Int("min_discount", cfg.Filter.MinDiscount),
		slog.String("genre", cfg.Filter.Genre.String()),
	)

	games, result, err := s.Run(ctx, cfg.Filter)
	var initErr scraper.ErrSessionInit
	if errors.As(err, &initErr) {
		slog.Error("could not start a browser session", slog.Any("error", err))
		return exitError{code: 2, err: err}
	}
	if err != nil {
		slog.Error("scrape interrupted, exporting partial results", slog.Any("error", err))
	}

	paths, metrics, err := export(cfg, games, result.EndTime)
	if err != nil {
		slog.Error("export failed", slog.Any("error", err))
		return exitError{code: 1, err: err}
	}

	printSummary(cmd.OutOrStdout(), result, len(games), paths, metrics)
	return nil
}

func export(cfg *config.Config, games models.AggregateMap, at time.Time) ([]string, map[string]interface{}, error) {
	if at.IsZero() {
		at = time.Now()
	}
	writer, paths, err := pipeline.NewWriter(cfg.OutputFormat, cfg.OutputDir, at)
	if err != nil {
		return nil, nil, fmt.Errorf("create writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	// The scrape may already be cancelled; the export still has to finish.
	p := pipeline.NewPipeline(context.Background(), writer, cfg)
	p.Start(1)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	if err := p.ProcessMap(games); err != nil {
		_ = p.Close()
		return nil, nil, fmt.Errorf("queue records: %w", err)
	}
	if err := p.Close(); err != nil {
		return nil, nil, fmt.Errorf("pipeline shutdown: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return nil, nil, fmt.Errorf("output validation: %w", err)
	}

	return paths, p.GetMetrics(), nil
}

// logOnCancel reports a cancelled run. The returned channel is closed once
// the watcher exits, which happens at cancellation or when done is closed.
func logOnCancel(ctx context.Context, done <-chan struct{}) <-chan struct{} {
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, finishing current step")
		case <-done:
		}
	}()
	return exited
}

func startMetricsServer(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func stopMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}
