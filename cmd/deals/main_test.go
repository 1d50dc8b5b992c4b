package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-game-deals/config"
	"github.com/aluiziolira/go-game-deals/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptFilterParsesAnswers(t *testing.T) {
	in := strings.NewReader("10\n80.5\n50\n2\n")
	var out bytes.Buffer

	f := promptFilter(in, &out)

	assert.Equal(t, models.Filter{PriceMin: 10, PriceMax: 80.5, MinDiscount: 50, Genre: models.Rpg}, f)
	assert.Contains(t, out.String(), "Input minimum price (in PLN) (default: 0):")
	assert.Contains(t, out.String(), " 6 - Casual")
}

func TestPromptFilterFallsBackSilently(t *testing.T) {
	in := strings.NewReader("abc\n-5\n\n9\n")

	f := promptFilter(in, &bytes.Buffer{})

	assert.Equal(t, config.DefaultPriceMin, f.PriceMin)
	assert.Equal(t, config.DefaultPriceMax, f.PriceMax)
	assert.Equal(t, config.DefaultMinDiscount, f.MinDiscount)
	assert.Equal(t, models.Action, f.Genre)
}

func TestPromptFilterHandlesEOF(t *testing.T) {
	f := promptFilter(strings.NewReader("25"), &bytes.Buffer{})

	assert.Equal(t, 25.0, f.PriceMin)
	assert.Equal(t, config.DefaultPriceMax, f.PriceMax)
}

func TestParseGenreArg(t *testing.T) {
	g, err := parseGenreArg("3")
	require.NoError(t, err)
	assert.Equal(t, models.Strategy, g)

	g, err = parseGenreArg("horror")
	require.NoError(t, err)
	assert.Equal(t, models.Horror, g)

	_, err = parseGenreArg("7")
	assert.Error(t, err)

	_, err = parseGenreArg("racing")
	assert.Error(t, err)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deals.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_pages: 5\noutput_dir: from-file\noutput_format: json\n"), 0o644))

	t.Setenv("DEALS_CONFIG", path)
	t.Setenv("DEALS_OUTPUT_DIR", "from-env")

	cmd, flags := buildRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--format", "sqlite", "--genre", "puzzle"}))

	cfg, err := loadConfig(cmd, flags)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, config.FormatSQLite, cfg.OutputFormat)
	assert.Equal(t, models.Puzzle, cfg.Filter.Genre)
	assert.Equal(t, config.DefaultMinDiscount, cfg.Filter.MinDiscount)
}

func TestGenresCommandListsCodes(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"genres"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "action-c2699")
	assert.Contains(t, out.String(), "RPG")
}

func TestExportWritesTimestampedCSV(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "csv")

	games := models.NewAggregateMap()
	games.Upsert("Hades", models.G2A, models.StoreRecord{Price: 9.5, Discount: 60, Link: "https://www.g2a.com/hades"})
	at := time.Date(2024, 3, 9, 7, 5, 2, 0, time.UTC)

	paths, metrics, err := export(cfg, games, at)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(cfg.OutputDir, "scrape-20240309-070502.csv")}, paths)
	assert.Equal(t, int64(1), metrics["exported_games"])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Hades,9.5,60,https://www.g2a.com/hades,0,0,-,0,0,-", lines[1])
}

func TestNewLoggerWritesJSONWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)

	logger.Debug("hidden")
	logger.Info("store scraped", "store", "g2a")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"store scraped"`)
	assert.Contains(t, out, `"store":"g2a"`)
}

func TestLogOnCancelExitsWhenRunEnds(t *testing.T) {
	done := make(chan struct{})
	exited := logOnCancel(context.Background(), done)

	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("watcher still running after the run finished")
	}
}

func TestLogOnCancelExitsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exited := logOnCancel(ctx, make(chan struct{}))

	cancel()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("watcher did not observe cancellation")
	}
}
