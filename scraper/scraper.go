// Package scraper walks the storefront listings and merges their offers.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-game-deals/config"
	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/session"
)

// Scraper runs every configured store against one shared session.
type Scraper struct {
	cfg     *config.Config
	open    session.Opener
	stores  []models.Store
	Metrics *Metrics
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config, open session.Opener) (*Scraper, error) {
	if open == nil {
		return nil, fmt.Errorf("session opener is required")
	}
	storeList, err := cfg.StoreList()
	if err != nil {
		return nil, fmt.Errorf("resolve stores: %w", err)
	}
	return &Scraper{
		cfg:     cfg,
		open:    open,
		stores:  storeList,
		Metrics: NewMetrics(),
	}, nil
}

// Run opens a session and scrapes each store in turn, merging their offers
// into one map keyed by exact title.
//
// If the session cannot be opened Run returns a nil map and ErrSessionInit.
// A failing store is logged and recorded in the result; the remaining stores
// still run and the map keeps whatever the failing store found before it
// stopped. When ctx is cancelled the partial map is returned with ctx.Err().
func (s *Scraper) Run(ctx context.Context, filter models.Filter) (models.AggregateMap, *models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	sess, err := s.open(ctx)
	if err != nil {
		slog.Error("session init failed", slog.Any("error", err))
		return nil, nil, ErrSessionInit{Err: err}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Error("close session", slog.Any("error", err))
		}
	}()

	games := models.NewAggregateMap()
	result := &models.ScrapeResult{StartTime: start}

	for _, store := range s.stores {
		if ctx.Err() != nil {
			break
		}
		sightings, storeResult, err := ScrapeStore(ctx, sess, store, filter, Options{
			Pages:       s.cfg.PageBudget(store),
			SettleDelay: s.cfg.SettleDelay,
			Metrics:     s.Metrics,
		})
		games.Merge(sightings)

		if err != nil {
			storeResult.Err = err
			category := errorTypeLabel(err)
			s.Metrics.IncError(store, category)
			slog.Error("store scrape aborted",
				slog.String("store", store.String()),
				slog.String("category", category),
				slog.Int("pages", storeResult.Pages),
				slog.Int("kept", storeResult.ItemsKept),
				slog.Any("error", err),
			)
		} else {
			slog.Info("store scraped",
				slog.String("store", store.String()),
				slog.Int("pages", storeResult.Pages),
				slog.Int("seen", storeResult.ItemsSeen),
				slog.Int("kept", storeResult.ItemsKept),
			)
		}
		result.Stores = append(result.Stores, storeResult)
	}

	result.EndTime = time.Now()
	result.Games = len(games)
	return games, result, ctx.Err()
}
