package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/parser"
	"github.com/aluiziolira/go-game-deals/session"
	"github.com/aluiziolira/go-game-deals/stores"
)

// Options tunes a single store pass.
type Options struct {
	Pages       int
	SettleDelay time.Duration
	Metrics     *Metrics
}

// ScrapeStore walks pages 1..opts.Pages of the store's listing and returns
// every item whose discount reaches filter.MinDiscount, in listing order.
//
// The first failure ends the pass: sightings collected up to that point are
// returned together with the error and no further pages are loaded.
func ScrapeStore(ctx context.Context, sess session.Session, store models.Store, filter models.Filter, opts Options) ([]models.Sighting, models.StoreResult, error) {
	layout := stores.LayoutFor(store)
	result := models.StoreResult{Store: store}
	var out []models.Sighting

	for page := 1; page <= opts.Pages; page++ {
		pageURL := stores.BuildFilterURL(store, filter, page)

		start := time.Now()
		if err := sess.Navigate(ctx, pageURL); err != nil {
			return out, result, ErrNavigation{Store: store, URL: pageURL, Err: err}
		}
		opts.Metrics.ObserveNavigation(store, time.Since(start))
		if err := settle(ctx, opts.SettleDelay); err != nil {
			return out, result, err
		}
		result.Pages++
		opts.Metrics.IncPage(store)

		items, err := sess.FindAll(ctx, layout.Item)
		if err != nil {
			return out, result, ErrQuery{Store: store, Selector: layout.Item, Err: err}
		}
		slog.Debug("listing page loaded",
			slog.String("store", store.String()),
			slog.Int("page", page),
			slog.Int("items", len(items)),
		)

		for _, item := range items {
			result.ItemsSeen++
			discount, err := extractDiscount(store, layout, item)
			if err != nil {
				return out, result, err
			}
			if discount < filter.MinDiscount {
				result.ItemsSkipped++
				opts.Metrics.IncItem(store, "below_threshold")
				continue
			}

			sighting, err := extractSighting(store, layout, item, discount)
			if err != nil {
				return out, result, err
			}
			out = append(out, sighting)
			result.ItemsKept++
			opts.Metrics.IncItem(store, "kept")
		}
	}
	return out, result, nil
}

// settle gives scripts time to render after a navigation. It returns early
// when ctx is done.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// extractDiscount treats a missing badge as no discount.
func extractDiscount(store models.Store, layout stores.Layout, item session.Element) (int, error) {
	badge, err := item.Find(layout.Discount)
	if errors.Is(err, session.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, ErrExtract{Store: store, Field: "discount", Err: err}
	}
	text, err := badge.Text()
	if err != nil {
		return 0, ErrExtract{Store: store, Field: "discount", Err: err}
	}
	discount, err := parser.ParseDiscount(text)
	if err != nil {
		return 0, ErrParse{Store: store, Field: "discount", Err: err}
	}
	return discount, nil
}

func extractSighting(store models.Store, layout stores.Layout, item session.Element, discount int) (models.Sighting, error) {
	titleEl, err := item.Find(layout.Title)
	if err != nil {
		return models.Sighting{}, ErrExtract{Store: store, Field: "title", Err: err}
	}
	title, err := titleEl.Text()
	if err != nil {
		return models.Sighting{}, ErrExtract{Store: store, Field: "title", Err: err}
	}

	linkEl := titleEl
	if layout.Link != layout.Title {
		if linkEl, err = item.Find(layout.Link); err != nil {
			return models.Sighting{}, ErrExtract{Store: store, Field: "link", Err: err}
		}
	}
	link, ok, err := linkEl.Property("href")
	if err != nil {
		return models.Sighting{}, ErrExtract{Store: store, Field: "link", Err: err}
	}
	if !ok {
		return models.Sighting{}, ErrExtract{Store: store, Field: "link", Err: errors.New("href not set")}
	}

	priceEl, err := item.Find(layout.Price)
	if err != nil {
		return models.Sighting{}, ErrExtract{Store: store, Field: "price", Err: err}
	}
	priceText, err := priceEl.Text()
	if err != nil {
		return models.Sighting{}, ErrExtract{Store: store, Field: "price", Err: err}
	}
	price, err := parser.ParsePrice(priceText, layout.Format)
	if err != nil {
		return models.Sighting{}, ErrParse{Store: store, Field: "price", Err: err}
	}

	return models.Sighting{
		Title:  title,
		Store:  store,
		Record: models.StoreRecord{Price: price, Discount: discount, Link: link},
	}, nil
}
