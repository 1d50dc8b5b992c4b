package session

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// StaticOptions configures a Static session.
type StaticOptions struct {
	UserAgent string
	Timeout   time.Duration
	CacheSize int
}

// Static fetches listing pages over HTTP and queries the markup as served.
// Content rendered by scripts is not visible to it. Parsed pages are kept in
// an LRU cache so navigating back to a URL does not refetch it.
type Static struct {
	collector *colly.Collector
	cache     *lru.Cache[string, *goquery.Document]
	current   document
}

// NewStatic builds a Static session.
func NewStatic(opts StaticOptions) (*Static, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = 16
	}
	cache, err := lru.New[string, *goquery.Document](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	collector := colly.NewCollector(
		colly.UserAgent(opts.UserAgent),
		colly.AllowURLRevisit(),
	)
	if opts.Timeout > 0 {
		collector.SetRequestTimeout(opts.Timeout)
	}
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Static{collector: collector, cache: cache}, nil
}

// OpenStatic returns an Opener creating Static sessions.
func OpenStatic(opts StaticOptions) Opener {
	return func(context.Context) (Session, error) {
		return NewStatic(opts)
	}
}

// WithTransport replaces the HTTP transport used for fetches.
func (s *Static) WithTransport(rt http.RoundTripper) {
	s.collector.WithTransport(rt)
}

func (s *Static) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc, ok := s.cache.Get(rawURL); ok {
		slog.Debug("page cache hit", slog.String("url", rawURL))
		s.current = document{doc: doc}
		return nil
	}

	var (
		doc      *goquery.Document
		parseErr error
	)
	c := s.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if doc != nil {
			doc.Url = r.Request.URL
		}
	})

	if err := c.Visit(rawURL); err != nil {
		return fmt.Errorf("visit %s: %w", rawURL, err)
	}
	if parseErr != nil {
		return fmt.Errorf("parse %s: %w", rawURL, parseErr)
	}
	if doc == nil {
		return fmt.Errorf("visit %s: no response", rawURL)
	}

	s.cache.Add(rawURL, doc)
	s.current = document{doc: doc}
	return nil
}

func (s *Static) FindAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.current.findAll(selector)
}

func (s *Static) Close() error {
	s.cache.Purge()
	s.current = document{}
	return nil
}
