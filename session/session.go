// Package session abstracts the rendered-page access the deal scraper needs.
//
// Three implementations are provided: Browser drives a real Chromium through
// the DevTools protocol, Static fetches pages over plain HTTP without running
// scripts, and Memory serves fixed HTML documents.
package session

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is wrapped when a queried element does not exist.
	ErrNotFound = errors.New("session: element not found")
	// ErrNoPage is returned when querying before a successful Navigate.
	ErrNoPage = errors.New("session: no page loaded")
)

// Session is a single page-navigation handle. Implementations are not safe
// for concurrent use.
type Session interface {
	Navigate(ctx context.Context, url string) error
	FindAll(ctx context.Context, selector string) ([]Element, error)
	Close() error
}

// Element is a node on the current page.
type Element interface {
	// Find returns the first descendant matching selector, or an error
	// wrapping ErrNotFound.
	Find(selector string) (Element, error)
	Text() (string, error)
	// Property reads a DOM property. The bool is false when it is unset.
	Property(name string) (string, bool, error)
}

// Opener creates the session for one scrape run.
type Opener func(ctx context.Context) (Session, error)
