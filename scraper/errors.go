package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/aluiziolira/go-game-deals/models"
)

// ErrSessionInit indicates the browser session could not be opened. It aborts the run.
type ErrSessionInit struct {
	Err error
}

func (e ErrSessionInit) Error() string {
	return fmt.Errorf("session init: %w", e.Err).Error()
}

func (e ErrSessionInit) Unwrap() error {
	return e.Err
}

// ErrNavigation indicates a listing page could not be loaded.
type ErrNavigation struct {
	Store models.Store
	URL   string
	Err   error
}

func (e ErrNavigation) Error() string {
	return fmt.Errorf("%s navigation to %s: %w", e.Store, e.URL, e.Err).Error()
}

func (e ErrNavigation) Unwrap() error {
	return e.Err
}

// ErrQuery indicates the item list of a page could not be queried.
type ErrQuery struct {
	Store    models.Store
	Selector string
	Err      error
}

func (e ErrQuery) Error() string {
	return fmt.Errorf("%s query %q: %w", e.Store, e.Selector, e.Err).Error()
}

func (e ErrQuery) Unwrap() error {
	return e.Err
}

// ErrExtract indicates a required field of an item was missing or unreadable.
type ErrExtract struct {
	Store models.Store
	Field string
	Err   error
}

func (e ErrExtract) Error() string {
	return fmt.Errorf("%s extract %s: %w", e.Store, e.Field, e.Err).Error()
}

func (e ErrExtract) Unwrap() error {
	return e.Err
}

// ErrParse indicates price or discount text was malformed.
type ErrParse struct {
	Store models.Store
	Field string
	Err   error
}

func (e ErrParse) Error() string {
	return fmt.Errorf("%s parse %s: %w", e.Store, e.Field, e.Err).Error()
}

func (e ErrParse) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	var sessionInit ErrSessionInit
	if errors.As(err, &sessionInit) {
		return "session_init"
	}
	var navigation ErrNavigation
	if errors.As(err, &navigation) {
		return "navigation"
	}
	var query ErrQuery
	if errors.As(err, &query) {
		return "query"
	}
	var parse ErrParse
	if errors.As(err, &parse) {
		return "parse"
	}
	var extract ErrExtract
	if errors.As(err, &extract) {
		return "extract"
	}
	return "other"
}
