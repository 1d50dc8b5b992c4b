package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Memory serves fixed HTML documents keyed by exact URL. Links are returned
// as written in the markup.
type Memory struct {
	pages   map[string]string
	current document
	visited []string
	closed  bool
}

// NewMemory builds a session over pages.
func NewMemory(pages map[string]string) *Memory {
	copied := make(map[string]string, len(pages))
	for k, v := range pages {
		copied[k] = v
	}
	return &Memory{pages: copied}
}

// Set adds or replaces the document served for rawURL.
func (m *Memory) Set(rawURL, html string) {
	m.pages[rawURL] = html
}

func (m *Memory) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.closed {
		return fmt.Errorf("navigate %s: session closed", rawURL)
	}
	m.visited = append(m.visited, rawURL)
	html, ok := m.pages[rawURL]
	if !ok {
		return fmt.Errorf("navigate %s: no document", rawURL)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}
	m.current = document{doc: doc}
	return nil
}

func (m *Memory) FindAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.current.findAll(selector)
}

// Visited lists every URL passed to Navigate, in order.
func (m *Memory) Visited() []string {
	out := make([]string, len(m.visited))
	copy(out, m.visited)
	return out
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	return m.closed
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}
