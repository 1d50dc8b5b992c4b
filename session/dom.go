package session

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// document is the parsed current page shared by the goquery-backed sessions.
type document struct {
	doc *goquery.Document
}

func (d *document) findAll(selector string) ([]Element, error) {
	if d.doc == nil {
		return nil, ErrNoPage
	}
	var out []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, domElement{sel: s, base: d.doc.Url})
	})
	return out, nil
}

type domElement struct {
	sel  *goquery.Selection
	base *url.URL
}

func (e domElement) Find(selector string) (Element, error) {
	found := e.sel.Find(selector)
	if found.Length() == 0 {
		return nil, fmt.Errorf("%q: %w", selector, ErrNotFound)
	}
	return domElement{sel: found.First(), base: e.base}, nil
}

func (e domElement) Text() (string, error) {
	return e.sel.Text(), nil
}

// Property mirrors the browser: href and src resolve against the page URL.
func (e domElement) Property(name string) (string, bool, error) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return "", false, nil
	}
	switch strings.ToLower(name) {
	case "href", "src":
		if e.base == nil {
			return value, true, nil
		}
		ref, err := url.Parse(strings.TrimSpace(value))
		if err != nil {
			return "", false, fmt.Errorf("property %s: %w", name, err)
		}
		return e.base.ResolveReference(ref).String(), true, nil
	}
	return value, true, nil
}
