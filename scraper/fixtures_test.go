package scraper

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/session"
	"github.com/aluiziolira/go-game-deals/stores"
)

// listing is one item as it appears on a store page. An empty discount
// leaves out the badge; an empty price leaves out the price element.
type listing struct {
	title    string
	discount string
	price    string
	link     string
}

func renderPage(store models.Store, items ...listing) string {
	var b strings.Builder
	switch store {
	case models.G2A:
		b.WriteString("<html><body><section><div><ul>")
		for _, it := range items {
			b.WriteString(`<li><div class="contents"><div><div class="thumb"></div><div><div class="card">`)
			fmt.Fprintf(&b, `<div><a href="%s"><h3>%s</h3></a></div>`, it.link, it.title)
			b.WriteString(`<div class="items-end"><div>`)
			if it.price != "" {
				fmt.Fprintf(&b, `<div><div>%s</div></div>`, it.price)
			} else {
				b.WriteString(`<div></div>`)
			}
			if it.discount != "" {
				fmt.Fprintf(&b, `<div><div><div>%s</div></div></div>`, it.discount)
			}
			b.WriteString(`</div></div></div></div></div></div></li>`)
		}
		b.WriteString("</ul></div></section></body></html>")
	case models.Kinguin:
		b.WriteString(`<html><body><div class="row"><div class="filters"></div><div><div><div class="header"></div><div><div class="sort"></div><div>`)
		for _, it := range items {
			b.WriteString(`<div><div class="image"></div><div class="badges"></div><div class="product">`)
			fmt.Fprintf(&b, `<div><h3><a href="%s">%s</a></h3></div>`, it.link, it.title)
			if it.price != "" {
				fmt.Fprintf(&b, `<div><span itemprop="lowPrice">%s</span></div>`, it.price)
			} else {
				b.WriteString(`<div></div>`)
			}
			if it.discount != "" {
				fmt.Fprintf(&b, `<div><div><a>%s</a></div></div>`, it.discount)
			} else {
				b.WriteString(`<div></div>`)
			}
			b.WriteString(`</div></div>`)
		}
		b.WriteString(`</div></div></div></div></div></body></html>`)
	case models.CDKeys:
		b.WriteString(`<html><body><main><ol class="products">`)
		for _, it := range items {
			b.WriteString(`<li><div class="product-item-info">`)
			fmt.Fprintf(&b, `<a class="product-item-link" href="%s">%s</a>`, it.link, it.title)
			if it.discount != "" {
				fmt.Fprintf(&b, `<span class="product-item-discount">%s</span>`, it.discount)
			}
			if it.price != "" {
				fmt.Fprintf(&b, `<span class="price">%s</span>`, it.price)
			}
			b.WriteString(`</div></li>`)
		}
		b.WriteString(`</ol></main></body></html>`)
	}
	return b.String()
}

// fixture serves pages[store][i] as page i+1 of that store's listing for filter.
func fixture(filter models.Filter, pages map[models.Store][][]listing) *session.Memory {
	mem := session.NewMemory(nil)
	for store, storePages := range pages {
		for i, items := range storePages {
			mem.Set(stores.BuildFilterURL(store, filter, i+1), renderPage(store, items...))
		}
	}
	return mem
}
