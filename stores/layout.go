package stores

import "github.com/aluiziolira/go-game-deals/models"

// PriceFormat describes where the currency sits around a price.
type PriceFormat int

const (
	// PriceLeadingToken prices read "19.99 PLN"; the first space-separated token is the amount.
	PriceLeadingToken PriceFormat = iota
	// PriceCurrencyPrefix prices read "£12.99"; the currency symbol precedes the amount.
	PriceCurrencyPrefix
)

// DefaultPages is how many listing pages are walked per store.
const DefaultPages = 3

// Layout holds the CSS selectors for a store's listing markup. Discount,
// Title, Link and Price are resolved relative to an Item element.
type Layout struct {
	Item     string
	Discount string
	Title    string
	Link     string
	Price    string
	Format   PriceFormat
}

var layouts = map[models.Store]Layout{
	models.G2A: {
		Item:     "section > div > ul > li > div.contents > div > div:nth-child(2) > div",
		Discount: "div.items-end > div:nth-child(1) > div:nth-child(2) > div > div",
		Title:    "div:nth-child(1) > a > h3",
		Link:     "div:nth-child(1) > a",
		Price:    "div.items-end > div:nth-child(1) > div:nth-child(1) > div",
		Format:   PriceLeadingToken,
	},
	models.Kinguin: {
		Item:     "div.row > div:nth-child(2) > div > div:nth-child(2) > div:nth-child(2) > div > div:nth-child(3)",
		Discount: "div:nth-child(3) > div > a",
		Title:    "div:nth-child(1) > h3 > a",
		Link:     "div:nth-child(1) > h3 > a",
		Price:    "span[itemprop='lowPrice']",
		Format:   PriceLeadingToken,
	},
	models.CDKeys: {
		Item:     "main div.product-item-info",
		Discount: "span.product-item-discount",
		Title:    "a.product-item-link",
		Link:     "a.product-item-link",
		Price:    "span.price",
		Format:   PriceCurrencyPrefix,
	},
}

// LayoutFor returns the selectors for store.
func LayoutFor(store models.Store) Layout {
	return layouts[store]
}
