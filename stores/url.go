package stores

import (
	"math"
	"net/url"
	"strconv"

	"github.com/aluiziolira/go-game-deals/models"
)

// Fixed PLN exchange rates used to express the price filter in each store's currency.
const (
	PLNToUSD = 0.27
	PLNToEUR = 0.23
	PLNToGBP = 0.20
)

const (
	g2aBase     = "https://www.g2a.com/category/"
	kinguinBase = "https://www.kinguin.net/steam-games"
	cdkeysBase  = "https://www.cdkeys.com/pc/games"
)

// BuildURL returns the listing URL for a 1-based page of store results.
func BuildURL(store models.Store, priceMin, priceMax float64, genre models.Genre, page int) string {
	switch store {
	case models.Kinguin:
		return kinguinURL(priceMin, priceMax, genre, page)
	case models.CDKeys:
		return cdkeysURL(priceMin, priceMax, genre, page)
	default:
		return g2aURL(priceMin, priceMax, genre, page)
	}
}

// BuildFilterURL is BuildURL with the bounds and genre taken from f.
func BuildFilterURL(store models.Store, f models.Filter, page int) string {
	return BuildURL(store, f.PriceMin, f.PriceMax, f.Genre, page)
}

func g2aURL(priceMin, priceMax float64, genre models.Genre, page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("price[max]", formatAmount(toCents(priceMax*PLNToUSD)/100))
	q.Set("price[min]", formatAmount(toCents(priceMin*PLNToUSD)/100))
	return g2aBase + CodeFor(models.G2A, genre) + "?" + q.Encode()
}

// Kinguin takes prices in euro cents and numbers pages from 0.
func kinguinURL(priceMin, priceMax float64, genre models.Genre, page int) string {
	q := url.Values{}
	q.Set("platforms", "2")
	q.Set("genres", CodeFor(models.Kinguin, genre))
	q.Set("active", "1")
	q.Set("hideUnavailable", "0")
	q.Set("type", "kinguin")
	q.Set("priceFrom", formatAmount(toCents(priceMin*PLNToEUR)))
	q.Set("priceTo", formatAmount(toCents(priceMax*PLNToEUR)))
	q.Set("phrase", "")
	q.Set("page", strconv.Itoa(page-1))
	q.Set("size", "50")
	q.Set("sort", "bestseller.score,DESC")
	return kinguinBase + "?" + q.Encode()
}

func cdkeysURL(priceMin, priceMax float64, genre models.Genre, page int) string {
	q := url.Values{}
	q.Set("genres", CodeFor(models.CDKeys, genre))
	q.Set("p", strconv.Itoa(page))
	q.Set("price", formatAmount(toCents(priceMin*PLNToGBP)/100)+"-"+formatAmount(toCents(priceMax*PLNToGBP)/100))
	return cdkeysBase + "?" + q.Encode()
}

func toCents(amount float64) float64 {
	return math.Round(amount * 100)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
