// Package models defines data structures for the deal scraper.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Genre is one of the game genres every storefront can filter by.
type Genre int

const (
	Action Genre = iota
	Adventure
	Rpg
	Strategy
	Horror
	Puzzle
	Casual
)

var genreNames = [...]string{"Action", "Adventure", "Rpg", "Strategy", "Horror", "Puzzle", "Casual"}

// Genres returns every supported genre in index order.
func Genres() []Genre {
	return []Genre{Action, Adventure, Rpg, Strategy, Horror, Puzzle, Casual}
}

// GenreFromIndex maps a prompt index to a genre, falling back to Action.
func GenreFromIndex(index int) Genre {
	if index < 0 || index >= len(genreNames) {
		return Action
	}
	return Genre(index)
}

// ParseGenre resolves a genre by name (case-insensitive).
func ParseGenre(name string) (Genre, error) {
	name = strings.TrimSpace(name)
	for i, candidate := range genreNames {
		if strings.EqualFold(candidate, name) {
			return Genre(i), nil
		}
	}
	return Action, fmt.Errorf("unknown genre %q", name)
}

func (g Genre) String() string {
	if g < 0 || int(g) >= len(genreNames) {
		return fmt.Sprintf("Genre(%d)", int(g))
	}
	return genreNames[g]
}

// MarshalText encodes the genre by name.
func (g Genre) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText accepts a genre name or its prompt index.
func (g *Genre) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if idx, err := strconv.Atoi(value); err == nil {
		if idx < 0 || idx >= len(genreNames) {
			return fmt.Errorf("genre index %d out of range", idx)
		}
		*g = Genre(idx)
		return nil
	}
	parsed, err := ParseGenre(value)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Store identifies one of the supported storefronts.
type Store int

const (
	G2A Store = iota
	Kinguin
	CDKeys
)

// AllStores returns the storefronts in scrape order.
func AllStores() []Store {
	return []Store{G2A, Kinguin, CDKeys}
}

// ParseStore resolves a store by its lowercase name.
func ParseStore(name string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "g2a":
		return G2A, nil
	case "kinguin":
		return Kinguin, nil
	case "cdkeys":
		return CDKeys, nil
	}
	return G2A, fmt.Errorf("unknown store %q", name)
}

func (s Store) String() string {
	switch s {
	case G2A:
		return "g2a"
	case Kinguin:
		return "kinguin"
	case CDKeys:
		return "cdkeys"
	}
	return fmt.Sprintf("Store(%d)", int(s))
}

// Filter narrows what a scrape keeps. Prices are in PLN.
type Filter struct {
	PriceMin    float64 `yaml:"price_min" json:"price_min"`
	PriceMax    float64 `yaml:"price_max" json:"price_max"`
	MinDiscount int     `yaml:"min_discount" json:"min_discount"`
	Genre       Genre   `yaml:"genre" json:"genre"`
}

// StoreRecord is one store's offer for a game. Price is in the store's own currency.
type StoreRecord struct {
	Price    float64 `json:"price"`
	Discount int     `json:"discount"`
	Link     string  `json:"link"`
}

// Sighting is a record observed on a listing page, not yet merged.
type Sighting struct {
	Title  string
	Store  Store
	Record StoreRecord
}

// StoreResult summarises one store pass.
type StoreResult struct {
	Store        Store
	Pages        int
	ItemsSeen    int
	ItemsKept    int
	ItemsSkipped int
	Err          error
}

// ScrapeResult holds the overall result of a scraping run.
type ScrapeResult struct {
	StartTime time.Time
	EndTime   time.Time
	Games     int
	Stores    []StoreResult
}

// Failed reports how many store passes aborted.
func (r *ScrapeResult) Failed() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range r.Stores {
		if s.Err != nil {
			n++
		}
	}
	return n
}
