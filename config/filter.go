package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-game-deals/models"
)

// FilterInput is the raw text a user typed for each filter field.
type FilterInput struct {
	PriceMin    string
	PriceMax    string
	MinDiscount string
	GenreIndex  string
}

// FilterFromInput parses raw answers. Blank, unparsable, negative or
// out-of-range answers silently keep the field's default.
func FilterFromInput(in FilterInput) models.Filter {
	f := models.Filter{
		PriceMin:    DefaultPriceMin,
		PriceMax:    DefaultPriceMax,
		MinDiscount: DefaultMinDiscount,
		Genre:       models.GenreFromIndex(DefaultGenreIndex),
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(in.PriceMin), 64); err == nil && validAmount(v) {
		f.PriceMin = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(in.PriceMax), 64); err == nil && validAmount(v) {
		f.PriceMax = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(in.MinDiscount)); err == nil && v >= 0 {
		f.MinDiscount = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(in.GenreIndex)); err == nil && v >= 0 && v < len(models.Genres()) {
		f.Genre = models.GenreFromIndex(v)
	}
	return f
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
