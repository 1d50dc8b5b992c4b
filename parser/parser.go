// Package parser turns listing text into numbers and checks export rows.
package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/stores"
)

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed text")

var discountDigits = regexp.MustCompile(`\d{1,2}`)

// ParseDiscount reads the leading one or two digit percentage of a badge
// such as "-50%" or "50% off". Only two digits are read, so "-100%" is 10.
func ParseDiscount(text string) (int, error) {
	match := discountDigits.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("discount %q: %w", text, ErrMalformed)
	}
	return strconv.Atoi(match)
}

// ParsePrice extracts the amount from price text using the store's currency placement.
func ParsePrice(text string, format stores.PriceFormat) (float64, error) {
	amount := NormalizePrice(text, format)
	if amount == "" {
		return 0, fmt.Errorf("price %q: %w", text, ErrMalformed)
	}
	price, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("price %q: %w", text, ErrMalformed)
	}
	return price, nil
}

// NormalizePrice removes the currency symbol and surrounding whitespace.
func NormalizePrice(text string, format stores.PriceFormat) string {
	text = strings.TrimSpace(text)
	if format == stores.PriceCurrencyPrefix {
		text = strings.TrimLeftFunc(text, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		})
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ValidateRecord ensures an export row is complete.
func ValidateRecord(r *models.GameRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if r.Name == "" {
		return fmt.Errorf("record missing name")
	}
	if r.G2APrice < 0 || r.KinguinPrice < 0 || r.CDKeysPrice < 0 {
		return fmt.Errorf("record has negative price for %s", r.Name)
	}
	if r.G2ALink == "" || r.KinguinLink == "" || r.CDKeysLink == "" {
		return fmt.Errorf("record missing link for %s", r.Name)
	}
	return nil
}
