package parser

import (
	"errors"
	"testing"

	"github.com/aluiziolira/go-game-deals/models"
	"github.com/aluiziolira/go-game-deals/stores"
)

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "suffix text", input: "50% off", expected: 50},
		{name: "minus sign", input: "-35%", expected: 35},
		{name: "single digit", input: "-5%", expected: 5},
		{name: "surrounding whitespace", input: "  -70 %  ", expected: 70},
		{name: "three digits keeps two", input: "-100%", expected: 10},
		{name: "free game badge reads as ten", input: "100% off", expected: 10},
		{name: "no digits", input: "SALE", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDiscount(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("ParseDiscount(%q) error = %v, want ErrMalformed", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDiscount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDiscount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		format   stores.PriceFormat
		expected float64
		wantErr  bool
	}{
		{name: "currency suffix", input: "19.99 PLN", format: stores.PriceLeadingToken, expected: 19.99},
		{name: "euro suffix", input: " 4.05 € ", format: stores.PriceLeadingToken, expected: 4.05},
		{name: "pound prefix", input: "£12.99", format: stores.PriceCurrencyPrefix, expected: 12.99},
		{name: "prefix with space", input: "£ 7.50", format: stores.PriceCurrencyPrefix, expected: 7.5},
		{name: "integer amount", input: "30 USD", format: stores.PriceLeadingToken, expected: 30},
		{name: "prefix used as token", input: "£12.99", format: stores.PriceLeadingToken, wantErr: true},
		{name: "not a number", input: "free", format: stores.PriceLeadingToken, wantErr: true},
		{name: "nan", input: "NaN PLN", format: stores.PriceLeadingToken, wantErr: true},
		{name: "infinity", input: "Inf €", format: stores.PriceLeadingToken, wantErr: true},
		{name: "negative", input: "-5.00 PLN", format: stores.PriceLeadingToken, wantErr: true},
		{name: "zero is free", input: "0.00 PLN", format: stores.PriceLeadingToken, expected: 0},
		{name: "empty string", input: "", format: stores.PriceCurrencyPrefix, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input, tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("ParsePrice(%q) error = %v, want ErrMalformed", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		format   stores.PriceFormat
		expected string
	}{
		{name: "with whitespace", input: "  10.50 PLN  ", format: stores.PriceLeadingToken, expected: "10.50"},
		{name: "already clean", input: "25.99", format: stores.PriceLeadingToken, expected: "25.99"},
		{name: "prefix and suffix", input: "£ 99.99 £", format: stores.PriceCurrencyPrefix, expected: "99.99"},
		{name: "empty string", input: "", format: stores.PriceCurrencyPrefix, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizePrice(tt.input, tt.format)
			if result != tt.expected {
				t.Errorf("NormalizePrice(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	valid := func() *models.GameRecord {
		return models.NewGameRecord("Test Game", &models.GameEntry{
			G2A: &models.StoreRecord{Price: 10, Discount: 40, Link: "https://www.g2a.com/test"},
		})
	}

	tests := []struct {
		name    string
		record  *models.GameRecord
		wantErr bool
	}{
		{name: "valid record", record: valid()},
		{name: "nil record", record: nil, wantErr: true},
		{
			name: "missing name",
			record: func() *models.GameRecord {
				r := valid()
				r.Name = ""
				return r
			}(),
			wantErr: true,
		},
		{
			name: "whitespace name is a title",
			record: func() *models.GameRecord {
				r := valid()
				r.Name = "  "
				return r
			}(),
		},
		{
			name: "negative price",
			record: func() *models.GameRecord {
				r := valid()
				r.CDKeysPrice = -1
				return r
			}(),
			wantErr: true,
		},
		{
			name: "empty link",
			record: func() *models.GameRecord {
				r := valid()
				r.KinguinLink = ""
				return r
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
