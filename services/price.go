package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoPrice is returned when a text contains no price token.
var ErrNoPrice = errors.New("no price token found")

// priceTokenRegexp is the price grammar: "$", optional spaces, an amount with
// optional thousands separators and an optional fractional part.
// Group 1 is the amount as written on the page.
var priceTokenRegexp = regexp.MustCompile(`\$\s*((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?)`)

// PriceError reports which price field failed to parse and the text it came from.
type PriceError struct {
	Field string
	Text  string
	Err   error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("price: parse %s from %q: %v", e.Field, truncate(strings.TrimSpace(e.Text), 60), e.Err)
}

func (e *PriceError) Unwrap() error { return e.Err }

// ParseCurrentPrice extracts the sale price from a price element's text.
// When marker is non-empty and present, only the text after it is searched,
// so an earlier "was" price in the same element is ignored.
//
//	"ada.newPriceLabel $19.99"  → "19.99"
//	"$1,299.00"                 → "1,299.00"
func ParseCurrentPrice(text, marker string) (string, error) {
	search := text
	if marker != "" {
		if idx := strings.Index(text, marker); idx >= 0 {
			search = text[idx+len(marker):]
		}
	}
	amount, ok := firstToken(search)
	if !ok {
		return "", &PriceError{Field: "current_price", Text: text, Err: ErrNoPrice}
	}
	return amount, nil
}

// ParseOriginalPrice extracts the compare-at price from a price-comparison
// element's text, e.g. "Compare At $40.00 " → "40.00".
func ParseOriginalPrice(text string) (string, error) {
	amount, ok := firstToken(text)
	if !ok {
		return "", &PriceError{Field: "original_price", Text: text, Err: ErrNoPrice}
	}
	return amount, nil
}

// Amount converts a trimmed price string ("1,299.00", "$5") to a number.
func Amount(price string) (float64, error) {
	cleaned := strings.TrimSpace(price)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("price: empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("price: amount %q: %w", price, err)
	}
	return v, nil
}

func firstToken(text string) (string, bool) {
	m := priceTokenRegexp.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
