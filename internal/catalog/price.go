package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultPriceLabel is the currency prefix the menu backend uses.
const DefaultPriceLabel = "Rs."

// ParsePrice turns a display price like "Rs. 1,200" or "from Rs. 450.50" into
// a decimal. Anything before the first digit is treated as a label.
func ParsePrice(label string) (decimal.Decimal, error) {
	s := strings.TrimSpace(label)
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("invalid price %q: no digits", label)
	}

	number := strings.ReplaceAll(s[start:], ",", "")
	number = strings.TrimSpace(number)

	price, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", label, err)
	}
	return price, nil
}

// FormatPrice renders a price the way the storefront displays it, e.g. "Rs. 1200.00".
func FormatPrice(label string, price decimal.Decimal) string {
	if label == "" {
		return price.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", label, price.StringFixed(2))
}
