package cart

import (
	"food-storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

// UnitPrice computes the per-unit price of item under the given selections.
//
// Items without customizations cost their base price. For customizable items
// the price is the sum of the selected option prices only; the base price is
// not added on top. Unselected categories and unknown option names add zero.
func UnitPrice(item catalog.MenuItem, selections Selections) decimal.Decimal {
	if !item.IsCustomizable() {
		return item.BasePrice
	}

	sum := decimal.Zero
	for _, category := range item.Customizable {
		name, ok := selections[category.Title]
		if !ok {
			continue
		}
		if opt, found := category.Option(name); found {
			sum = sum.Add(opt.Price)
		}
	}
	return sum
}

// LineTotal is unitPrice × quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// MissingRequired lists the titles of required categories that have no selection,
// in schema order.
func MissingRequired(item catalog.MenuItem, selections Selections) []string {
	var missing []string
	for _, category := range item.Customizable {
		if !category.Required {
			continue
		}
		if selections[category.Title] == "" {
			missing = append(missing, category.Title)
		}
	}
	return missing
}
