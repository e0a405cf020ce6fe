package cart

import (
	"food-storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

// Selections maps a customization category title to the chosen option name.
type Selections map[string]string

// Equal reports whether both maps hold the same keys with the same values.
// A nil map equals an empty one.
func (s Selections) Equal(other Selections) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent, non-nil copy.
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Line is one cart entry: a specific item with a specific set of selections.
type Line struct {
	ItemID     int64
	Item       catalog.MenuItem
	Quantity   int
	Selections Selections
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

func (l Line) clone() Line {
	l.Item = l.Item.Clone()
	l.Selections = l.Selections.Clone()
	return l
}

// matches reports whether the line has the merge key (itemID, selections).
func (l Line) matches(itemID int64, selections Selections) bool {
	return l.ItemID == itemID && l.Selections.Equal(selections)
}

// Snapshot is a read-only copy of the cart at one point in time.
type Snapshot struct {
	Lines []Line
	Total decimal.Decimal
}

// IsEmpty reports whether the cart has no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Units is the total number of units across all lines.
func (s Snapshot) Units() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}
