package customize

import (
	"errors"
	"fmt"

	"food-storefront/internal/cart"
	"food-storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCategory = errors.New("unknown customization category")
	ErrUnknownOption   = errors.New("unknown customization option")
)

// Draft is an item being configured before it goes into the cart. Required
// categories start on their first option and the quantity starts at one.
type Draft struct {
	item       catalog.MenuItem
	selections cart.Selections
	quantity   int
}

// NewDraft opens a draft for item with defaults applied.
func NewDraft(item catalog.MenuItem) *Draft {
	d := &Draft{
		item:       item,
		selections: make(cart.Selections),
		quantity:   1,
	}
	for _, c := range item.Customizable {
		if c.Required && len(c.Options) > 0 {
			d.selections[c.Title] = c.Options[0].Name
		}
	}
	return d
}

// Item returns the menu item being configured.
func (d *Draft) Item() catalog.MenuItem {
	return d.item
}

// Selections returns a copy of the current choices.
func (d *Draft) Selections() cart.Selections {
	return d.selections.Clone()
}

// Quantity returns the number of units that will be added.
func (d *Draft) Quantity() int {
	return d.quantity
}

// Select picks option name in the category titled title. Selecting the option
// that is already chosen in an optional category clears it.
func (d *Draft) Select(title, name string) error {
	category, ok := d.item.Customization(title)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, title)
	}
	if _, ok := category.Option(name); !ok {
		return fmt.Errorf("%w: %q in %q", ErrUnknownOption, name, title)
	}

	if !category.Required && d.selections[title] == name {
		delete(d.selections, title)
		return nil
	}
	d.selections[title] = name
	return nil
}

// SelectIndex is Select addressed by schema position.
func (d *Draft) SelectIndex(categoryIdx, optionIdx int) error {
	if categoryIdx < 0 || categoryIdx >= len(d.item.Customizable) {
		return fmt.Errorf("%w: index %d", ErrUnknownCategory, categoryIdx)
	}
	category := d.item.Customizable[categoryIdx]
	if optionIdx < 0 || optionIdx >= len(category.Options) {
		return fmt.Errorf("%w: index %d in %q", ErrUnknownOption, optionIdx, category.Title)
	}
	return d.Select(category.Title, category.Options[optionIdx].Name)
}

// Increment adds one unit.
func (d *Draft) Increment() {
	d.quantity++
}

// Decrement removes one unit but never goes below one.
func (d *Draft) Decrement() {
	if d.quantity > 1 {
		d.quantity--
	}
}

// UnitPrice is the price of one unit under the current selections.
func (d *Draft) UnitPrice() decimal.Decimal {
	return cart.UnitPrice(d.item, d.selections)
}

// Price is the unit price times the draft quantity.
func (d *Draft) Price() decimal.Decimal {
	return cart.LineTotal(d.UnitPrice(), d.quantity)
}

// Missing lists required categories that still need a choice.
func (d *Draft) Missing() []string {
	return cart.MissingRequired(d.item, d.selections)
}

// AddTo puts the draft into the cart. Missing required options are reported
// by the engine and leave the cart untouched.
func (d *Draft) AddTo(e *cart.Engine) error {
	if err := e.Add(d.item, d.selections, d.quantity); err != nil {
		return fmt.Errorf("failed to add %q to cart: %w", d.item.Name, err)
	}
	return nil
}

// State is the serializable form of a draft, used to keep it across chat
// messages.
type State struct {
	ItemID     int64             `json:"item_id"`
	Selections map[string]string `json:"selections"`
	Quantity   int               `json:"quantity"`
}

// State captures the draft for persistence.
func (d *Draft) State() State {
	return State{
		ItemID:     d.item.ID,
		Selections: d.selections.Clone(),
		Quantity:   d.quantity,
	}
}

// Restore rebuilds a draft for item from a saved state. Choices that no longer
// exist in the item's schema are dropped and defaults reapplied.
func Restore(item catalog.MenuItem, s State) *Draft {
	d := NewDraft(item)
	for title, name := range s.Selections {
		category, ok := item.Customization(title)
		if !ok {
			continue
		}
		if _, ok := category.Option(name); ok {
			d.selections[title] = name
		}
	}
	if s.Quantity > 1 {
		d.quantity = s.Quantity
	}
	return d
}
