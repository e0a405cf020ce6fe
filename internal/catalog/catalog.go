package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CustomizationOption is one selectable value within a category, e.g. "Large" for "Size".
type CustomizationOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CustomizationCategory groups mutually exclusive options. Exactly one option
// may be selected per category.
type CustomizationCategory struct {
	Title    string                `json:"title"`
	Required bool                  `json:"required"`
	Options  []CustomizationOption `json:"options"`
}

// Option returns the option with the given name.
func (c CustomizationCategory) Option(name string) (CustomizationOption, bool) {
	for _, opt := range c.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return CustomizationOption{}, false
}

// MenuItem is an immutable catalog entry as supplied by the menu backend.
type MenuItem struct {
	ID           int64                   `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	BasePrice    decimal.Decimal         `json:"price"`
	ImageRef     string                  `json:"image"`
	Category     string                  `json:"category"`
	Customizable []CustomizationCategory `json:"customizable,omitempty"`
}

// IsCustomizable reports whether the item carries a customization schema.
func (m MenuItem) IsCustomizable() bool {
	return len(m.Customizable) > 0
}

// Clone returns a copy that shares no slices with m.
func (m MenuItem) Clone() MenuItem {
	if m.Customizable == nil {
		return m
	}
	cats := make([]CustomizationCategory, len(m.Customizable))
	for i, c := range m.Customizable {
		c.Options = append([]CustomizationOption(nil), c.Options...)
		cats[i] = c
	}
	m.Customizable = cats
	return m
}

// Customization returns the customization category with the given title.
func (m MenuItem) Customization(title string) (CustomizationCategory, bool) {
	for _, c := range m.Customizable {
		if c.Title == title {
			return c, true
		}
	}
	return CustomizationCategory{}, false
}

// UnmarshalJSON accepts the price either as a number or as a display label
// such as "Rs. 1,200", which is how the menu backend stores it.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type alias MenuItem
	aux := struct {
		*alias
		Price json.RawMessage `json:"price"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Price) == 0 || string(aux.Price) == "null" {
		m.BasePrice = decimal.Zero
		return nil
	}

	var label string
	if err := json.Unmarshal(aux.Price, &label); err == nil {
		price, err := ParsePrice(label)
		if err != nil {
			return fmt.Errorf("item %d: %w", m.ID, err)
		}
		m.BasePrice = price
		return nil
	}

	price, err := decimal.NewFromString(string(aux.Price))
	if err != nil {
		return fmt.Errorf("item %d: invalid price %s: %w", m.ID, aux.Price, err)
	}
	m.BasePrice = price
	return nil
}

// DecodeMenu decodes item documents one at a time so that a single malformed
// item does not hide the rest of the menu. Documents that fail to decode are
// reported to skip with their index and left out.
func DecodeMenu(docs []json.RawMessage, skip func(index int, err error)) Menu {
	menu := make(Menu, 0, len(docs))
	for i, doc := range docs {
		var item MenuItem
		if err := json.Unmarshal(doc, &item); err != nil {
			if skip != nil {
				skip(i, err)
			}
			continue
		}
		menu = append(menu, item)
	}
	return menu
}
