package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"Rs. 1,200", "1200", false},
		{"Rs. 450.50", "450.5", false},
		{"999", "999", false},
		{"  Rs.  2,500,000 ", "2500000", false},
		{"", "0", false},
		{"Rs.", "", true},
		{"Rs. 12.3.4", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error for %q, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice("Rs.", decimal.NewFromInt(1300)); got != "Rs. 1300.00" {
		t.Errorf("Expected 'Rs. 1300.00', got %q", got)
	}
	if got := FormatPrice("", decimal.RequireFromString("12.5")); got != "12.50" {
		t.Errorf("Expected '12.50', got %q", got)
	}
}

func TestMenuItemUnmarshal(t *testing.T) {
	t.Run("LabelPrice", func(t *testing.T) {
		raw := `{
			"id": 7,
			"name": "Fajita Pizza",
			"description": "Chicken fajita with onions",
			"price": "Rs. 1,200",
			"image": "fajita.png",
			"category": "Special Pizza",
			"customizable": [
				{"title": "Size", "required": true, "options": [
					{"name": "Small", "price": 300},
					{"name": "Large", "price": 500}
				]}
			]
		}`
		var item MenuItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if item.ID != 7 || item.Name != "Fajita Pizza" || item.Category != "Special Pizza" {
			t.Errorf("Unexpected item fields: %+v", item)
		}
		if !item.BasePrice.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("Expected base price 1200, got %s", item.BasePrice)
		}
		if !item.IsCustomizable() {
			t.Fatal("Expected item to be customizable")
		}
		size, ok := item.Customization("Size")
		if !ok || !size.Required {
			t.Fatalf("Expected required Size category, got %+v", size)
		}
		large, ok := size.Option("Large")
		if !ok || !large.Price.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected Large at 500, got %+v", large)
		}
		if _, ok := size.Option("Medium"); ok {
			t.Error("Expected Medium to be absent")
		}
	})

	t.Run("NumericAndMissingPrice", func(t *testing.T) {
		var numeric, missing MenuItem
		if err := json.Unmarshal([]byte(`{"id": 1, "name": "Fries", "price": 500}`), &numeric); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !numeric.BasePrice.Equal(decimal.NewFromInt(500)) {
			t.Errorf("Expected 500, got %s", numeric.BasePrice)
		}
		if err := json.Unmarshal([]byte(`{"id": 2, "name": "Water"}`), &missing); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !missing.BasePrice.IsZero() || missing.IsCustomizable() {
			t.Errorf("Expected zero price and no customizations, got %+v", missing)
		}
	})

	t.Run("BadPrice", func(t *testing.T) {
		var item MenuItem
		if err := json.Unmarshal([]byte(`{"id": 3, "price": "free"}`), &item); err == nil {
			t.Error("Expected an error for a price without digits")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		in := MenuItem{ID: 4, Name: "Coke", BasePrice: decimal.RequireFromString("120.50"), Category: "Drinks"}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var out MenuItem
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !out.BasePrice.Equal(in.BasePrice) || out.Name != in.Name {
			t.Errorf("Expected %+v, got %+v", in, out)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := MenuItem{
		ID:   1,
		Name: "Pizza",
		Customizable: []CustomizationCategory{
			{Title: "Size", Required: true, Options: []CustomizationOption{{Name: "Small"}}},
		},
	}
	if err := Validate(valid); err != nil {
		t.Errorf("Expected valid item, got %v", err)
	}

	broken := MenuItem{
		ID: 2,
		Customizable: []CustomizationCategory{
			{Title: "Size", Options: []CustomizationOption{{Name: "Small"}}},
			{Title: "Size"},
		},
	}
	err := Validate(broken)
	for _, want := range []error{ErrMissingName, ErrDuplicateCategory, ErrEmptyOptions} {
		if !errors.Is(err, want) {
			t.Errorf("Expected error to include %v, got %v", want, err)
		}
	}

}

func TestFilterValid(t *testing.T) {
	pizza := MenuItem{ID: 1, Name: "Pizza"}
	nameless := MenuItem{ID: 2}
	again := MenuItem{ID: 1, Name: "Pizza Again"}
	fries := MenuItem{ID: 3, Name: "Fries"}

	var skipped []error
	got := FilterValid([]MenuItem{pizza, nameless, again, fries}, func(_ MenuItem, err error) {
		skipped = append(skipped, err)
	})

	if len(got) != 2 || got[0].Name != "Pizza" || got[1].Name != "Fries" {
		t.Errorf("Expected [Pizza Fries], got %+v", got)
	}
	if len(skipped) != 2 {
		t.Fatalf("Expected 2 skipped items, got %d", len(skipped))
	}
	if !errors.Is(skipped[0], ErrMissingName) {
		t.Errorf("Expected ErrMissingName, got %v", skipped[0])
	}
	if !errors.Is(skipped[1], ErrDuplicateItemID) {
		t.Errorf("Expected ErrDuplicateItemID, got %v", skipped[1])
	}
}

func TestDecodeMenu(t *testing.T) {
	docs := []json.RawMessage{
		json.RawMessage(`{"id": 1, "name": "Fries", "price": "Rs. 450", "category": "Sides"}`),
		json.RawMessage(`{"id": 2, "name": "Special", "price": "Rs. TBD", "category": "Sides"}`),
		json.RawMessage(`{"id": 3, "name": "Naan", "price": 120, "category": "Bread"}`),
	}

	var skippedIdx []int
	menu := DecodeMenu(docs, func(i int, err error) {
		if err == nil {
			t.Error("Expected a decode error for a skipped item")
		}
		skippedIdx = append(skippedIdx, i)
	})

	if len(menu) != 2 || menu[0].ID != 1 || menu[1].ID != 3 {
		t.Errorf("Expected items [1 3], got %+v", menu)
	}
	if len(skippedIdx) != 1 || skippedIdx[0] != 1 {
		t.Errorf("Expected index 1 to be skipped, got %v", skippedIdx)
	}
}

func TestMenuItemClone(t *testing.T) {
	item := MenuItem{ID: 1, Name: "Pizza", Customizable: []CustomizationCategory{
		{Title: "Size", Options: []CustomizationOption{{Name: "Small", Price: decimal.NewFromInt(300)}}},
	}}

	c := item.Clone()
	c.Customizable[0].Title = "Crust"
	c.Customizable[0].Options[0].Price = decimal.NewFromInt(1)

	if item.Customizable[0].Title != "Size" {
		t.Errorf("Expected title Size, got %q", item.Customizable[0].Title)
	}
	if !item.Customizable[0].Options[0].Price.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected price 300, got %s", item.Customizable[0].Options[0].Price)
	}
}

func TestMenu(t *testing.T) {
	menu := Menu{
		{ID: 1, Name: "Fajita Pizza", Description: "Chicken fajita", Category: "Pizza"},
		{ID: 2, Name: "Fries", Description: "Crispy", Category: "Sides"},
		{ID: 3, Name: "Tikka Pizza", Description: "Spicy CHICKEN tikka", Category: "Pizza"},
	}

	cats := menu.Categories()
	if len(cats) != 2 || cats[0] != "Pizza" || cats[1] != "Sides" {
		t.Errorf("Expected [Pizza Sides], got %v", cats)
	}

	if got := menu.ByCategory("Pizza"); len(got) != 2 || got[1].ID != 3 {
		t.Errorf("Expected pizzas 1 and 3, got %+v", got)
	}

	if item, ok := menu.Find(2); !ok || item.Name != "Fries" {
		t.Errorf("Expected to find Fries, got %+v", item)
	}
	if _, ok := menu.Find(99); ok {
		t.Error("Expected item 99 to be missing")
	}

	t.Run("Search", func(t *testing.T) {
		tests := []struct {
			query string
			want  int
		}{
			{"chicken", 2},
			{"  PIZZA ", 2},
			{"crisp", 1},
			{"burger", 0},
			{"   ", 0},
		}
		for _, tt := range tests {
			if got := menu.Search(tt.query); len(got) != tt.want {
				t.Errorf("Search(%q): expected %d results, got %d", tt.query, tt.want, len(got))
			}
		}
	})
}
