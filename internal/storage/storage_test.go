package storage

import (
	"os"
	"path/filepath"
	"testing"

	"food-storefront/internal/catalog"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestMenuFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "menu-items.json")

	file, err := NewMenuFile(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create MenuFile: %v", err)
	}

	menu := catalog.Menu{
		{ID: 1, Name: "Fries", BasePrice: decimal.NewFromInt(300), Category: "Sides"},
		{
			ID: 2, Name: "Fajita Pizza", BasePrice: decimal.NewFromInt(999), Category: "Pizza",
			Customizable: []catalog.CustomizationCategory{
				{Title: "Size", Required: true, Options: []catalog.CustomizationOption{
					{Name: "Large", Price: decimal.NewFromInt(500)},
				}},
			},
		},
	}

	t.Run("CheckExists-False", func(t *testing.T) {
		if file.Exists() {
			t.Errorf("Expected '%s' to not exist, but it does", path)
		}
	})

	t.Run("Save", func(t *testing.T) {
		if err := file.Save(menu); err != nil {
			t.Fatalf("Failed to save menu: %v", err)
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Error("Expected temporary file to be gone after save")
		}
	})

	t.Run("CheckExists-True", func(t *testing.T) {
		if !file.Exists() {
			t.Errorf("Expected '%s' to exist, but it doesn't", path)
		}
	})

	t.Run("Load", func(t *testing.T) {
		loaded, err := file.Load()
		if err != nil {
			t.Fatalf("Failed to load menu: %v", err)
		}
		if len(loaded) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(loaded))
		}
		if loaded[1].Name != "Fajita Pizza" || !loaded[1].IsCustomizable() {
			t.Errorf("Item 2 did not round-trip: %+v", loaded[1])
		}
		if !loaded[0].BasePrice.Equal(decimal.NewFromInt(300)) {
			t.Errorf("Expected price 300, got %s", loaded[0].BasePrice)
		}
	})

	t.Run("LoadBackendLabels", func(t *testing.T) {
		raw := `[{"id": 9, "name": "Zinger", "price": "Rs. 1,050", "category": "Burgers"}]`
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		loaded, err := file.Load()
		if err != nil {
			t.Fatalf("Failed to load menu: %v", err)
		}
		if !loaded[0].BasePrice.Equal(decimal.NewFromInt(1050)) {
			t.Errorf("Expected price 1050, got %s", loaded[0].BasePrice)
		}
	})

	t.Run("LoadSkipsBadItems", func(t *testing.T) {
		raw := `[
			{"id": 1, "name": "Fries", "price": "Rs. 450", "category": "Sides"},
			{"id": 2, "name": "Chef Special", "price": "Rs. TBD", "category": "Specials"}
		]`
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		loaded, err := file.Load()
		if err != nil {
			t.Fatalf("Failed to load menu: %v", err)
		}
		if len(loaded) != 1 || loaded[0].ID != 1 {
			t.Errorf("Expected only item 1, got %+v", loaded)
		}
	})

	t.Run("LoadNotAnArray", func(t *testing.T) {
		if err := os.WriteFile(path, []byte(`{"id": 1}`), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		if _, err := file.Load(); err == nil {
			t.Error("Expected an error for a file that is not a list of items")
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		missing, _ := NewMenuFile(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
		if _, err := missing.Load(); err == nil {
			t.Error("Expected an error loading a missing file")
		}
	})
}
