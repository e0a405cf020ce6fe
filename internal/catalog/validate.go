package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCategory = errors.New("duplicate customization category")
	ErrEmptyOptions      = errors.New("customization category has no options")
	ErrDuplicateItemID   = errors.New("duplicate menu item id")
	ErrMissingName       = errors.New("menu item has no name")
)

// Validate checks the customization schema of a single item: category titles
// must be unique and every category needs at least one option, so a required
// category always has a default selection. All problems are reported together.
func Validate(item MenuItem) error {
	var errs []error

	if item.Name == "" {
		errs = append(errs, fmt.Errorf("item %d: %w", item.ID, ErrMissingName))
	}

	seen := make(map[string]struct{}, len(item.Customizable))
	for _, c := range item.Customizable {
		if _, dup := seen[c.Title]; dup {
			errs = append(errs, fmt.Errorf("item %d: %w: %q", item.ID, ErrDuplicateCategory, c.Title))
		}
		seen[c.Title] = struct{}{}

		if len(c.Options) == 0 {
			errs = append(errs, fmt.Errorf("item %d: %w: %q", item.ID, ErrEmptyOptions, c.Title))
		}
	}

	return errors.Join(errs...)
}

// FilterValid returns the items that pass Validate, keeping the first item
// for each id. Rejected items are reported to skip with the reason.
func FilterValid(items []MenuItem, skip func(MenuItem, error)) Menu {
	valid := make(Menu, 0, len(items))
	ids := make(map[int64]struct{}, len(items))
	for _, item := range items {
		err := Validate(item)
		if _, dup := ids[item.ID]; dup {
			err = fmt.Errorf("%w: %d", ErrDuplicateItemID, item.ID)
		}
		if err != nil {
			if skip != nil {
				skip(item, err)
			}
			continue
		}
		ids[item.ID] = struct{}{}
		valid = append(valid, item)
	}
	return valid
}
