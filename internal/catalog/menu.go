package catalog

import "strings"

// Menu is the ordered catalog as shown on the menu screen.
type Menu []MenuItem

// Categories returns the distinct item categories in first-seen order.
func (m Menu) Categories() []string {
	var cats []string
	seen := make(map[string]struct{})
	for _, item := range m {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		cats = append(cats, item.Category)
	}
	return cats
}

// ByCategory returns the items of one category, preserving menu order.
func (m Menu) ByCategory(category string) Menu {
	var out Menu
	for _, item := range m {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Find looks an item up by id.
func (m Menu) Find(id int64) (MenuItem, bool) {
	for _, item := range m {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Search matches the query case-insensitively against name and description.
// A blank query yields no results.
func (m Menu) Search(query string) Menu {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out Menu
	for _, item := range m {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Description), q) {
			out = append(out, item)
		}
	}
	return out
}
