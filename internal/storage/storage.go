package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"food-storefront/internal/catalog"

	"go.uber.org/zap"
)

// MenuFile is a JSON file holding a full menu, in the same item shape the
// menu backend serves. It is used for offline import and export.
type MenuFile struct {
	path   string
	logger *zap.Logger
}

// NewMenuFile creates a MenuFile and ensures its directory exists.
func NewMenuFile(path string, logger *zap.Logger) (*MenuFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory for %s: %w", path, err)
	}
	return &MenuFile{path: path, logger: logger}, nil
}

// Path returns the file location.
func (f *MenuFile) Path() string {
	return f.path
}

// Save writes the menu. The previous file is replaced only once the new one
// is fully written.
func (f *MenuFile) Save(menu catalog.Menu) error {
	data, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write menu file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace menu file: %w", err)
	}
	return nil
}

// Load reads the menu back. Items that cannot be decoded are skipped with a
// warning; only a file that is not a JSON array is an error.
func (f *MenuFile) Load() (catalog.Menu, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu: %w", err)
	}
	return catalog.DecodeMenu(docs, func(i int, err error) {
		f.logger.Warn("skipping undecodable menu item", zap.String("path", f.path), zap.Int("index", i), zap.Error(err))
	}), nil
}

// Exists checks if the menu file is present.
func (f *MenuFile) Exists() bool {
	_, err := os.Stat(f.path)
	return !os.IsNotExist(err)
}
