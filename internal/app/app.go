package app

import (
	"context"
	"errors"
	"fmt"

	"food-storefront/internal/catalog"
	"food-storefront/internal/metrics"
	"food-storefront/internal/storage"
	"food-storefront/internal/supabase"

	"go.uber.org/zap"
)

// App holds the application's dependencies.
type App struct {
	menuSource   supabase.Client
	menuRepo     *catalog.Repository
	menuFile     *storage.MenuFile
	metricsStore *metrics.Store
	carts        *Carts
	submitter    OrderSubmitter
	logger       *zap.Logger
}

// NewApp creates and initializes a new App instance.
func NewApp(
	menuSource supabase.Client,
	menuRepo *catalog.Repository,
	menuFile *storage.MenuFile,
	metricsStore *metrics.Store,
	submitter OrderSubmitter,
	logger *zap.Logger,
) *App {
	return &App{
		menuSource:   menuSource,
		menuRepo:     menuRepo,
		menuFile:     menuFile,
		metricsStore: metricsStore,
		carts:        NewCarts(metricsStore),
		submitter:    submitter,
		logger:       logger,
	}
}

// Carts returns the per-user cart registry.
func (a *App) Carts() *Carts {
	return a.carts
}

// Menu returns the cached menu in display order.
func (a *App) Menu(ctx context.Context) (catalog.Menu, error) {
	return a.menuRepo.List(ctx)
}

// Item returns one cached menu item. ok is false when the item is not on the menu.
func (a *App) Item(ctx context.Context, id int64) (item catalog.MenuItem, ok bool, err error) {
	found, err := a.menuRepo.Get(ctx, id)
	if err != nil || found == nil {
		return catalog.MenuItem{}, false, err
	}
	return *found, true, nil
}

// ListMenu returns the cached menu, or one category of it when category is set.
func (a *App) ListMenu(ctx context.Context, category string) (catalog.Menu, error) {
	if category == "" {
		return a.menuRepo.List(ctx)
	}
	return a.menuRepo.ListByCategory(ctx, category)
}

// SyncMenu fetches the menu from the backend, replaces the local cache with
// the valid items and mirrors the result into the menu file. It returns the
// number of items stored.
func (a *App) SyncMenu(ctx context.Context) (int, error) {
	a.logger.Info("fetching menu from backend")

	menu, err := a.menuSource.FetchMenuItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch menu from backend: %w", err)
	}
	a.logger.Info("fetched menu items", zap.Int("count", len(menu)))

	n, err := a.replaceMenu(ctx, menu)
	if err != nil {
		return 0, err
	}

	if a.menuFile != nil {
		stored, err := a.menuRepo.List(ctx)
		if err != nil {
			return n, fmt.Errorf("failed to reload menu for export: %w", err)
		}
		if err := a.menuFile.Save(stored); err != nil {
			a.logger.Warn("failed to mirror menu into file", zap.String("path", a.menuFile.Path()), zap.Error(err))
		}
	}
	return n, nil
}

// ImportMenuFile replaces the local cache with the contents of the menu file.
func (a *App) ImportMenuFile(ctx context.Context) (int, error) {
	if a.menuFile == nil || !a.menuFile.Exists() {
		return 0, errors.New("menu file not found")
	}

	menu, err := a.menuFile.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load menu file: %w", err)
	}
	a.logger.Info("loaded menu file", zap.String("path", a.menuFile.Path()), zap.Int("count", len(menu)))

	return a.replaceMenu(ctx, menu)
}

// ExportMenuFile writes the local cache into the menu file.
func (a *App) ExportMenuFile(ctx context.Context) (int, error) {
	if a.menuFile == nil {
		return 0, errors.New("no menu file configured")
	}

	menu, err := a.menuRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list menu: %w", err)
	}
	if err := a.menuFile.Save(menu); err != nil {
		return 0, fmt.Errorf("failed to save menu file: %w", err)
	}
	a.logger.Info("exported menu", zap.String("path", a.menuFile.Path()), zap.Int("count", len(menu)))
	return len(menu), nil
}

// replaceMenu stores the valid subset of menu. Items with a broken
// customization schema or a repeated id are skipped with a warning.
func (a *App) replaceMenu(ctx context.Context, menu catalog.Menu) (int, error) {
	valid := catalog.FilterValid(menu, func(item catalog.MenuItem, err error) {
		a.logger.Warn("skipping menu item", zap.Int64("id", item.ID), zap.String("name", item.Name), zap.Error(err))
	})

	if err := a.menuRepo.ReplaceAll(ctx, valid); err != nil {
		return 0, fmt.Errorf("failed to store menu: %w", err)
	}
	a.logger.Info("menu stored", zap.Int("stored", len(valid)), zap.Int("skipped", len(menu)-len(valid)))
	return len(valid), nil
}

// CleanupMetrics removes cart activity older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	if a.metricsStore == nil {
		return 0, errors.New("metrics store not configured")
	}
	return a.metricsStore.Cleanup(ctx, days)
}
