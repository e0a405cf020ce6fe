package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"food-storefront/internal/cart"
	"food-storefront/internal/metrics/metrics_db"

	"go.uber.org/zap"
)

// OpCheckout marks a completed checkout in the activity log.
const OpCheckout = "checkout"

// CartActivity records one cart mutation or checkout.
type CartActivity struct {
	UserID    string
	Operation string
	ItemID    int64
	Quantity  int
	LineCount int
	Total     string
	Timestamp time.Time
}

// Store handles persistence of cart activity to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
	logger  *zap.Logger
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
		logger:  logger,
	}
}

// Record saves an activity row to the database.
func (s *Store) Record(ctx context.Context, a CartActivity) error {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return s.queries.InsertCartEvent(ctx, metricsdb.InsertCartEventParams{
		UserID:    a.UserID,
		Operation: a.Operation,
		ItemID:    a.ItemID,
		Quantity:  int64(a.Quantity),
		LineCount: int64(a.LineCount),
		Total:     a.Total,
		Timestamp: ts.UTC(),
	})
}

// Observe returns a cart observer that records every mutation for userID.
// Recording failures are logged and never reach the cart.
func (s *Store) Observe(userID string) func(cart.Event) {
	return func(ev cart.Event) {
		err := s.Record(context.Background(), CartActivity{
			UserID:    userID,
			Operation: string(ev.Op),
			ItemID:    ev.ItemID,
			Quantity:  ev.Quantity,
			LineCount: len(ev.Snapshot.Lines),
			Total:     ev.Snapshot.Total.String(),
		})
		if err != nil {
			s.logger.Warn("failed to record cart event",
				zap.String("user_id", userID),
				zap.String("operation", string(ev.Op)),
				zap.Error(err))
		}
	}
}

// RecordCheckout logs a checkout handoff.
func (s *Store) RecordCheckout(ctx context.Context, userID string, h cart.Handoff) error {
	units := 0
	for _, l := range h.Lines {
		units += l.Quantity
	}
	return s.Record(ctx, CartActivity{
		UserID:    userID,
		Operation: OpCheckout,
		Quantity:  units,
		LineCount: len(h.Lines),
		Total:     h.Total.String(),
		Timestamp: h.CreatedAt,
	})
}

// DailyActivity summarizes cart activity for a single day.
type DailyActivity struct {
	Date      string
	Adds      int
	Checkouts int
	Events    int
}

// GetDailyActivity retrieves activity for the last N days, newest first.
func (s *Store) GetDailyActivity(ctx context.Context, days int) ([]DailyActivity, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyActivity(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}

	var results []DailyActivity
	for _, r := range rows {
		a := DailyActivity{
			Events: int(r.Count),
		}

		if day, ok := r.Day.(string); ok {
			a.Date = day
		} else {
			a.Date = "Unknown"
		}

		if r.Adds.Valid {
			a.Adds = int(r.Adds.Float64)
		}
		if r.Checkouts.Valid {
			a.Checkouts = int(r.Checkouts.Float64)
		}

		results = append(results, a)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	n, err := s.queries.CleanupCartEvents(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up cart events: %w", err)
	}
	return n, nil
}
