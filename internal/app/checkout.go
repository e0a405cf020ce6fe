package app

import (
	"context"
	"fmt"

	"food-storefront/internal/cart"

	"go.uber.org/zap"
)

// OrderSubmitter receives a finished cart. Payment and delivery live behind it.
type OrderSubmitter interface {
	Submit(ctx context.Context, userID string, h cart.Handoff) error
}

// LogSubmitter accepts every order and writes it to the log.
type LogSubmitter struct {
	logger *zap.Logger
}

// NewLogSubmitter creates a LogSubmitter.
func NewLogSubmitter(logger *zap.Logger) *LogSubmitter {
	return &LogSubmitter{logger: logger}
}

// Submit logs the order lines and total.
func (s *LogSubmitter) Submit(_ context.Context, userID string, h cart.Handoff) error {
	for _, l := range h.Lines {
		s.logger.Info("order line",
			zap.String("reference", h.Reference.String()),
			zap.Int64("item_id", l.ItemID),
			zap.String("item", l.Item.Name),
			zap.Any("selections", l.Selections),
			zap.Int("quantity", l.Quantity),
			zap.String("line_total", l.LineTotal.String()))
	}
	s.logger.Info("order submitted",
		zap.String("reference", h.Reference.String()),
		zap.String("user_id", userID),
		zap.Int("lines", len(h.Lines)),
		zap.String("total", h.Total.String()))
	return nil
}

// Checkout hands the user's cart to the submitter and, once accepted, records
// it and takes the submitted units out of the cart. Anything added while the
// order was being submitted stays. A rejected order leaves the cart as it was.
func (a *App) Checkout(ctx context.Context, userID string) (cart.Handoff, error) {
	engine := a.carts.Get(userID)

	h, err := engine.Checkout()
	if err != nil {
		return cart.Handoff{}, err
	}

	if err := a.submitter.Submit(ctx, userID, h); err != nil {
		return cart.Handoff{}, fmt.Errorf("failed to submit order %s: %w", h.Reference, err)
	}

	if a.metricsStore != nil {
		if err := a.metricsStore.RecordCheckout(ctx, userID, h); err != nil {
			a.logger.Warn("failed to record checkout", zap.String("user_id", userID), zap.Error(err))
		}
	}

	engine.Settle(h)
	return h, nil
}
