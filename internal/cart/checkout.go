package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handoff is the final cart snapshot passed to an order-submission flow.
// The engine keeps its lines until the caller settles the handoff.
type Handoff struct {
	Reference uuid.UUID
	Lines     []Line
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Checkout captures the current cart for submission.
func (e *Engine) Checkout() (Handoff, error) {
	snap := e.Snapshot()
	if snap.IsEmpty() {
		return Handoff{}, ErrEmptyCart
	}
	return Handoff{
		Reference: uuid.New(),
		Lines:     snap.Lines,
		Total:     snap.Total,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Settle takes the units of an accepted handoff out of the cart. Units added
// after the handoff was captured stay in the cart.
func (e *Engine) Settle(h Handoff) {
	e.mu.Lock()
	changed := false
	for _, sold := range h.Lines {
		for i := range e.lines {
			if e.lines[i].matches(sold.ItemID, sold.Selections) {
				e.lines[i].Quantity -= sold.Quantity
				changed = true
				break
			}
		}
	}
	if !changed {
		e.mu.Unlock()
		return
	}

	kept := e.lines[:0:0]
	for _, l := range e.lines {
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	e.lines = kept
	snap := e.recomputeLocked()
	e.mu.Unlock()

	e.notify(Event{Op: OpSettle, Snapshot: snap})
}
