package cart

import (
	"sync"

	"food-storefront/internal/catalog"

	"github.com/shopspring/decimal"
)

// Operation names a cart mutation.
type Operation string

const (
	OpAdd            Operation = "add"
	OpUpdateQuantity Operation = "update_quantity"
	OpRemove         Operation = "remove"
	OpClear          Operation = "clear"
	OpSettle         Operation = "settle"
)

// Event describes a completed mutation. Snapshot is the cart state after it.
type Event struct {
	Op       Operation
	ItemID   int64
	Quantity int
	Snapshot Snapshot
}

type observer struct {
	id int
	fn func(Event)
}

// Engine owns one cart. All mutation goes through its methods; every mutation
// recomputes the total from the lines before it returns and then notifies
// subscribers synchronously.
type Engine struct {
	mu        sync.Mutex
	lines     []Line
	total     decimal.Decimal
	observers []observer
	nextID    int
}

// NewEngine returns an empty cart.
func NewEngine() *Engine {
	return &Engine{total: decimal.Zero}
}

// Add puts quantity units of item with the given selections into the cart.
// A line with the same item id and identical selections absorbs the quantity;
// otherwise a new line is appended. If a required category is unselected the
// cart is left untouched and a *RequiredOptionMissingError is returned.
func (e *Engine) Add(item catalog.MenuItem, selections Selections, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if missing := MissingRequired(item, selections); len(missing) > 0 {
		return &RequiredOptionMissingError{ItemID: item.ID, Categories: missing}
	}

	e.mu.Lock()
	merged := false
	for i := range e.lines {
		if e.lines[i].matches(item.ID, selections) {
			e.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		e.lines = append(e.lines, Line{
			ItemID:     item.ID,
			Item:       item.Clone(),
			Quantity:   quantity,
			Selections: selections.Clone(),
			UnitPrice:  UnitPrice(item, selections),
		})
	}
	snap := e.recomputeLocked()
	e.mu.Unlock()

	e.notify(Event{Op: OpAdd, ItemID: item.ID, Quantity: quantity, Snapshot: snap})
	return nil
}

// UpdateQuantity sets the quantity of every line for itemID. A quantity below
// one removes those lines. Unknown ids are ignored.
func (e *Engine) UpdateQuantity(itemID int64, quantity int) {
	if quantity < 1 {
		e.removeAll(itemID, OpUpdateQuantity, quantity)
		return
	}

	e.mu.Lock()
	changed := false
	for i := range e.lines {
		if e.lines[i].ItemID == itemID {
			e.lines[i].Quantity = quantity
			changed = true
		}
	}
	if !changed {
		e.mu.Unlock()
		return
	}
	snap := e.recomputeLocked()
	e.mu.Unlock()

	e.notify(Event{Op: OpUpdateQuantity, ItemID: itemID, Quantity: quantity, Snapshot: snap})
}

// Remove drops every line for itemID regardless of selections.
func (e *Engine) Remove(itemID int64) {
	e.removeAll(itemID, OpRemove, 0)
}

// Clear empties the cart.
func (e *Engine) Clear() {
	e.mu.Lock()
	if len(e.lines) == 0 {
		e.mu.Unlock()
		return
	}
	e.lines = nil
	snap := e.recomputeLocked()
	e.mu.Unlock()

	e.notify(Event{Op: OpClear, Snapshot: snap})
}

// ItemQuantity sums the quantity of all lines for itemID across customizations.
func (e *Engine) ItemQuantity(itemID int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, l := range e.lines {
		if l.ItemID == itemID {
			n += l.Quantity
		}
	}
	return n
}

// Snapshot returns a copy of the current lines and total.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Total returns the current cart total.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.observers = append(e.observers, observer{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, o := range e.observers {
				if o.id == id {
					e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (e *Engine) removeAll(itemID int64, op Operation, quantity int) {
	e.mu.Lock()
	kept := e.lines[:0:0]
	for _, l := range e.lines {
		if l.ItemID != itemID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(e.lines) {
		e.mu.Unlock()
		return
	}
	e.lines = kept
	snap := e.recomputeLocked()
	e.mu.Unlock()

	e.notify(Event{Op: op, ItemID: itemID, Quantity: quantity, Snapshot: snap})
}

// recomputeLocked rebuilds every line total and the cart total from scratch.
func (e *Engine) recomputeLocked() Snapshot {
	total := decimal.Zero
	for i := range e.lines {
		e.lines[i].LineTotal = LineTotal(e.lines[i].UnitPrice, e.lines[i].Quantity)
		total = total.Add(e.lines[i].LineTotal)
	}
	e.total = total
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	lines := make([]Line, len(e.lines))
	for i, l := range e.lines {
		lines[i] = l.clone()
	}
	return Snapshot{Lines: lines, Total: e.total}
}

func (e *Engine) notify(ev Event) {
	e.mu.Lock()
	observers := make([]observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()

	for _, o := range observers {
		o.fn(ev)
	}
}
