package app

import (
	"sync"

	"food-storefront/internal/cart"
	"food-storefront/internal/metrics"
)

// Carts keeps one cart engine per user for the life of the process.
type Carts struct {
	mu      sync.Mutex
	engines map[string]*cart.Engine
	locks   map[string]*sync.Mutex
	metrics *metrics.Store
}

// NewCarts creates an empty registry. When store is non-nil every new cart
// reports its mutations to it.
func NewCarts(store *metrics.Store) *Carts {
	return &Carts{
		engines: make(map[string]*cart.Engine),
		locks:   make(map[string]*sync.Mutex),
		metrics: store,
	}
}

// Get returns the user's cart, creating it on first use.
func (c *Carts) Get(userID string) *cart.Engine {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.engines[userID]; ok {
		return e
	}
	e := cart.NewEngine()
	if c.metrics != nil {
		e.Subscribe(c.metrics.Observe(userID))
	}
	c.engines[userID] = e
	return e
}

// Len reports how many carts are open.
func (c *Carts) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.engines)
}

// Lock serializes a multi-step interaction for one user, such as reading a
// draft session and adding it to the cart. It blocks until the user is free
// and returns the unlock function. Other users are not affected.
func (c *Carts) Lock(userID string) (unlock func()) {
	c.mu.Lock()
	l, ok := c.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[userID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
