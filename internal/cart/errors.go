package cart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRequiredOptionMissing is returned when an add leaves a required
	// customization category unselected.
	ErrRequiredOptionMissing = errors.New("required option missing")

	// ErrInvalidQuantity is returned when an add asks for fewer than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrEmptyCart is returned when checking out a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// RequiredOptionMissingError names the unfilled categories so the caller can prompt for them.
type RequiredOptionMissingError struct {
	ItemID     int64
	Categories []string
}

func (e *RequiredOptionMissingError) Error() string {
	return fmt.Sprintf("item %d: %s: %s", e.ItemID, ErrRequiredOptionMissing, strings.Join(e.Categories, ", "))
}

func (e *RequiredOptionMissingError) Unwrap() error {
	return ErrRequiredOptionMissing
}
