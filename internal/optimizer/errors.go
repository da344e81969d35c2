package optimizer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable, value-returned failure kinds at the
// optimizer boundary. Callers decide status codes and user messaging.
var (
	// ErrEmptyBasket is returned when the request contains no items.
	ErrEmptyBasket = errors.New("nothing to optimize: no items in request")

	// ErrNoPriceData is returned when no requested item has both a catalog
	// mapping and a price at any store.
	ErrNoPriceData = errors.New("no pricing available for requested items")

	// ErrNoRoutes is returned when enumeration produces zero candidates.
	ErrNoRoutes = errors.New("no feasible route")

	// ErrNoOptimalRoute is returned when selection receives zero scored
	// routes. With a non-empty dataset this indicates an internal invariant
	// violation.
	ErrNoOptimalRoute = errors.New("no optimal route found")
)

// ErrUnknownProduct is returned when a parsed item references a canonical
// product that does not exist in the reference set. The whole request is
// rejected before the dataset is built.
type ErrUnknownProduct struct {
	CanonicalID string
}

func (e ErrUnknownProduct) Error() string {
	return fmt.Sprintf("unknown canonical product %q", e.CanonicalID)
}

// ErrUnknownStore signals that a route referenced a store missing from the
// reference set. This is a fatal precondition failure, not a recoverable
// request error: stores are never silently dropped.
type ErrUnknownStore struct {
	StoreID string
}

func (e ErrUnknownStore) Error() string {
	return fmt.Sprintf("store %q is not in the reference store set", e.StoreID)
}

// ErrInvalidRequest is returned when a request parameter fails validation.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}

// ErrInvalidWeights is returned when price/time weights are negative or
// non-finite.
type ErrInvalidWeights struct {
	Field  string
	Reason string
}

func (e ErrInvalidWeights) Error() string {
	return e.Field + ": " + e.Reason
}
