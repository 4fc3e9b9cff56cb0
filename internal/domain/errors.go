package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id has no inventory entry.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoSalesHistory is returned when a product has no sales records in
	// the requested window.
	ErrNoSalesHistory = errors.New("no sales history")
)
