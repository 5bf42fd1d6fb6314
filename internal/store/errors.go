package store

import "errors"

var (
	// ErrNotFound is returned when a row id or unique key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReferenceNotFound is returned when a sale references an inventory
	// key (serial/IMEI or SKU) that is not in stock.
	ErrReferenceNotFound = errors.New("inventory reference not found")

	// ErrUnitNotReady is returned when an operation requires a unit in
	// READY status: selling an already-sold unit, or deleting a sold one.
	ErrUnitNotReady = errors.New("unit is not in READY status")

	// ErrInsufficientStock is returned when an accessory sale would take
	// on-hand quantity below zero and the stock floor is enforced.
	ErrInsufficientStock = errors.New("insufficient accessory stock")
)
