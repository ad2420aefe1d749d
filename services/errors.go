package services

import (
	"errors"
	"strings"
)

var (
	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition is returned for a status change that is not
	// reachable from the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrOrderAlreadyShipped rejects cancellation of shipped or delivered
	// orders.
	ErrOrderAlreadyShipped = errors.New("this order has already been shipped and cannot be cancelled")

	// ErrPaymentVerification is returned when a gateway callback signature
	// does not match.
	ErrPaymentVerification = errors.New("payment verification failed")
)

// ValidationError reports required input fields that were missing or
// malformed. It is raised before any state change.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
