package models

import (
	"fmt"
	"time"
)

// InvalidInputError marks a non-physical numeric input. It is recorded as
// a per-position diagnostic, never fatal to a batch.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s=%g: %s", e.Field, e.Value, e.Reason)
}

// InsufficientDataError marks a metric requested with too few scenarios
// or positions to be meaningful.
type InsufficientDataError struct {
	What string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need %d, have %d", e.What, e.Need, e.Have)
}

// StaleDataWarning is not fatal: the position is still priced from its
// last-known values, and the staleness surfaces as an alert.
type StaleDataWarning struct {
	Symbol string
	Age    time.Duration
}

func (e *StaleDataWarning) Error() string {
	return fmt.Sprintf("stale data for %s: %s old", e.Symbol, e.Age)
}
