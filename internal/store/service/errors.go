package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInventoryRowMissing is returned when a ledger operation targets a
// (store, item) pair that has never been stocked.
var ErrInventoryRowMissing = errors.New("inventory row not found")

// ValidationError reports malformed input. Nothing is persisted; the caller
// retries with corrected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// StateTransitionError reports an action invalid for the document's current
// status; the current status is surfaced to the caller.
type StateTransitionError struct {
	Document string
	From     string
	To       string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Document, e.From, e.To)
}

// InsufficientStockError is raised by the ledger when a deduction would take
// on-hand below zero.
type InsufficientStockError struct {
	ItemCode  string
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %.4f, on hand %.4f",
		e.ItemCode, e.Requested, e.Available)
}

// StockLineError is one line's stock problem inside a multi-item dispatch.
type StockLineError struct {
	ItemCode  string
	Requested float64
	Available float64
}

// StockUnavailableError aggregates every failing line of a dispatch so the
// caller sees all shortfalls at once instead of the first.
type StockUnavailableError struct {
	Lines []StockLineError
}

func (e *StockUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, line := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s: requested %.4f, available %.4f",
			line.ItemCode, line.Requested, line.Available))
	}
	return "stock unavailable: " + strings.Join(parts, "; ")
}

// ReconciliationError reports a quantity math invariant violation, e.g.
// accepted + rejected != received.
type ReconciliationError struct {
	ItemCode string
	Message  string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed for %s: %s", e.ItemCode, e.Message)
}

// OverReceiptError reports a receipt exceeding the ordered quantity.
type OverReceiptError struct {
	ItemCode string
	Received float64
	Ordered  float64
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("over-receipt for %s: received %.4f exceeds ordered %.4f",
		e.ItemCode, e.Received, e.Ordered)
}

// ValidationResult carries non-fatal warnings alongside blocking errors so
// callers and tests can assert on both deterministically.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *ValidationResult) AddWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) AddError(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
