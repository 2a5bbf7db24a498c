package payslip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holerite-dev/holerite/internal/money"
)

var (
	// ErrMalformedAmount aliases money.ErrMalformedAmount so callers of this
	// package need not import money to match it.
	ErrMalformedAmount = money.ErrMalformedAmount
	// ErrMissingField is returned when an item entity lacks a required property.
	ErrMissingField = errors.New("missing field")
	// ErrIncompleteDocument is returned when net_pay or gross_pay never appeared.
	ErrIncompleteDocument = errors.New("incomplete document")
	// ErrUnknownEntity is returned by Classify for tags it does not handle.
	ErrUnknownEntity = errors.New("unknown entity type")
)

// FieldError names the property an item entity was missing.
type FieldError struct {
	EntityType string
	Field      string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", e.EntityType, e.Field)
}

// Unwrap lets errors.Is match ErrMissingField.
func (e *FieldError) Unwrap() error {
	return ErrMissingField
}

// IncompleteError lists the top-level figures absent from a document.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete document: missing %s", strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is match ErrIncompleteDocument.
func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteDocument
}

// ItemWarning records an entity that was dropped during assembly.
type ItemWarning struct {
	Index int
	Type  string
	Err   error
}

func (w ItemWarning) String() string {
	return fmt.Sprintf("entity %d (%s) skipped: %v", w.Index, w.Type, w.Err)
}
