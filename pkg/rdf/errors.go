package rdf

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrMalformedTriple is returned when a triple has a non-resource subject,
	// a non-IRI predicate, or an invalid object. Ingestion fails as a whole.
	ErrMalformedTriple = errors.New("malformed triple")
)

// TripleError provides structured information about a rejected triple.
type TripleError struct {
	Index  int    // Position of the triple in the input (-1 if unknown)
	Triple Triple // The offending triple
	Reason string // Which part was invalid
	Cause  error  // Underlying error, usually ErrMalformedTriple
}

// Error implements the error interface.
func (e *TripleError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("triple %d %s: %s: %v", e.Index, e.Triple, e.Reason, e.Cause)
	}
	return fmt.Sprintf("triple %s: %s: %v", e.Triple, e.Reason, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *TripleError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *TripleError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func malformed(index int, t Triple, reason string) error {
	return &TripleError{Index: index, Triple: t, Reason: reason, Cause: ErrMalformedTriple}
}
