package services

import (
	"errors"
	"fmt"
	"strings"
)

// LoadErrorKind classifies why a catalog could not be loaded
type LoadErrorKind string

const (
	KindNotFound   LoadErrorKind = "not_found"
	KindUnreadable LoadErrorKind = "unreadable"
	KindMalformed  LoadErrorKind = "malformed"
	KindSchema     LoadErrorKind = "schema"
)

// LoadError is returned by Loader when no catalog could be produced.
// Callers must surface the message and stop; there is never a partial catalog.
type LoadError struct {
	Path    string
	Kind    LoadErrorKind
	Missing []string // required columns absent from the header (KindSchema)
	cause   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not load data from %q", e.Path)
	switch e.Kind {
	case KindNotFound:
		b.WriteString(": file not found")
	case KindUnreadable:
		b.WriteString(": file not readable")
	case KindMalformed:
		b.WriteString(": not valid comma-separated text")
	case KindSchema:
		fmt.Fprintf(&b, ": missing required columns %s", strings.Join(e.Missing, ", "))
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.cause
}

// Is matches any *LoadError with the same Kind, so the sentinels below work
// with errors.Is.
func (e *LoadError) Is(target error) bool {
	var t *LoadError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is
var (
	ErrNotFound   = &LoadError{Kind: KindNotFound}
	ErrUnreadable = &LoadError{Kind: KindUnreadable}
	ErrMalformed  = &LoadError{Kind: KindMalformed}
	ErrSchema     = &LoadError{Kind: KindSchema}
)
