// Package errors provides the error types shared by the score model, the
// readers and the storage layer. Every typed error unwraps to one of the
// sentinels below, so callers can branch with Is without knowing the type.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a score, blob or model object does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: malformed source text, bad flag or config value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists: the catalog already holds the same content.
	ErrAlreadyExists = errors.New("already exists")
	// ErrReadOnly: a write was attempted on a store opened read-only.
	ErrReadOnly = errors.New("read-only")
	// ErrUnsupported: a format or feature the readers do not handle.
	ErrUnsupported = errors.New("unsupported")
	// ErrInconsistent: the internal model breaks one of its invariants.
	ErrInconsistent = errors.New("inconsistent model")
)

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string // e.g. "score", "blob", "instrument"
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError reports a value rejected before it reaches the model or
// the store.
type ValidationError struct {
	Field   string
	Value   string // may be redacted
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ReadOnlyError reports a write refused by a read-only store or catalog.
type ReadOnlyError struct {
	Operation string
	Resource  string
}

func (e *ReadOnlyError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("cannot %s %s: read-only", e.Operation, e.Resource)
	}
	return fmt.Sprintf("cannot %s: read-only", e.Operation)
}

func (e *ReadOnlyError) Unwrap() error { return ErrReadOnly }

// IOError wraps a filesystem or database failure.
type IOError struct {
	Operation string // e.g. "read", "write", "open"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports source text that could not be read. Line is 1-based;
// zero means the position is unknown.
type ParseError struct {
	Format  string // e.g. "ldp", "musicxml", "pitch"
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var where string
	switch {
	case e.Path != "" && e.Line > 0:
		where = fmt.Sprintf(" at %s:%d", e.Path, e.Line)
	case e.Path != "":
		where = " at " + e.Path
	case e.Line > 0:
		where = fmt.Sprintf(" at line %d", e.Line)
	}
	return fmt.Sprintf("failed to parse %s%s: %s", e.Format, where, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError reports a format or feature outside what is handled.
type UnsupportedError struct {
	Feature string
	Reason  string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// ModelError reports a broken invariant of the internal model, located by
// the kind and id of the offending object.
type ModelError struct {
	Kind    string
	ID      int64
	Message string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s#%d: %s", e.Kind, e.ID, e.Message)
}

func (e *ModelError) Unwrap() error { return ErrInconsistent }

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewReadOnly creates a ReadOnlyError
func NewReadOnly(operation, resource string) *ReadOnlyError {
	return &ReadOnlyError{Operation: operation, Resource: resource}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError without position.
func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

// NewParseAt creates a ParseError located at a source line.
func NewParseAt(format, path string, line int, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Line: line, Message: message}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// NewModel creates a ModelError
func NewModel(kind string, id int64, message string) *ModelError {
	return &ModelError{Kind: kind, ID: id, Message: message}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As
func As(err error, target any) bool {
	return errors.As(err, target)
}
