package building

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrSpaceNotFound    = errors.New("space not found")
	ErrMaterialNotFound = errors.New("material not found")
	ErrSourceNotFound   = errors.New("noise source not found")
	ErrWallNotFound     = errors.New("wall not found")
	ErrDuplicateID      = errors.New("duplicate ID")
	ErrSelfLoop         = errors.New("wall cannot join a space to itself")
	ErrEmptyID          = errors.New("empty ID")
	ErrNegativeValue    = errors.New("value must not be negative")
)

// Error provides structured error information for building operations.
type Error struct {
	Op     string // Operation that failed (e.g., "AddWall", "AssignActivity")
	Entity string // Entity type (e.g., "space", "material", "wall")
	ID     string // Entity ID (if applicable)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building Errors.
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Op: op}}
}

// Space sets the entity to "space" with the given ID.
func (b *ErrorBuilder) Space(id string) *ErrorBuilder {
	b.err.Entity = "space"
	b.err.ID = id
	return b
}

// Material sets the entity to "material" with the given ID.
func (b *ErrorBuilder) Material(id string) *ErrorBuilder {
	b.err.Entity = "material"
	b.err.ID = id
	return b
}

// Source sets the entity to "noise source" with the given ID.
func (b *ErrorBuilder) Source(id string) *ErrorBuilder {
	b.err.Entity = "noise source"
	b.err.ID = id
	return b
}

// Wall sets the entity to "wall" with the given key.
func (b *ErrorBuilder) Wall(key WallKey) *ErrorBuilder {
	b.err.Entity = "wall"
	b.err.ID = key.String()
	return b
}

// Cause sets the underlying error.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error.
func (b *ErrorBuilder) Build() *Error {
	return &b.err
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSpaceNotFound) ||
		errors.Is(err, ErrMaterialNotFound) ||
		errors.Is(err, ErrSourceNotFound) ||
		errors.Is(err, ErrWallNotFound)
}
