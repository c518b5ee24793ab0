package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// InvalidFormatError reports a value that failed a syntactic check, such as a
// module code or set order token. It aborts the batch it occurs in.
type InvalidFormatError struct {
	// Value is the offending input.
	Value string
	// Expected describes the accepted format.
	Expected string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format: %q (expected %s)", e.Value, e.Expected)
}

// NotFoundError reports a referenced-but-missing entity.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// ConflictError reports a uniqueness violation or a referential block, such as
// deleting a module that still contains sets.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StoreError wraps an underlying storage failure. It is surfaced to callers
// essentially unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NotFound builds a NotFoundError.
func NotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// Conflict builds a ConflictError.
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// Store wraps err as a StoreError for the given operation. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// HTTPStatus maps an error to the HTTP status code its taxonomy implies.
func HTTPStatus(err error) int {
	var (
		invalid  *InvalidFormatError
		notFound *NotFoundError
		conflict *ConflictError
	)
	switch {
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &conflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
