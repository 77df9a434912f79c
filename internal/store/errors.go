package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrConstraint   = errors.New("constraint violation")
	ErrPrecondition = errors.New("precondition failed")
	ErrNotFound     = errors.New("record not found")
	ErrUnavailable  = errors.New("database unavailable")
)

// ValidationError reports a required field that is missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConstraintError reports a uniqueness or foreign-key violation raised by the database.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// PreconditionError reports that an operation needs a related record that does not exist.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// classify wraps err with op, turning driver constraint failures into *ConstraintError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConstraintViolation(err) {
		return &ConstraintError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// Extended result codes keep the primary code in the low byte.
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		// SQLSTATE class 23: integrity constraint violation.
		return pe.Code.Class() == "23"
	}
	return false
}
