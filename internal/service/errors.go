package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go-storefront/internal/repository"
	"go-storefront/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInUse             = errors.New("resource is still in use")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError carries field-keyed messages for the {message, errors} envelope
type ValidationError struct {
	Errors map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Errors[field] = append(e.Errors[field], message)
	return e
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Errors) == 0
}

// Error reads like "The name field is required. (and 1 more error)"
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	total := 0
	for field, msgs := range e.Errors {
		fields = append(fields, field)
		total += len(msgs)
	}
	if total == 0 {
		return "The given data was invalid."
	}
	sort.Strings(fields)
	first := e.Errors[fields[0]][0]
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

// validate runs struct tags and returns a *ValidationError, or nil when valid
func validate(req interface{}) *ValidationError {
	errs := validator.FieldErrors(req)
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// merge folds tag errors and business-rule errors into one result
func merge(errs ...*ValidationError) error {
	out := NewValidationError()
	for _, e := range errs {
		if e.Empty() {
			continue
		}
		for field, msgs := range e.Errors {
			out.Errors[field] = append(out.Errors[field], msgs...)
		}
	}
	if out.Empty() {
		return nil
	}
	return out
}

func takenMessage(field string) string {
	return fmt.Sprintf("The %s has already been taken.", strings.ReplaceAll(field, "_", " "))
}

func invalidMessage(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", strings.ReplaceAll(field, "_", " "))
}

// translate maps repository errors onto service errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInUse):
		return ErrInUse
	}
	return err
}

// duplicate turns a storage-level unique violation into the same field error
// the pre-check would have produced.
func duplicate(err error, field string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewValidationError().Add(field, takenMessage(field))
	}
	return translate(err)
}

// Actor identifies who triggered a write, for audit fields and events
type Actor struct {
	ID    string
	Name  string
	Email string
}

func (a Actor) display() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return "Someone"
}
