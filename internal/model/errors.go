package model

import (
	"errors"
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors that are not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError maps a field name to its messages. It is rendered as the
// body of a 400 response.
type ValidationError map[string][]string

func NewValidationError(field string, messages ...string) ValidationError {
	return ValidationError{field: messages}
}

func (e ValidationError) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e ValidationError) HasErrors() bool {
	return len(e) > 0
}

// OrNil returns nil when no field has errors.
func (e ValidationError) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (ValidationError, bool) {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrViewerContextMissing is a server defect: a relationship-dependent
// representation was requested without a viewer.
var ErrViewerContextMissing = errors.New("viewer context is required to render this resource")

// ErrInvalidPage is returned when the requested page is past the end of a list.
var ErrInvalidPage = errors.New("invalid page")
