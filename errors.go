package ocean

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors.
var (
	// ErrSchemaBuild is matched by every *SchemaBuildError.
	ErrSchemaBuild = errors.New("ocean: schema build failed")

	// ErrMissingRequiredProperty is matched by every *MissingRequiredPropertyError.
	ErrMissingRequiredProperty = errors.New("ocean: missing required property")

	// ErrIncompatibleIdentifierType is matched by every *IncompatibleIdentifierTypeError.
	ErrIncompatibleIdentifierType = errors.New("ocean: incompatible identifier type")

	// ErrInvalidEntity is matched by every *InvalidEntityError.
	ErrInvalidEntity = errors.New("ocean: invalid entity")
)

// SchemaBuildError is returned when a declared type cannot be compiled into
// a label schema. Entities of that type must not be used until the
// declaration is fixed.
type SchemaBuildError struct {
	Type    string // Declared type
	Field   string // Field property (if applicable)
	Message string
	Cause   error
}

// Error returns the error string.
func (e *SchemaBuildError) Error() string {
	var b strings.Builder
	b.WriteString("ocean: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaBuildError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches ErrSchemaBuild.
func (e *SchemaBuildError) Is(err error) bool {
	return err == ErrSchemaBuild
}

// NewSchemaBuildError returns a new SchemaBuildError.
func NewSchemaBuildError(typeName, fieldName, message string, cause error) *SchemaBuildError {
	return &SchemaBuildError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaBuildError returns true if the error is a SchemaBuildError.
func IsSchemaBuildError(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaBuildError
	return errors.As(err, &e) || errors.Is(err, ErrSchemaBuild)
}

// MissingRequiredPropertyError reports the required properties an entity
// lacks. One error is produced per offending entity.
type MissingRequiredPropertyError struct {
	Label      string   // Vertex tag or edge type
	ID         string   // Entity identity, as rendered by the entity
	Properties []string // Missing or null properties, sorted
}

// Error returns the error string.
func (e *MissingRequiredPropertyError) Error() string {
	return fmt.Sprintf("ocean: %s %s: missing required properties: %s",
		e.Label, e.ID, strings.Join(e.Properties, ", "))
}

// Is reports whether the target error matches ErrMissingRequiredProperty.
func (e *MissingRequiredPropertyError) Is(err error) bool {
	return err == ErrMissingRequiredProperty
}

// IsMissingRequiredProperty returns true if the error is a MissingRequiredPropertyError.
func IsMissingRequiredProperty(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingRequiredPropertyError
	return errors.As(err, &e) || errors.Is(err, ErrMissingRequiredProperty)
}

// IncompatibleIdentifierTypeError is returned when identifiers of differing
// runtime types are compared, or when an identifier does not fit its policy.
type IncompatibleIdentifierTypeError struct {
	Left  string
	Right string
}

// Error returns the error string.
func (e *IncompatibleIdentifierTypeError) Error() string {
	return fmt.Sprintf("ocean: incompatible identifier types %s and %s", e.Left, e.Right)
}

// Is reports whether the target error matches ErrIncompatibleIdentifierType.
func (e *IncompatibleIdentifierTypeError) Is(err error) bool {
	return err == ErrIncompatibleIdentifierType
}

// IsIncompatibleIdentifierType returns true if the error is an IncompatibleIdentifierTypeError.
func IsIncompatibleIdentifierType(err error) bool {
	if err == nil {
		return false
	}
	var e *IncompatibleIdentifierTypeError
	return errors.As(err, &e) || errors.Is(err, ErrIncompatibleIdentifierType)
}

// InvalidEntityError is returned when an entity cannot be constructed.
type InvalidEntityError struct {
	Label  string // Vertex tag or edge type (if known)
	Reason string
	Cause  error
}

// Error returns the error string.
func (e *InvalidEntityError) Error() string {
	msg := "ocean: invalid entity"
	if e.Label != "" {
		msg += " " + e.Label
	}
	msg += ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *InvalidEntityError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches ErrInvalidEntity.
func (e *InvalidEntityError) Is(err error) bool {
	return err == ErrInvalidEntity
}

// NewInvalidEntityError returns a new InvalidEntityError.
func NewInvalidEntityError(label, reason string) *InvalidEntityError {
	return &InvalidEntityError{Label: label, Reason: reason}
}

// IsInvalidEntity returns true if the error is an InvalidEntityError.
func IsInvalidEntity(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidEntityError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidEntity)
}

// BatchError reports every invalid entity of a batch. A batch that fails
// validation dispatches no statement.
type BatchError struct {
	Op     string  // Batch operation (e.g., "save vertices")
	Errors []error // One error per offending entity
}

// Error returns the error string.
func (e *BatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ocean: %s: %d invalid entities", e.Op, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the member errors, so errors.Is and errors.As see each of them.
func (e *BatchError) Unwrap() []error {
	return e.Errors
}

// IsBatchError returns true if the error is a BatchError.
func IsBatchError(err error) bool {
	if err == nil {
		return false
	}
	var e *BatchError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "ocean: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("ocean: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
