// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrTradeNotFound     = errors.New("trade not found")
	ErrPrepNotFound      = errors.New("daily prep not found")
	ErrSymbolNotFound    = errors.New("symbol not found")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
	ErrImportFailed      = errors.New("import failed")
	ErrParserUnavailable = errors.New("AI parser not configured")
	ErrRateLimited       = errors.New("rate limited")
	ErrNotificationError = errors.New("notification delivery failed")
	ErrInputValidation   = errors.New("input validation failed")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents a persistence-layer error.
type StoreError struct {
	Operation string
	Entity    string
	Key       string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store error [%s] %s %s: %v", e.Operation, e.Entity, e.Key, e.Err)
	}
	return fmt.Sprintf("store error [%s] %s %s", e.Operation, e.Entity, e.Key)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, entity, key string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Entity:    entity,
		Key:       key,
		Err:       err,
	}
}

// ImportError represents a journal import error tied to a source row.
type ImportError struct {
	Source  string
	Line    int
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import error [%s:%d]: %s: %v", e.Source, e.Line, e.Message, e.Err)
	}
	return fmt.Sprintf("import error [%s:%d]: %s", e.Source, e.Line, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(source string, line int, message string, err error) *ImportError {
	return &ImportError{
		Source:  source,
		Line:    line,
		Message: message,
		Err:     err,
	}
}

// ParserError represents an error from the AI journal parser.
type ParserError struct {
	Model     string
	Operation string
	Err       error
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("parser error [%s] %s: %v", e.Model, e.Operation, e.Err)
}

func (e *ParserError) Unwrap() error {
	return e.Err
}

// NewParserError creates a new ParserError.
func NewParserError(model, operation string, err error) *ParserError {
	return &ParserError{
		Model:     model,
		Operation: operation,
		Err:       err,
	}
}

// RiskError represents a risk protocol violation.
type RiskError struct {
	Rule    string
	Current float64
	Limit   float64
	Message string
}

func (e *RiskError) Error() string {
	return fmt.Sprintf("risk violation [%s]: %s (current: %.2f, limit: %.2f)", e.Rule, e.Message, e.Current, e.Limit)
}

// NewRiskError creates a new RiskError.
func NewRiskError(rule string, current, limit float64, message string) *RiskError {
	return &RiskError{
		Rule:    rule,
		Current: current,
		Limit:   limit,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
