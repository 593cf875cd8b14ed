package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryReconcile Category = "reconcile"
	CategoryTree      Category = "tree"
	CategoryElement   Category = "element"
	CategoryComponent Category = "component"
	CategoryRenderer  Category = "renderer"
	CategoryConfig    Category = "config"
	CategoryScene     Category = "scene"
	CategoryCLI       Category = "cli"
)

// TreeError is a structured error with a stable code, a category and an
// optional hint on how to fix it.
type TreeError struct {
	// Code is a unique error identifier (e.g., "V001").
	Code string

	// Category is the error type (reconcile, tree, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Fatal reports whether the condition is a contract violation rather
	// than a diagnostic.
	Fatal bool

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TreeError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a TreeError with the same code. It lets
// callers compare against code sentinels with errors.Is.
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TreeError) WithSuggestion(s string) *TreeError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TreeError) WithDetail(d string) *TreeError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *TreeError) WithDetailf(format string, args ...any) *TreeError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *TreeError) Wrap(err error) *TreeError {
	e.Wrapped = err
	return e
}

// New creates a TreeError from a registered error code.
func New(code string) *TreeError {
	template, ok := registry[code]
	if !ok {
		return &TreeError{
			Code:    code,
			Message: "Unknown error",
			Fatal:   true,
		}
	}
	return &TreeError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		Fatal:      template.Fatal,
	}
}

// Newf creates a new TreeError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TreeError {
	return &TreeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Fatal:    true,
	}
}

// FromError wraps a standard error in a TreeError.
func FromError(err error, code string) *TreeError {
	if err == nil {
		return nil
	}
	if te, ok := err.(*TreeError); ok {
		return te
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first TreeError in err's chain, or "".
func CodeOf(err error) string {
	for err != nil {
		if te, ok := err.(*TreeError); ok && te.Code != "" {
			return te.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
