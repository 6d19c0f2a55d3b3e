// Package errs holds the application-wide error registry. Every error surfaced
// past a service boundary carries a machine code from the registry, a developer
// message, a user-facing message and a retryable flag.
package errs

import "fmt"

type Category string

const (
	CategoryList       Category = "list"
	CategoryImage      Category = "image"
	CategoryAuth       Category = "auth"
	CategoryValidation Category = "validation"
	CategoryDatabase   Category = "database"
	CategoryStorage    Category = "storage"
	CategoryNetwork    Category = "network"
	CategoryLocation   Category = "location"
	CategoryPortal     Category = "portal"
	CategoryGeneric    Category = "generic"
)

type Descriptor struct {
	Code        string
	Category    Category
	DevMessage  string
	UserMessage string
	Retryable   bool
}

type Error struct {
	Code      string
	Category  Category
	Message   string
	UserMsg   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error from a registered code. Unregistered codes fall back to
// the generic descriptor so callers never get a nil error shape.
func New(code string, cause error) *Error {
	d, ok := registry[code]
	if !ok {
		d = registry[CodeUnknown]
		d.DevMessage = fmt.Sprintf("unregistered error code %q", code)
	}
	return &Error{
		Code:      d.Code,
		Category:  d.Category,
		Message:   d.DevMessage,
		UserMsg:   d.UserMessage,
		Retryable: d.Retryable,
		Err:       cause,
	}
}

func Newf(code string, format string, args ...interface{}) *Error {
	return New(code, fmt.Errorf(format, args...))
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code string) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}

// AsError returns err unchanged when it is already an *Error, otherwise wraps
// it as a validation-shaped error. Used to normalize non-domain failures
// before they are surfaced to callers.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(CodeValidationFailed, err)
}

func Lookup(code string) (Descriptor, bool) {
	d, ok := registry[code]
	return d, ok
}
