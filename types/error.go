package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies bridge errors raised before any engine work begins.
type ErrorCode string

const (
	// CodeUnsupportedValue marks a term or value with no codec arm.
	CodeUnsupportedValue ErrorCode = "UNSUPPORTED_VALUE"
	// CodeUnresolvedDeclaration marks a declaration discriminator tag the
	// parser does not recognize.
	CodeUnresolvedDeclaration ErrorCode = "UNRESOLVED_DECLARATION"
	// CodeMissingField marks a declaration or field missing a required entry.
	CodeMissingField ErrorCode = "MISSING_FIELD"
	// CodeInvalidShape marks a term whose structure does not fit where it
	// was used.
	CodeInvalidShape ErrorCode = "INVALID_SHAPE"
	// CodeEngine wraps a diagnostic from the external execution engine.
	// Engine errors pass through opaquely; the bridge never reclassifies
	// or retries them.
	CodeEngine ErrorCode = "ENGINE"
)

// Error is a structured bridge error carrying enough declaration and field
// context for a caller-facing message.
type Error struct {
	Code    ErrorCode
	Message string
	Decl    string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Decl != "" {
		msg += fmt.Sprintf(" (declaration %q", e.Decl)
		if e.Field != "" {
			msg += fmt.Sprintf(", field %q", e.Field)
		}
		msg += ")"
	} else if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDecl attaches the enclosing declaration name.
func (e *Error) WithDecl(name string) *Error {
	e.Decl = name
	return e
}

// WithField attaches the enclosing field name.
func (e *Error) WithField(name string) *Error {
	e.Field = name
	return e
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// UnsupportedValue builds an UNSUPPORTED_VALUE error for the given shape
// description.
func UnsupportedValue(shape string) *Error {
	return &Error{Code: CodeUnsupportedValue, Message: "unsupported value: " + shape}
}

// MissingField builds a MISSING_FIELD error naming the absent entry.
func MissingField(which string) *Error {
	return &Error{Code: CodeMissingField, Message: "missing " + which, Field: which}
}

// InvalidShape builds an INVALID_SHAPE error from the expected kind and the
// shape actually seen.
func InvalidShape(expected, got string) *Error {
	return &Error{Code: CodeInvalidShape, Message: fmt.Sprintf("expected %s, got %s", expected, got)}
}

// UnresolvedDeclaration builds an UNRESOLVED_DECLARATION error for an
// unrecognized discriminator tag.
func UnresolvedDeclaration(tag string) *Error {
	return &Error{Code: CodeUnresolvedDeclaration, Message: fmt.Sprintf("unresolved declaration tag %q", tag)}
}

// EngineError wraps an engine-supplied diagnostic for opaque passthrough.
func EngineError(cause error) *Error {
	return &Error{Code: CodeEngine, Message: "engine error", Cause: cause}
}

// GetErrorCode extracts the bridge error code from an error, or "" when the
// error did not originate here.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsBridgeError reports whether err was raised by this bridge rather than
// passed through from the engine.
func IsBridgeError(err error) bool {
	code := GetErrorCode(err)
	return code != "" && code != CodeEngine
}
