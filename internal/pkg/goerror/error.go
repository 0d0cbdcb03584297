package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the outbound layers. Repositories return
// these and use cases translate them into user-facing errors.
var (
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict means the write collided with existing state, such
	// as a duplicate unique key.
	ErrConflict = errors.New("resource conflict")
)

// Type is the coarse classification of an error: who is at fault and
// how it should be logged.
type Type int

const (
	// TypeServer marks failures inside this service or a dependency.
	TypeServer Type = iota
	// TypeBusiness marks requests that break a domain rule.
	TypeBusiness
	// TypeValidation marks requests whose input failed validation.
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code identifies the precise failure and drives the HTTP status
// mapping in StatusCode.
type Code int

const (
	// CodeInternal is an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat means the request body could not be parsed.
	CodeInvalidFormat
	// CodeInvalidInput means the parsed input failed validation.
	CodeInvalidInput
	// CodeNotFound means the resource does not exist.
	CodeNotFound
	// CodeConflict means the request conflicts with current state.
	CodeConflict
	// CodeTooManyRequest means the caller is being rate limited.
	CodeTooManyRequest
	// CodeUnauthorized means authentication failed or is missing.
	CodeUnauthorized
	// CodeForbidden means the caller lacks permission.
	CodeForbidden
	// CodeTimeout means the operation ran out of time.
	CodeTimeout
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeTooManyRequest:
		return "ERROR_CODE_TOO_MANY_REQUESTS"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	case CodeForbidden:
		return "ERROR_CODE_FORBIDDEN"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is the structured error that crosses layer boundaries. It
// carries a user-facing message separate from the wrapped cause, so
// internal details never leak into responses.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

// Error implements the error interface, preferring the wrapped cause
// over the user-facing message.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Logical business not meet with requirement"
	case TypeServer:
		return "Internal error"
	default:
		return "Unknown error"
	}
}

// String renders every part of the error for logs.
func (e *Error) String() string {
	return fmt.Sprintf(
		"Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(),
		e.code.String(),
		e.msg,
		e.err,
	)
}

// Msg returns the message safe to show to the caller.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the error classification.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Fields returns per-field validation messages, or nil.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode translates the error code into an HTTP status.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTimeout:
		return http.StatusRequestTimeout
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func build(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer wraps an unexpected failure. The caller only ever sees a
// generic message; err stays in logs.
func NewServer(err error) error {
	return build(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness reports a domain rule violation with a message meant
// for the caller.
func NewBusiness(msg string, code Code) error {
	return build(nil, msg, TypeBusiness, code)
}

// NewInvalidInput reports failed validation. Pass the validator error
// to wrap it, or pass nil with alternating field/message pairs to
// attach per-field messages directly.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return build(err, "Validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return build(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	e := &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	e.fields = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		e.fields[kv[i]] = kv[i+1]
	}

	return e
}

// NewInvalidFormat reports an unparseable request body, optionally
// with a custom message.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return build(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	return build(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}
