// Package apierror provides standardized error response structures for the API
// and the domain error taxonomy used by services. All errors returned to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error for transport mapping and retry decisions.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified domain error. Services return these; handlers map
// them to HTTP via KindOf. The wrapped cause survives for errors.Is/As but is
// never serialized to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error without a cause.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Ef builds a classified error with a formatted message.
func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause. The cause is logged server-side only.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, walking the wrap chain. Unclassified
// errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for err. Internal errors collapse
// to a generic message so causes never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "internal server error"
}

// Sentinel errors for the conditions callers branch on. Each carries its kind
// so a bare errors.Is check and the HTTP mapping agree.
var (
	ErrInsufficientStock = E(KindConflict, "insufficient stock")
	ErrItemNotFound      = E(KindNotFound, "item not found")
	ErrSaleNotFound      = E(KindNotFound, "sale not found")
	ErrStaffNotFound     = E(KindNotFound, "staff not found")
	ErrShopNotVerified   = E(KindForbidden, "shop does not exist or is not verified")
	ErrAlreadyRefunded   = E(KindConflict, "sale already refunded")
	ErrRefundWindow      = E(KindConflict, "refund window has elapsed")
	ErrNotCreditSale     = E(KindConflict, "sale is not a credit sale")
	ErrCreditSettled     = E(KindConflict, "credit already fully paid")
	ErrOverpayment       = E(KindValidation, "amount exceeds outstanding balance")
	ErrOwnerOnly         = E(KindForbidden, "operation restricted to shop owner")
	ErrStaleLedger       = E(KindConflict, "credit ledger changed concurrently")
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromError converts any error into the client envelope.
func FromError(err error) *APIError {
	return &APIError{Detail: Message(err)}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
