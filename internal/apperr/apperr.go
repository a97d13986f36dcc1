// Package apperr defines the error taxonomy shared by the organization-scoped
// services and its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindValidation
	KindConflict
	KindVersionConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindVersionConflict:
		return "version_conflict"
	}
	return "unknown"
}

// Status is the HTTP status a kind is reported with.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindVersionConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Title is the short problem title for a kind.
func (k Kind) Title() string {
	switch k {
	case KindNotFound:
		return "Not Found"
	case KindForbidden:
		return "Forbidden"
	case KindValidation:
		return "Validation Failed"
	case KindConflict:
		return "Conflict"
	case KindVersionConflict:
		return "Concurrency Conflict"
	}
	return "Internal Server Error"
}

// Error is a categorized failure. Detail is safe to show to the caller.
type Error struct {
	Kind   Kind
	Detail string
	Field  string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Kind.String() + ": " + e.Field + ": " + e.Detail
	}
	return e.Kind.String() + ": " + e.Detail
}

// Is matches another *Error of the same kind. A target with a detail also
// has to match the detail, which lets the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Detail == "" || t.Detail == e.Detail
}

var (
	// ErrNotMember is deliberately indistinguishable from a missing organization.
	ErrNotMember        = &Error{Kind: KindNotFound, Detail: "Organization not found."}
	ErrInsufficientRole = &Error{Kind: KindForbidden, Detail: "You do not have permission to perform this action."}
)

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func Forbidden(detail string) *Error {
	return &Error{Kind: KindForbidden, Detail: detail}
}

func Validation(field, detail string) *Error {
	return &Error{Kind: KindValidation, Field: field, Detail: detail}
}

func Conflict(detail string) *Error {
	return &Error{Kind: KindConflict, Detail: detail}
}

func VersionConflict(detail string) *Error {
	return &Error{Kind: KindVersionConflict, Detail: detail}
}

// As returns the categorized error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or zero for uncategorized errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return 0
}
