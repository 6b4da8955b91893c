package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrorKind classifies failures crossing the service boundary.
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "Unauthenticated"
	KindNotAuthorized     ErrorKind = "NotAuthorized"
	KindValidationFailed  ErrorKind = "ValidationFailed"
	KindInvalidType       ErrorKind = "InvalidType"
	KindStationNotFound   ErrorKind = "StationNotFound"
	KindEVOwnerNotFound   ErrorKind = "EVOwnerNotFound"
	KindAlreadyInState    ErrorKind = "AlreadyInState"
	KindHasActiveBookings ErrorKind = "HasActiveBookings"
	KindConflict          ErrorKind = "Conflict"
	KindInternal          ErrorKind = "Internal"
)

// Error is a typed failure. Fields holds per-field validation messages.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches another *Error by kind so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// FieldMessages returns the field errors as "field: message", sorted by field.
func (e *Error) FieldMessages() []string {
	if len(e.Fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+": "+e.Fields[k])
	}
	return out
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewValidationError builds a ValidationFailed error carrying the field messages.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidationFailed, Message: "validation failed", Fields: fields}
}

var (
	ErrUnauthenticated   = NewError(KindUnauthenticated, "authentication required")
	ErrNotAuthorized     = NewError(KindNotAuthorized, "not authorized to access this resource")
	ErrValidationFailed  = NewError(KindValidationFailed, "validation failed")
	ErrInvalidType       = NewError(KindInvalidType, "station type must be AC or DC")
	ErrStationNotFound   = NewError(KindStationNotFound, "charging station not found")
	ErrEVOwnerNotFound   = NewError(KindEVOwnerNotFound, "EV owner not found")
	ErrAlreadyInState    = NewError(KindAlreadyInState, "already in requested state")
	ErrHasActiveBookings = NewError(KindHasActiveBookings, "station has active bookings")
	ErrConflict          = NewError(KindConflict, "resource already exists")
	ErrInternal          = NewError(KindInternal, "an internal error occurred")
)

// AsError extracts a *Error from err. Anything else is reported as a generic Internal error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return ErrInternal
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	return AsError(err).Kind
}
