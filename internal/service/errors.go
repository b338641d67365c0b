package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/sdp_shop/pkg/i18n"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// Error is a caller-facing failure. Kind is one of the sentinels above, Key
// names the message shown to the caller and Args fill its verbs.
type Error struct {
	Kind  error
	Field string
	Key   i18n.Key
	Args  []any
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalid(field string, key i18n.Key) error {
	return &Error{Kind: ErrValidation, Field: field, Key: key}
}

func conflict(field string, key i18n.Key, args ...any) error {
	return &Error{Kind: ErrConflict, Field: field, Key: key, Args: args}
}

func notFound(key i18n.Key, cause error) error {
	return &Error{Kind: ErrNotFound, Key: key, Err: cause}
}
