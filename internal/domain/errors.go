package domain

import (
	"errors"
	"fmt"
)

// Kind is the stable, client-visible error category
type Kind string

const (
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidAmount     Kind = "invalid_amount"
	KindNotFound          Kind = "not_found"
	KindInvalidOperation  Kind = "invalid_operation"
	KindWalletBlocked     Kind = "wallet_blocked"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Error is returned by every service operation. Message is safe to show to
// callers; Err holds the underlying cause and is only meant for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors (empty Message) by kind, so
// errors.Is(err, ErrNotFound) holds for any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrInvalidAmount     = &Error{Kind: KindInvalidAmount}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidOperation  = &Error{Kind: KindInvalidOperation}
	ErrWalletBlocked     = &Error{Kind: KindWalletBlocked}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInternal          = &Error{Kind: KindInternal}
)

func Unauthorized(msg string) error     { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) error        { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidInput(msg string) error     { return &Error{Kind: KindInvalidInput, Message: msg} }
func InvalidAmount(msg string) error    { return &Error{Kind: KindInvalidAmount, Message: msg} }
func NotFound(msg string) error         { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidOperation(msg string) error { return &Error{Kind: KindInvalidOperation, Message: msg} }
func WalletBlocked(msg string) error    { return &Error{Kind: KindWalletBlocked, Message: msg} }
func InsufficientFunds(msg string) error {
	return &Error{Kind: KindInsufficientFunds, Message: msg}
}
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected storage or infrastructure failure.
// The cause never reaches the client.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err // Already classified
	}
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf classifies any error; unknown errors are internal
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// PublicMessage returns the text that may be shown to a caller
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInternal {
		if de.Message != "" {
			return de.Message
		}
		return string(de.Kind)
	}
	return "internal server error"
}
