package service

import (
	"errors"
	"fmt"

	"github.com/okian/synthorbit/internal/domain/model"
)

// Error kinds returned by the service. Match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
	ErrNotStarted = errors.New("service not started")
)

// MsgInternal is shown to clients for storage failures.
const MsgInternal = "Error interno. Inténtalo de nuevo."

// Error carries the failing operation, its kind and the message safe to show
// to clients.
type Error struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message returns the client-facing message of err, or MsgInternal when err
// does not carry one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return MsgInternal
}

func validationError(op string, err error) error {
	msg := err.Error()
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		msg = ve.Msg
	}
	return &Error{Op: op, Kind: ErrValidation, Msg: msg, Err: err}
}

func notFoundError(op, msg string, err error) error {
	return &Error{Op: op, Kind: ErrNotFound, Msg: msg, Err: err}
}

func storageError(op string, err error) error {
	return &Error{Op: op, Kind: ErrStorage, Msg: MsgInternal, Err: err}
}
