package model

import "errors"

// ErrInvalid is the kind behind every ValidationError.
var ErrInvalid = errors.New("invalid input")

// Client-facing messages. The web client shows these verbatim.
const (
	MsgPerformerRequired     = "Nombre y DNI obligatorios."
	MsgPerformerIDRequired   = "performerId es obligatorio."
	MsgEventRequired         = "sessionId y eventType obligatorios."
	MsgSessionIDRequired     = "sessionId es obligatorio."
	MsgCompositionIncomplete = "Faltan datos para guardar composición."
	MsgCompositionNotFound   = "Composición no encontrada."
	MsgSessionNotFound       = "Sesión no encontrada."
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}
