package errx

import (
	"errors"
	"fmt"
)

// Kind classifies failures by how the relay recovers from them.
type Kind int

const (
	KindUnexpected Kind = iota
	// KindInput is an empty or malformed inbound message, answered locally.
	KindInput
	// KindServiceExhausted means every completion attempt failed.
	KindServiceExhausted
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindServiceExhausted:
		return "service_exhausted"
	default:
		return "unexpected"
	}
}

// SystemErrorMessage is the user-facing reply when nothing more specific applies.
const SystemErrorMessage = "Desculpe, ocorreu um erro ao processar a sua mensagem. Tente novamente em instantes."

// AppError wraps an underlying error with its kind and a reply that is safe to
// send back to the user.
type AppError struct {
	Err     error
	Kind    Kind
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(err error, kind Kind, message string) *AppError {
	return &AppError{
		Err:     err,
		Kind:    kind,
		Message: message,
	}
}

// KindOf reports the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// UserMessage returns the safe reply carried by err, or fallback when err
// carries none.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if fallback == "" {
		return SystemErrorMessage
	}
	return fallback
}
