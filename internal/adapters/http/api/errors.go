package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// Wrap annotates err with the operation that failed.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind annotates err with op and classifies it as kind. Both kind and err
// remain reachable through errors.Is and errors.As.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// KindError is an error of a known kind whose Message is safe to return to
// clients.
type KindError struct {
	Op      string
	Kind    error
	Message string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Message)
}

func (e *KindError) Unwrap() error { return e.Kind }

// NewKind creates an error of the given kind with a client-facing message.
func NewKind(op string, kind error, msg string) error {
	return &KindError{Op: op, Kind: kind, Message: msg}
}
