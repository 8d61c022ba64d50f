package domain

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)

// ErrAccountNotFound is returned by repositories when no account has the id.
// The account service turns it into a found=false result.
var ErrAccountNotFound = errors.New("account not found")

// Error is a client-facing failure with a kind and a message safe to render.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Validation builds an ErrValidation failure.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Msg: msg}
}

// Conflict builds an ErrConflict failure.
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}
