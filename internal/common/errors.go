package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorForbidden        = errors.New("forbidden")
	ErrorWrongCredentials = errors.New("wrong credentials")

	// Token errors. Both are reported together with ErrorUnauthorized.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Third-party call failures.
	ErrorConnection = errors.New("connection error")
	ErrorTimeout    = errors.New("timeout")
)

// LogicError reports a violated business rule. Its message is safe to show to
// API callers; Kind keeps it matchable with errors.Is.
type LogicError struct {
	Kind error
	Msg  string
}

// NewLogicError builds a LogicError of the given kind.
func NewLogicError(kind error, msg string) *LogicError {
	return &LogicError{Kind: kind, Msg: msg}
}

func (e *LogicError) Error() string { return e.Msg }

func (e *LogicError) Unwrap() error { return e.Kind }
