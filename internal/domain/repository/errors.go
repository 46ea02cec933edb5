package repository

import "errors"

// Sentinels que los adapters retornan (envueltos con %w). http/errors los traduce
// a 404, 409, 422 y 503.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")            // id o membresía duplicada
	ErrInvalidInput = errors.New("invalid input")       // check/foreign key, campos vacíos
	ErrUnavailable  = errors.New("storage unavailable") // breaker abierto
)

// IsNotFound reporta si err envuelve ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
