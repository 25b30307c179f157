package ec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks requests that were rejected before any hardware
	// access happened (bad fan id, level, curve value or mode string).
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnexpectedValue marks register contents outside the known mapping.
	ErrUnexpectedValue = errors.New("unexpected register value")

	// ErrQueueUnavailable is returned when an operation is submitted while
	// the command queue worker is not running.
	ErrQueueUnavailable = errors.New("EC command queue unavailable")

	// ErrCommunicationTimeout is returned when the worker went away without
	// answering a pending request.
	ErrCommunicationTimeout = errors.New("EC communication timeout")
)

func invalidInputf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, a...)...)
}

func unexpectedValuef(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrUnexpectedValue}, a...)...)
}
