package errors

import (
	"errors"
	"fmt"
	"sync"
)

// Errors collects independent failures, e.g. while closing connections.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = nil
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}

// newError wraps the sentinel err so that errors.Is keeps matching it.
// The format may carry its own %w verb for an underlying cause.
func newError(err error, format string, args ...any) error {
	if err == nil {
		return fmt.Errorf("sftptest: "+format, args...)
	}

	return fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
}

// Is and As forward to the standard library so callers importing this
// package need no second errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
