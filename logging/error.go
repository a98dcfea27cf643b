package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// stackTracer identifies errors that carry a stack trace,
// i.e. errors created with the github.com/pkg/errors library.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// errNoStackTrace wraps an error so that only its message is exposed.
type errNoStackTrace struct {
	e error
}

func (e errNoStackTrace) Error() string {
	return e.e.Error()
}

// Error returns a zap.Field for logging the provided error.
// Stack traces attached by the pkg/errors library are suppressed in the log output,
// the message alone is what the operator needs.
func Error(e error) zap.Field {
	if _, ok := e.(stackTracer); ok {
		return zap.Error(errNoStackTrace{e})
	}

	return zap.Error(e)
}
