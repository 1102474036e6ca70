// Package common holds small error helpers shared across the console.
package common

import (
	"errors"
	"fmt"
	"net"

	"github.com/solo-blog/console/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprint(a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors, returning nil when there are none.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// IsClosedConnError reports whether err comes from using a closed listener or
// connection.
func IsClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

// Recover logs a recovered panic under msg. It must be deferred directly.
func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, " panic: ", panicErr)
		}
	}
	return panicErr
}
