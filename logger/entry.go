package logger

import (
	"context"
	"fmt"
)

type entryKey struct{}

// Entry is a logger bound to a single request. Every line it writes carries the
// request id so one request can be followed through the log.
type Entry struct {
	RequestID string
	prefix    string
}

// NewEntry returns an Entry tagging its lines with requestID.
func NewEntry(requestID string) *Entry {
	e := &Entry{RequestID: requestID}
	if requestID != "" {
		e.prefix = "[req " + requestID + "] "
	}
	return e
}

// NewContext returns a copy of ctx carrying e.
func NewContext(ctx context.Context, e *Entry) context.Context {
	return context.WithValue(ctx, entryKey{}, e)
}

// FromContext returns the Entry stored in ctx, or an untagged Entry.
func FromContext(ctx context.Context) *Entry {
	if ctx != nil {
		if e, ok := ctx.Value(entryKey{}).(*Entry); ok && e != nil {
			return e
		}
	}
	return NewEntry("")
}

func (e *Entry) Debugf(format string, args ...any) {
	Debugf(e.prefix+format, args...)
}

func (e *Entry) Infof(format string, args ...any) {
	Infof(e.prefix+format, args...)
}

func (e *Entry) Warningf(format string, args ...any) {
	Warningf(e.prefix+format, args...)
}

func (e *Entry) Errorf(format string, args ...any) {
	Errorf(e.prefix+format, args...)
}

func (e *Entry) Error(args ...any) {
	Error(e.prefix + fmt.Sprint(args...))
}

func (e *Entry) Warning(args ...any) {
	Warning(e.prefix + fmt.Sprint(args...))
}
