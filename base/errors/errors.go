// Package errors provides slog-backed error logging helpers that extend
// the standard library errors package. The core never retries on these
// paths; logging is the whole point.
package errors

import (
	"log/slog"
	"runtime"
	"strconv"
)

// Log logs the given error if it is non-nil and returns it unchanged.
// The intended usage is:
//
//	return errors.Log(registry.Remove(id))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error(), "at", callerInfo())
	}
	return err
}

// Log1 logs err if non-nil and returns v regardless.
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error(), "at", callerInfo())
	}
	return v
}

// Must panics if err is non-nil. Reserved for invariants the caller has
// already validated (e.g. a regexp compiled from a constant string).
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func callerInfo() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name() + " " + file + ":" + strconv.Itoa(line)
}
