package errors

import (
	"maps"
	"slices"
)

// ErrorCategory says what went wrong from the user's point of view. It also picks the exit code.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"     // doctool.yaml unreadable or invalid
	CategoryValidation ErrorCategory = "validation" // bad flag value, refused overwrite
	CategoryNotFound   ErrorCategory = "not_found"  // Doxyfile, mkdocs.yml or a tool binary missing
	CategoryProcess    ErrorCategory = "process"    // doxygen/mkdocs could not start or exited non-zero
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime" // interrupted, terminal I/O
	CategoryInternal   ErrorCategory = "internal"
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   4,
	CategoryConfig:     7,
	CategoryInternal:   10,
	CategoryProcess:    11,
	CategoryFileSystem: 11,
	CategoryRuntime:    12,
}

// ExitCode returns the process exit status for errors of this category (1 when unknown).
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity decides whether the CLI logs the error before exiting.
type ErrorSeverity string

const (
	SeverityFatal ErrorSeverity = "fatal"
	SeverityError ErrorSeverity = "error"
)

// ErrorContext carries details such as path, command or exit_code. It is never mutated after
// an error is built; with returns a copy.
type ErrorContext map[string]any

func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}

// String returns the string stored under key.
func (c ErrorContext) String(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// Int returns the int stored under key.
func (c ErrorContext) Int(key string) (int, bool) {
	n, ok := c[key].(int)
	return n, ok
}

// Keys returns the context keys in sorted order.
func (c ErrorContext) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}
