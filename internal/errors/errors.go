// Package errors holds the typed Go errors used across the server:
// config/build-file errors, filesystem errors, and the request-level
// failure wrapper surfaced over LSP. Parse errors and model-validation
// events are carried as data values elsewhere, not as types here.
package errors

import (
	"fmt"
	"time"
)

// Type classifies an error for logging/metrics and for deciding whether a
// request should fail outright or degrade gracefully.
type Type string

const (
	TypeParse      Type = "parse"
	TypeModel      Type = "model"
	TypeConfig     Type = "config"
	TypeIO         Type = "io"
	TypeRequest    Type = "request"
	TypeInternal   Type = "internal"
)

// ConfigError reports a structural problem in a build/config file.
type ConfigError struct {
	Section    string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError builds a ConfigError for the given config section/path.
func NewConfigError(section, path string, err error) *ConfigError {
	return &ConfigError{Section: section, Path: path, Underlying: err, Timestamp: time.Now()}
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s (%s): %v", e.Section, e.Path, e.Underlying)
	}
	return fmt.Sprintf("config %s: %v", e.Section, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// IOError wraps a filesystem failure (read/stat/watch) with the path that
// triggered it, so handlers can decide whether to fall back to an
// in-memory managed document instead of failing the request.
type IOError struct {
	Op         string
	Path       string
	Underlying error
}

func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Underlying: err}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io %s %s: %v", e.Op, e.Path, e.Underlying)
}

func (e *IOError) Unwrap() error { return e.Underlying }

// RequestFailed is the request-level failure wrapper: a handler that
// cannot satisfy a request (unresolvable shape, unreadable file, detached
// project with no fallback) returns this rather than a bare error, so the
// dispatcher can render an LSP-appropriate error response without losing
// the underlying cause.
type RequestFailed struct {
	Method     string
	Reason     string
	Underlying error
}

func NewRequestFailed(method, reason string, err error) *RequestFailed {
	return &RequestFailed{Method: method, Reason: reason, Underlying: err}
}

func (e *RequestFailed) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Method, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("%s failed: %s", e.Method, e.Reason)
}

func (e *RequestFailed) Unwrap() error { return e.Underlying }
