// Package errors provides structured error handling for the Weft toolkit.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindCallback indicates a failure inside a user-supplied change callback.
	KindCallback
	// KindConfig indicates a configuration load or parse error.
	KindConfig
	// KindTree indicates a widget tree consistency error.
	KindTree
	// KindRender indicates a rendering error.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindCallback:
		return "callback"
	case KindConfig:
		return "config"
	case KindTree:
		return "tree"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// WeftError represents a structured error in the Weft toolkit.
type WeftError struct {
	// Op is the operation that failed (e.g., "window.LoadAttributes").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *WeftError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *WeftError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "reactive.Dynamic.Set").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the Weft toolkit.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *WeftError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
