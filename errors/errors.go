package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // module loading
	PhaseAssemble Phase = "assemble" // text-format assembly
	PhaseConvert  Phase = "convert"  // binary/text conversion
	PhaseRewrite  Phase = "rewrite"  // in-process module rewriting
	PhaseRuntime  Phase = "runtime"  // instantiation and invocation
	PhaseSyscall  Phase = "syscall"  // WASI emulation
	PhaseInspect  Phase = "inspect"  // export introspection
)

// Kind categorizes the error
type Kind string

const (
	KindIO          Kind = "io"
	KindCompilation Kind = "compilation"
	KindNotFound    Kind = "not_found"
	KindUnsupported Kind = "unsupported"
	KindInvalidData Kind = "invalid_data"
	KindExit        Kind = "exit"
)

// Error is the structured error type used throughout the toolkit
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IO creates an I/O error for unreadable sources and failed temp-file
// operations. These abort the current operation and are never retried.
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Compilation creates an error for an external tool that exited non-zero.
// The tool's diagnostic text is passed through verbatim.
func Compilation(tool, diagnostic string) *Error {
	return &Error{
		Phase:  PhaseAssemble,
		Kind:   KindCompilation,
		Detail: fmt.Sprintf("%s: %s", tool, strings.TrimSpace(diagnostic)),
	}
}

// FunctionNotFound creates an error for an export name absent from the
// instantiated module's export table.
func FunctionNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("function %q not found", name),
	}
}

// NotFound creates a generic not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInvalidData,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// ExitError signals that the guest terminated the invocation, either by
// calling the exit syscall with a non-zero code or by hitting the abort
// hook. A zero exit code is the sole non-error termination path and is
// swallowed by the invocation driver, so an ExitError that reaches the
// caller always describes a failure.
type ExitError struct {
	Code    uint32
	Aborted bool
	Message string
}

func (e *ExitError) Error() string {
	if e.Aborted {
		if e.Message != "" {
			return fmt.Sprintf("[runtime] exit: abort: %s", e.Message)
		}
		return "[runtime] exit: abort"
	}
	return fmt.Sprintf("[runtime] exit: module exited with code %d", e.Code)
}

// Is reports whether target matches this error type
func (e *ExitError) Is(target error) bool {
	_, ok := target.(*ExitError)
	return ok
}
