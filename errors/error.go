// Package errors provides the engine's typed error taxonomy so call sites
// can branch on what went wrong without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

type (
	// EngineError is the base of every error the engine returns for its
	// own failures (as opposed to a child process's exit status).
	EngineError struct {
		reason string
	}

	errSyscall struct {
		*EngineError
		errno int
	}

	errUsage struct {
		*EngineError
	}

	errUnknownNode struct {
		*EngineError
	}

	errNotBuiltin struct {
		*EngineError
	}
)

// NewError builds a plain EngineError with a formatted reason.
func NewError(format string, arg ...interface{}) *EngineError {
	e := &EngineError{}
	e.SetReason(format, arg...)
	return e
}

// SetReason overwrites the formatted reason.
func (e *EngineError) SetReason(format string, arg ...interface{}) {
	e.reason = fmt.Sprintf(format, arg...)
}

// Error implements the error interface.
func (e *EngineError) Error() string { return e.reason }

// NewSyscallError wraps a system-call failure, remembering its errno so
// exit status computation can clamp it into [0,255].
func NewSyscallError(errno int, format string, arg ...interface{}) error {
	return &errSyscall{
		EngineError: NewError(format, arg...),
		errno:       errno,
	}
}

// Errno returns the errno that caused the failure.
func (e *errSyscall) Errno() int { return e.errno }

// SyscallFailure marks e as a syscall-failure error.
func (e *errSyscall) SyscallFailure() bool { return true }

// NewUsageError builds a usage error (built-in called with wrong
// arguments). It carries no status of its own: builtins pair it with 1,
// except exit with a non-numeric argument, which uses 2.
func NewUsageError(format string, arg ...interface{}) error {
	return &errUsage{EngineError: NewError(format, arg...)}
}

// UsageError marks e as a usage error.
func (e *errUsage) UsageError() bool { return true }

// NewUnknownNodeError builds an unknown-node-kind error.
func NewUnknownNodeError(format string, arg ...interface{}) error {
	return &errUnknownNode{EngineError: NewError(format, arg...)}
}

// UnknownNode marks e as an unknown-node-kind error.
func (e *errUnknownNode) UnknownNode() bool { return true }

// ErrNotBuiltin is the error sh.Dispatch attaches to its BuiltinResult when
// argv[0] doesn't name a builtin, alongside the type-safe Handled() check.
var ErrNotBuiltin = &errNotBuiltin{EngineError: NewError("not a builtin")}

// NotBuiltin reports whether err is (or wraps) ErrNotBuiltin.
func NotBuiltin(err error) bool {
	var target *errNotBuiltin
	return stderrors.As(err, &target)
}

// Errno extracts the errno carried by a syscall-failure error, or 0 if err
// does not carry one.
func Errno(err error) int {
	if e, ok := err.(*errSyscall); ok {
		return e.errno
	}
	return 0
}

// IsUsageError reports whether err is a usage error.
func IsUsageError(err error) bool {
	type usageErr interface{ UsageError() bool }
	e, ok := err.(usageErr)
	return ok && e.UsageError()
}

// IsSyscallFailure reports whether err is a syscall-failure error.
func IsSyscallFailure(err error) bool {
	type syscallErr interface{ SyscallFailure() bool }
	e, ok := err.(syscallErr)
	return ok && e.SyscallFailure()
}
