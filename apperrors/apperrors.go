// Package apperrors defines the error taxonomy shared by the MCF core.
// Every error raised by the branch lifecycle carries a stable Kind so that
// callers (and the HTTP adapter) can map it without string matching.
package apperrors

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an application error.
type Kind int

const (
	// KindDataFormat is malformed input: bad identifier grammar, invalid
	// option type, failed field validator. Recoverable by the caller.
	KindDataFormat Kind = iota
	// KindNotFound is a missing org, project, branch or source reference.
	KindNotFound
	// KindPermission is an authenticated but unauthorized request.
	KindPermission
	// KindOperation is a well-formed, authorized request that violates a
	// domain invariant (duplicate id, protected root branch, archived lock).
	KindOperation
	// KindDatabase is a store rejection or a failed post-write integrity
	// check. Server-side fault.
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindDataFormat:
		return "DataFormatError"
	case KindNotFound:
		return "NotFoundError"
	case KindPermission:
		return "PermissionError"
	case KindOperation:
		return "OperationError"
	case KindDatabase:
		return "DatabaseError"
	}
	return "UnknownError"
}

// AppError is the concrete error type for the taxonomy. Cause may be nil.
type AppError struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the cause to errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// NewDataFormatError builds a KindDataFormat error.
func NewDataFormatError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindDataFormat, Msg: fmt.Sprintf(format, args...)}
}

// NewNotFoundError builds a KindNotFound error.
func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// NewPermissionError builds a KindPermission error.
func NewPermissionError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

// NewOperationError builds a KindOperation error.
func NewOperationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindOperation, Msg: fmt.Sprintf(format, args...)}
}

// NewDatabaseError builds a KindDatabase error wrapping the store failure.
func NewDatabaseError(cause error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindDatabase, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf reports the Kind of err, or KindDatabase for foreign errors so
// that unclassified store failures surface as server-side faults.
func KindOf(err error) Kind {
	if ae, ok := err.(*AppError); ok {
		return ae.Kind
	}
	return KindDatabase
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, k Kind) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Kind == k
}

// CombineErrors preserves both the original failure and a subsequent
// cleanup failure in one error. Compensating rollback must never mask the
// root cause with its own failure.
func CombineErrors(original, cleanup error) error {
	if cleanup == nil {
		return original
	}
	if original == nil {
		return cleanup
	}
	return &AppError{
		Kind:  KindDatabase,
		Msg:   fmt.Sprintf("cleanup failed after error (cleanup: %v)", cleanup),
		Cause: original,
	}
}

// EnumerateIDs renders a sorted, comma-separated id list for batch error
// messages. Batch operations report every offending id, not just the first.
func EnumerateIDs(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
