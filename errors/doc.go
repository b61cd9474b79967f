// Package errors provides the structured error types used across the toolkit.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category) and render as "[phase] kind: detail (caused by: ...)".
// Matching with errors.Is compares phase and kind, so callers can test for
// a category without holding the original value:
//
//	if errors.Is(err, errors.FunctionNotFound("")) { ... }
//
// Guest termination is carried separately by ExitError, which records the
// exit code and whether the guest aborted rather than exiting.
package errors
