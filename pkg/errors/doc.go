// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// The codes map onto the failure classes of a generation run: invalid input
// (ErrCodeInvalidRequest), pre-conditions on the filesystem (ErrCodeAlreadyExists,
// ErrCodeNotFound) and rejected output (ErrCodeValidationFailed).
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeValidationFailed,
//	    "helm template failed",
//	    runErr,
//	    map[string]any{
//	        "chart": chartDir,
//	    },
//	)
package errors
