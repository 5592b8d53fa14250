// Package errors provides user-friendly error types with detailed messages and recovery suggestions.
//
// This package defines custom error types that provide clear, actionable error messages
// to end users. Unlike standard Go errors, these errors include:
//   - Human-readable problem descriptions
//   - Suggested solutions or recovery actions
//   - Context about what the user was trying to do
//
// Example usage:
//
//	if len(ports) == 0 {
//	    return errors.InvalidPortRangeError(raw, err)
//	}
//
// Error Types:
//
// UserError: End-user facing errors with recovery guidance
//   - Code: machine-readable identifier
//   - Message: what went wrong
//   - Details: specific information about the error
//   - Suggestion: how to fix it
//   - WrappedErr: the underlying error, if any
//
// Pre-defined Errors:
//
// The package includes one constructor per fatal condition the scanner can
// hit: InvalidPortRangeError, PortBudgetExceededError, InvalidScanTokenError,
// NoValidTargetError, SourceDiscoveryError, RawSocketError, ConfigLoadError,
// TimeoutError.
//
// Integration:
//
// These errors implement the standard error interface, so they work
// seamlessly with errors.As / errors.Is:
//
//	var userErr *errors.UserError
//	if errors.As(err, &userErr) {
//	    fmt.Fprintln(os.Stderr, userErr.Error())
//	}
package errors
