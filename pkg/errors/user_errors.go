package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error with user-friendly message and recovery suggestions
type UserError struct {
	Code       string
	Message    string
	Details    string
	Suggestion string
	WrappedErr error
}

func (e *UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Details != "" {
		parts = append(parts, fmt.Sprintf("Details: %s", e.Details))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Try: %s", e.Suggestion))
	}

	if e.WrappedErr != nil {
		parts = append(parts, fmt.Sprintf("(Error: %v)", e.WrappedErr))
	}

	return strings.Join(parts, "\n")
}

func (e *UserError) Unwrap() error {
	return e.WrappedErr
}

// Common error constructors

func InvalidPortRangeError(spec string, err error) *UserError {
	return &UserError{
		Code:       "INVALID_PORT_RANGE",
		Message:    fmt.Sprintf("Invalid port specification: '%s'", spec),
		Details:    "Ports must be between 1 and 65535",
		Suggestion: "Use formats like '80,443' or '1-1024' or '8000-9000'",
		WrappedErr: err,
	}
}

func PortBudgetExceededError(requested, max int) *UserError {
	return &UserError{
		Code:       "PORT_BUDGET_EXCEEDED",
		Message:    fmt.Sprintf("Too many ports requested: %d", requested),
		Details:    fmt.Sprintf("A single invocation cannot scan more than %d ports", max),
		Suggestion: "Narrow the --ports range or split the scan into multiple invocations",
	}
}

func InvalidScanTokenError(token string) *UserError {
	return &UserError{
		Code:       "INVALID_SCAN_TOKEN",
		Message:    fmt.Sprintf("Unknown scan technique: '%s'", token),
		Details:    "Recognized techniques are syn, null, ack, fin, xmas, udp",
		Suggestion: "Use --scans syn,udp or similar, comma-separated and case-insensitive",
	}
}

func NoValidTargetError(err error) *UserError {
	return &UserError{
		Code:       "NO_VALID_TARGET",
		Message:    "No target specified",
		Details:    "A target host, hostname, or host file is required for scanning",
		Suggestion: "Provide a target like 'synprobe scan 192.168.1.1' or 'synprobe scan example.com'",
		WrappedErr: err,
	}
}

func SourceDiscoveryError(err error) *UserError {
	return &UserError{
		Code:       "SOURCE_DISCOVERY_FAILED",
		Message:    "Could not determine the outbound source address",
		Details:    "The scanner dials out to determine which local interface owns the default route",
		Suggestion: "Check network connectivity, or pass --source-ip to set it explicitly",
		WrappedErr: err,
	}
}

func RawSocketError(operation string, err error) *UserError {
	return &UserError{
		Code:       "RAW_SOCKET_ERROR",
		Message:    fmt.Sprintf("Raw socket operation failed: %s", operation),
		Details:    "Raw sockets require CAP_NET_RAW or root privileges",
		Suggestion: "Try running with 'sudo', or grant CAP_NET_RAW to the binary",
		WrappedErr: err,
	}
}

func ConfigLoadError(path string, err error) *UserError {
	return &UserError{
		Code:       "CONFIG_ERROR",
		Message:    "Failed to load configuration",
		Details:    fmt.Sprintf("Could not read config from: %s", path),
		Suggestion: "Check the file exists and is valid YAML, or remove --config to use defaults",
		WrappedErr: err,
	}
}

func TimeoutError(timeoutMs int) *UserError {
	return &UserError{
		Code:       "TIMEOUT",
		Message:    "Operation timed out",
		Details:    fmt.Sprintf("No response received within %dms", timeoutMs),
		Suggestion: fmt.Sprintf("Try increasing --timeout to %d or check if the target is reachable", timeoutMs+100),
	}
}
