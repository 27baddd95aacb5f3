package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors. These fail before any network I/O.
const (
	// ErrCodeInvalidRequest indicates a news request that cannot be turned into a URL.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeInvalidInput indicates invalid input from an API caller.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Upstream errors. The request was sent (or attempted) and failed.
const (
	// ErrCodeUpstreamUnavailable indicates a transport failure reaching the news API.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeUpstreamStatus indicates the news API answered with a non-2xx status.
	ErrCodeUpstreamStatus ErrorCode = "UPSTREAM_STATUS"
	// ErrCodeDecodeFailed indicates a response body that does not match the expected shape.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the local or remote rate limit was hit.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeCircuitOpen indicates the circuit breaker rejected the call.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
)

// Service errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeServiceUnavailable indicates a local component is not ready.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstreamUnavailable: true,
	ErrCodeTimeout:             true,
	ErrCodeRateLimited:         true,
	ErrCodeCircuitOpen:         true,
	ErrCodeServiceUnavailable:  true,
}

// upstreamCodes covers every code produced after a request left the process.
var upstreamCodes = map[ErrorCode]bool{
	ErrCodeUpstreamUnavailable: true,
	ErrCodeUpstreamStatus:      true,
	ErrCodeDecodeFailed:        true,
	ErrCodeTimeout:             true,
	ErrCodeRateLimited:         true,
	ErrCodeCircuitOpen:         true,
}

// IsRetryableCode returns true if the error code indicates a transient failure.
// newsfeed never retries on its own; the flag is reported to API callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsUpstreamCode reports whether code describes a transport or decode failure.
func IsUpstreamCode(code ErrorCode) bool {
	return upstreamCodes[code]
}
