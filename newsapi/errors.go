package newsapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"unicode/utf8"

	"github.com/kbukum/newsfeed/errors"
	"github.com/kbukum/newsfeed/httpclient"
)

// Error kinds reported by ErrorKind.
const (
	KindInvalidRequestError    = "invalid_request"
	KindTransportOrDecodeError = "transport_or_decode"
	KindCanceledError          = "canceled"
)

// maxErrorBody caps the upstream body kept in error details.
const maxErrorBody = 512

// IsInvalidRequest reports whether err failed before any network I/O.
func IsInvalidRequest(err error) bool {
	return errors.CodeOf(err) == errors.ErrCodeInvalidRequest
}

// IsTransportOrDecode reports whether err came from the round trip or from
// decoding its body.
func IsTransportOrDecode(err error) bool {
	return errors.IsUpstreamCode(errors.CodeOf(err))
}

// ErrorKind returns the error kind name used in logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsInvalidRequest(err):
		return KindInvalidRequestError
	case stderrors.Is(err, context.Canceled):
		return KindCanceledError
	default:
		return KindTransportOrDecodeError
	}
}

// Reason narrows a transport or decode error to transport, status or decode.
func Reason(err error) string {
	switch errors.CodeOf(err) {
	case errors.ErrCodeInvalidRequest:
		return "invalid_request"
	case errors.ErrCodeUpstreamStatus:
		return "status"
	case errors.ErrCodeDecodeFailed:
		return "decode"
	case errors.ErrCodeUpstreamUnavailable, errors.ErrCodeTimeout,
		errors.ErrCodeRateLimited, errors.ErrCodeCircuitOpen:
		return "transport"
	}
	return ""
}

// apiError is the body newsapi.org sends with a failed request.
type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// translate maps an httpclient error to an application error. Cancellation
// is returned as the context error so it is never counted as an upstream
// failure.
func translate(ctx context.Context, err error) error {
	var hErr *httpclient.Error
	if !stderrors.As(err, &hErr) {
		return errors.UpstreamUnavailable(ServiceName, err)
	}

	switch hErr.Code {
	case httpclient.ErrCodeCanceled:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("newsapi: fetch canceled: %w", ctxErr)
		}
		return fmt.Errorf("newsapi: fetch canceled: %w", context.Canceled)
	case httpclient.ErrCodeTimeout:
		return errors.Timeout("newsapi.fetch").WithCause(err)
	case httpclient.ErrCodeConnection:
		return errors.UpstreamUnavailable(ServiceName, err)
	case httpclient.ErrCodeCircuitOpen:
		return errors.CircuitOpen(ServiceName).WithCause(err)
	case httpclient.ErrCodeDecode:
		return errors.DecodeFailed(ServiceName, err)
	case httpclient.ErrCodeRateLimit:
		if hErr.StatusCode == 0 {
			return errors.RateLimited().WithCause(err)
		}
	case httpclient.ErrCodeValidation:
		if hErr.StatusCode == 0 {
			return errors.InvalidRequest(hErr.Message).WithCause(err)
		}
	}

	appErr := errors.UpstreamStatus(ServiceName, hErr.StatusCode, truncate(string(hErr.Body), maxErrorBody))
	if body := parseAPIError(hErr.Body); body.Code != "" {
		appErr.WithDetail("upstream_code", body.Code).WithDetail("upstream_message", body.Message)
	}
	return appErr.WithCause(err)
}

func parseAPIError(body []byte) apiError {
	var e apiError
	_ = json.Unmarshal(body, &e)
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
