package errx

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// WrapGateway maps chat-completion gateway errors to the unified AppError
// type. Quota errors keep their distinct status codes (429, 402) so the
// handler can surface them verbatim; everything else becomes a generic
// gateway failure the handler turns into a 500 with a friendly fallback.
func WrapGateway(err error) *AppError {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return New(err, http.StatusTooManyRequests, RateLimitMessage)
		case http.StatusPaymentRequired:
			return New(err, http.StatusPaymentRequired, CreditsMessage)
		}
		return New(err, http.StatusInternalServerError, GatewayErrorMessage)
	}

	// Some transports flatten the upstream status into the error string.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return New(err, http.StatusTooManyRequests, RateLimitMessage)
	case strings.Contains(msg, "402"):
		return New(err, http.StatusPaymentRequired, CreditsMessage)
	}
	return New(err, http.StatusInternalServerError, GatewayErrorMessage)
}

// IsQuota reports whether err is one of the upstream-quota classes that are
// surfaced to the caller without the generic fallback response body.
func IsQuota(err error) bool {
	status := StatusOf(err)
	return status == http.StatusTooManyRequests || status == http.StatusPaymentRequired
}
