package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestWrapGatewayAPIErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		wantStatus int
		wantMsg    string
	}{
		{"rate limit", http.StatusTooManyRequests, http.StatusTooManyRequests, RateLimitMessage},
		{"credits", http.StatusPaymentRequired, http.StatusPaymentRequired, CreditsMessage},
		{"upstream 500", http.StatusInternalServerError, http.StatusInternalServerError, GatewayErrorMessage},
		{"upstream 400", http.StatusBadRequest, http.StatusInternalServerError, GatewayErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapGateway(genai.APIError{Code: tt.code, Message: "upstream says no"})
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.wantStatus, wrapped.Status)
			assert.Equal(t, tt.wantMsg, wrapped.Message)
		})
	}
}

func TestWrapGatewayStringSniffing(t *testing.T) {
	err := WrapGateway(errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"))
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, RateLimitMessage, err.Message)

	err = WrapGateway(errors.New("status 402: payment required"))
	assert.Equal(t, http.StatusPaymentRequired, err.Status)

	err = WrapGateway(errors.New("connection reset by peer"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, GatewayErrorMessage, err.Message)
}

func TestWrapGatewayNil(t *testing.T) {
	assert.Nil(t, WrapGateway(nil))
}

func TestIsQuota(t *testing.T) {
	assert.True(t, IsQuota(New(nil, http.StatusTooManyRequests, RateLimitMessage)))
	assert.True(t, IsQuota(New(nil, http.StatusPaymentRequired, CreditsMessage)))
	assert.False(t, IsQuota(New(nil, http.StatusInternalServerError, GatewayErrorMessage)))
	assert.False(t, IsQuota(errors.New("plain error")))
}

func TestStatusAndMessageDefaults(t *testing.T) {
	plain := errors.New("plain error")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(plain))
	assert.Equal(t, SystemErrorMessage, MessageOf(plain))

	wrapped := fmt.Errorf("handler: %w", New(nil, http.StatusTooManyRequests, RateLimitMessage))
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(wrapped), "status survives wrapping")
	assert.Equal(t, RateLimitMessage, MessageOf(wrapped))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(cause, http.StatusInternalServerError, SystemErrorMessage)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}
