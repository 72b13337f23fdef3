package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basappa1234/resume-screening-agent/internal/screening"
)

func TestClassifyGatewayErrorContextDeadline(t *testing.T) {
	gwErr := classifyGatewayError(context.DeadlineExceeded)

	require.NotNil(t, gwErr)
	assert.Equal(t, screening.GatewayTimeout, gwErr.Kind)
}

func TestClassifyGatewayErrorByMessage(t *testing.T) {
	cases := []struct {
		message string
		kind    screening.GatewayErrorKind
	}{
		{"RESOURCE_EXHAUSTED: quota exceeded", screening.GatewayRateLimit},
		{"rate limit exceeded, retry later", screening.GatewayRateLimit},
		{"error 429 too many requests", screening.GatewayRateLimit},
		{"API key not valid", screening.GatewayAuth},
		{"PERMISSION_DENIED: caller lacks access", screening.GatewayAuth},
		{"request failed with status 401", screening.GatewayAuth},
		{"deadline exceeded while awaiting response", screening.GatewayTimeout},
		{"connection refused", screening.GatewayNetwork},
		{"server UNAVAILABLE, try again", screening.GatewayNetwork},
		{"something inexplicable happened", screening.GatewayUnknown},
	}

	for _, tc := range cases {
		gwErr := classifyGatewayError(errors.New(tc.message))
		require.NotNil(t, gwErr, tc.message)
		assert.Equal(t, tc.kind, gwErr.Kind, tc.message)
	}
}

func TestClassifyGatewayErrorWrapsOriginal(t *testing.T) {
	original := errors.New("connection refused")

	gwErr := classifyGatewayError(original)

	assert.ErrorIs(t, gwErr, original)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(screening.GatewayRateLimit))
	assert.True(t, isRetryable(screening.GatewayTimeout))
	assert.True(t, isRetryable(screening.GatewayNetwork))
	assert.False(t, isRetryable(screening.GatewayAuth))
	assert.False(t, isRetryable(screening.GatewayUnknown))
}
