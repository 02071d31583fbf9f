package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransientKinds(t *testing.T) {
	tests := []struct {
		kind      Kind
		transient bool
	}{
		{KindMissingCredential, false},
		{KindInvalidResponse, false},
		{KindRateLimited, true},
		{KindServerError, true},
		{KindNetworkError, true},
		{KindTimeout, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			err := NewError("stub", tc.kind, 0, errors.New("boom"))
			require.Equal(t, tc.transient, err.Transient())
		})
	}
}

func TestKindForStatus(t *testing.T) {
	require.Equal(t, KindMissingCredential, KindForStatus(401))
	require.Equal(t, KindMissingCredential, KindForStatus(403))
	require.Equal(t, KindRateLimited, KindForStatus(429))
	require.Equal(t, KindServerError, KindForStatus(500))
	require.Equal(t, KindServerError, KindForStatus(503))
	require.Equal(t, KindInvalidResponse, KindForStatus(400))
	require.Equal(t, KindInvalidResponse, KindForStatus(404))
}

func TestKindForTransport(t *testing.T) {
	require.Equal(t, KindTimeout, KindForTransport(context.DeadlineExceeded))
	require.Equal(t, KindTimeout, KindForTransport(fmt.Errorf("attempt: %w", context.DeadlineExceeded)))
	require.Equal(t, KindNetworkError, KindForTransport(errors.New("connection refused")))
}

func TestAsClassifiedUnwrapsChains(t *testing.T) {
	inner := NewError("openai", KindRateLimited, 429, errors.New("slow down"))
	wrapped := fmt.Errorf("transcribe: %w", inner)

	classified, ok := AsClassified(wrapped)
	require.True(t, ok)
	require.Equal(t, KindRateLimited, classified.Kind)
	require.Equal(t, "openai", classified.Provider)

	_, ok = AsClassified(errors.New("plain"))
	require.False(t, ok)
}

func TestErrorStringIncludesStatus(t *testing.T) {
	err := NewError("groq", KindServerError, 502, errors.New("bad gateway"))
	require.Contains(t, err.Error(), "groq")
	require.Contains(t, err.Error(), "HTTP 502")
}
