package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openwhisper/openwhisper/internal/provider"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("", "whisper-1")
	require.Error(t, err)

	_, err = New("   ", "whisper-1")
	require.Error(t, err)
}

func TestNewDefaultsModel(t *testing.T) {
	client, err := New("sk-test", "")
	require.NoError(t, err)
	require.Equal(t, defaultModel, client.model)
	require.Equal(t, "openai", client.Name())
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	client, err := New("sk-test", "whisper-1")
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), nil, provider.Request{})
	classified, ok := provider.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, provider.KindInvalidResponse, classified.Kind)
	require.False(t, classified.Transient())
}

func TestClassifyPassesThroughCancellation(t *testing.T) {
	err := classify(context.Canceled)
	require.ErrorIs(t, err, context.Canceled)
	_, ok := provider.AsClassified(err)
	require.False(t, ok)
}

func TestClassifyTransportErrors(t *testing.T) {
	classified, ok := provider.AsClassified(classify(context.DeadlineExceeded))
	require.True(t, ok)
	require.Equal(t, provider.KindTimeout, classified.Kind)

	classified, ok = provider.AsClassified(classify(errors.New("dial tcp: connection refused")))
	require.True(t, ok)
	require.Equal(t, provider.KindNetworkError, classified.Kind)
	require.True(t, classified.Transient())
}
