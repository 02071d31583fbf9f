// Package groq implements the speech provider capability against the Groq
// audio transcription API. Groq exposes an OpenAI-compatible surface, so the
// client reuses the OpenAI SDK pointed at the Groq endpoint.
package groq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/openwhisper/openwhisper/internal/provider"
)

const (
	providerName   = "groq"
	defaultModel   = "whisper-large-v3"
	defaultBaseURL = "https://api.groq.com/openai/v1"
)

// Client transcribes WAV audio through the Groq API.
type Client struct {
	api   oai.Client
	model string
}

// New constructs a Groq transcription client from an already-resolved API key.
func New(apiKey string, model string, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("groq: api key must not be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}

	api := oai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &Client{api: api, model: model}, nil
}

// Name implements provider.Client.
func (c *Client) Name() string {
	return providerName
}

// Transcribe implements provider.Client.
func (c *Client) Transcribe(ctx context.Context, audio []byte, req provider.Request) (string, error) {
	if len(audio) == 0 {
		return "", provider.NewError(providerName, provider.KindInvalidResponse, 0, errors.New("no audio payload"))
	}

	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}

	params := oai.AudioTranscriptionNewParams{
		File:  oai.File(bytes.NewReader(audio), "audio.wav", "audio/wav"),
		Model: oai.AudioModel(model),
	}
	if req.Language != "" {
		params.Language = oai.String(req.Language)
	}
	if req.Prompt != "" {
		params.Prompt = oai.String(req.Prompt)
	}

	resp, err := c.api.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text, nil
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apierr *oai.Error
	if errors.As(err, &apierr) {
		kind := provider.KindForStatus(apierr.StatusCode)
		return provider.NewError(providerName, kind, apierr.StatusCode, fmt.Errorf("transcription request: %w", err))
	}

	return provider.NewError(providerName, provider.KindForTransport(err), 0, fmt.Errorf("transcription request: %w", err))
}
