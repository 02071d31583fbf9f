// Package openai implements the speech provider capability against the
// OpenAI audio transcription API.
package openai

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
	providerName = "openai"
	defaultModel = "whisper-1"
)

// Client transcribes WAV audio through the OpenAI API.
type Client struct {
	api   oai.Client
	model string
}

// Option is a functional option for Client.
type Option func(*options)

type options struct {
	baseURL string
}

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// New constructs an OpenAI transcription client. The API key must already be
// resolved by the caller; this package never reads the environment.
func New(apiKey string, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai: api key must not be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &Client{api: oai.NewClient(reqOpts...), model: model}, nil
}

// Name implements provider.Client.
func (c *Client) Name() string {
	return providerName
}

// Transcribe implements provider.Client. Failures are returned classified;
// context cancellation passes through untouched so the session layer can tell
// a cancelled session from a failed attempt.
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

// classify maps SDK failures onto the shared provider error taxonomy.
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
