// Package provider defines the speech-to-text provider capability, its
// classified failure taxonomy, and the primary/fallback registry consumed by
// session orchestration.
package provider

import "context"

// Request carries per-attempt recognition hints forwarded to a provider.
type Request struct {
	Model    string
	Language string
	Prompt   string
}

// Client is one remote speech-to-text capability. Implementations accept WAV
// audio and return plain transcript text. Failures must be returned as
// *Error so callers can apply retry policy without inspecting provider
// payloads.
type Client interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc struct {
	ClientName string
	Fn         func(context.Context, []byte, Request) (string, error)
}

func (c ClientFunc) Name() string {
	return c.ClientName
}

func (c ClientFunc) Transcribe(ctx context.Context, audio []byte, req Request) (string, error) {
	return c.Fn(ctx, audio, req)
}
