package llm

import "context"

// Message is a single turn in a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	Model       string
	Temperature *float64
}

type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// Provider abstracts a chat-completion and transcription backend.
type Provider interface {
	// Chat sends the full conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []Message, opts ...Option) (string, error)
	// Transcribe converts an audio payload to text. Language is a hint and
	// may be empty.
	Transcribe(ctx context.Context, audio []byte, filename string, language string) (string, error)
}
