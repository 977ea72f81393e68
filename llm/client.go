// Package llm abstracts the text-generation backend behind a single-shot
// Generate call. Implementations must surface failures as errors, never as
// empty text.
package llm

import "context"

// GenerationConfig carries per-call sampling parameters.
type GenerationConfig struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
}

// Client is the language-model boundary of the agent.
type Client interface {
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

// Embedder turns text into a vector for the embedding-ranked retriever.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
