package llm

import (
	"time"

	"github.com/pkg/errors"
)

// ProviderConfig selects and parameterizes a Client implementation.
type ProviderConfig struct {
	Provider       string
	Model          string
	EmbeddingModel string
	APIKey         string
	Timeout        time.Duration
	RetryAttempts  int
}

// NewClient builds a Client for the configured provider ("gemini" | "mock").
func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(cfg.Model, cfg.APIKey, cfg.Timeout, cfg.RetryAttempts,
			WithEmbeddingModel(cfg.EmbeddingModel))
	case "mock":
		return NewMock("¡Hola! ¿En qué puedo ayudarte hoy?"), nil
	default:
		return nil, errors.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}
