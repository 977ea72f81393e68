package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini REST generateContent endpoint. Each attempt
// is bounded by the configured timeout; transient failures are retried a
// small number of times before the turn handler sees an error.
type GeminiClient struct {
	model          string
	embeddingModel string
	apiKey         string
	timeout        time.Duration
	retryAttempts  int
	httpClient     *http.Client
}

type GeminiOption func(*GeminiClient)

// WithHTTPClient overrides the HTTP client (primarily for testing).
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *GeminiClient) {
		g.httpClient = client
	}
}

// WithEmbeddingModel sets the model used for Embed calls.
func WithEmbeddingModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		if model != "" {
			g.embeddingModel = model
		}
	}
}

func NewGeminiClient(model, apiKey string, timeout time.Duration, retryAttempts int, options ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("[NewGeminiClient] api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if retryAttempts < 0 {
		retryAttempts = 0
	}

	g := &GeminiClient{
		model:          model,
		embeddingModel: "gemini-embedding-001",
		apiKey:         apiKey,
		timeout:        timeout,
		retryAttempts:  retryAttempts,
		httpClient:     &http.Client{},
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	TopK            int     `json:"topK,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate implements Client.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxTokens,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
		},
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, g.model, g.apiKey)

	var lastErr error
	for attempt := 0; attempt <= g.retryAttempts; attempt++ {
		text, err := g.post(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Wrap(lastErr, "[GeminiClient.Generate] all attempts failed")
}

func (g *GeminiClient) post(ctx context.Context, url string, body geminiRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "http post")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.ErrEmptyCompletion
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", apperrors.ErrEmptyCompletion
	}
	return text, nil
}

type geminiEmbedRequest struct {
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed implements Embedder using the embedContent endpoint.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	body := geminiEmbedRequest{Content: geminiContent{Parts: []geminiPart{{Text: text}}}}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "[GeminiClient.Embed] marshal request")
	}
	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", geminiBaseURL, g.embeddingModel, g.apiKey)

	attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "[GeminiClient.Embed] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[GeminiClient.Embed] http post")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("[GeminiClient.Embed] gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "[GeminiClient.Embed] decode response")
	}
	if len(parsed.Embedding.Values) == 0 {
		return nil, apperrors.ErrEmptyCompletion
	}
	return parsed.Embedding.Values, nil
}
