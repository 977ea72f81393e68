package voice

import (
	"context"
	"io"

	"github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/pkg/errors"

	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
)

// AssemblyAITranscriber transcribes Spanish audio through the AssemblyAI API.
type AssemblyAITranscriber struct {
	client *assemblyai.Client
}

// NewAssemblyAITranscriber builds a transcriber from an API key.
func NewAssemblyAITranscriber(apiKey string) (*AssemblyAITranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("[voice.NewAssemblyAITranscriber] api key is required")
	}
	return &AssemblyAITranscriber{client: assemblyai.NewClient(apiKey)}, nil
}

// Transcribe uploads the audio and waits for the transcript. A completed
// transcript with no text reports no speech detected.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio io.Reader) (Transcript, error) {
	params := &assemblyai.TranscriptOptionalParams{
		LanguageCode: "es",
		Punctuate:    assemblyai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return Transcript{}, errors.Wrap(err, "[AssemblyAITranscriber.Transcribe] transcribe audio")
	}

	text := ""
	if transcript.Text != nil {
		text = *transcript.Text
	}
	if text == "" {
		return Transcript{}, apperrors.Wrapf(apperrors.ErrNotFound, "[AssemblyAITranscriber.Transcribe] no speech detected")
	}

	confidence := 0.0
	if transcript.Confidence != nil {
		confidence = *transcript.Confidence
	}

	return Transcript{Text: text, Confidence: confidence}, nil
}

var _ Transcriber = (*AssemblyAITranscriber)(nil)
