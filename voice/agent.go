package voice

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/carlos-israelj/banking-ai-agent/agent"
	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
)

// NoSpeechMessage is returned when the audio contains nothing transcribable.
const NoSpeechMessage = "No pude entender el audio. ¿Puedes repetirlo o escribir tu mensaje?"

// Agent runs dialogue turns from audio input. The reply text passes through
// the same sanitization as text turns; speech synthesis stays with the caller.
type Agent struct {
	text        *agent.Agent
	transcriber Transcriber
}

// NewAgent wraps a text agent with a transcriber.
func NewAgent(textAgent *agent.Agent, transcriber Transcriber) (*Agent, error) {
	if textAgent == nil {
		return nil, errors.New("[voice.NewAgent] text agent is required")
	}
	if transcriber == nil {
		return nil, errors.New("[voice.NewAgent] transcriber is required")
	}
	return &Agent{text: textAgent, transcriber: transcriber}, nil
}

// ProcessAudio transcribes one utterance and runs it as a dialogue turn,
// returning both the transcript and the agent's reply.
func (a *Agent) ProcessAudio(ctx context.Context, audio io.Reader) (transcript, reply string, err error) {
	result, err := a.transcriber.Transcribe(ctx, audio)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return "", NoSpeechMessage, nil
		}
		return "", "", errors.Wrap(err, "[voice.Agent.ProcessAudio] transcribe")
	}

	return result.Text, a.text.ProcessMessage(ctx, result.Text), nil
}

// Text exposes the underlying text agent for session inspection.
func (a *Agent) Text() *agent.Agent {
	return a.text
}
