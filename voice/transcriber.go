// Package voice layers speech input on top of the text agent: audio is
// transcribed, the transcript runs through the normal dialogue turn, and the
// sanitized reply comes back for synthesis by the caller.
package voice

import (
	"context"
	"io"
)

// Transcript is the text recovered from one audio utterance.
type Transcript struct {
	Text       string
	Confidence float64
}

// Transcriber converts spoken audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (Transcript, error)
}
