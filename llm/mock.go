package llm

import (
	"context"
	"sync"

	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
)

var _ Client = (*Mock)(nil)

// Mock is a scriptable Client for tests. Responses are consumed in order;
// the last one repeats once the script runs out. Prompts are captured for
// assertions.
type Mock struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	Prompts   []string
}

func NewMock(responses ...string) *Mock {
	return &Mock{responses: responses}
}

// FailWith makes the next calls return the given errors before the scripted
// responses resume.
func (m *Mock) FailWith(errs ...error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
	return m
}

func (m *Mock) Generate(_ context.Context, prompt string, _ GenerationConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", err
	}
	if len(m.responses) == 0 {
		return "", apperrors.ErrEmptyCompletion
	}

	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	return m.responses[idx], nil
}

// Calls reports how many times Generate was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
