package agent

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// recentTurns replayed into the prompt: the last three exchanges.
const recentTurns = 6

func (a *Agent) appendTurn(role Role, content string) {
	a.history = append(a.history, Turn{
		Role:      role,
		Content:   content,
		Timestamp: a.nowTime(),
	})
	if len(a.history) > a.maxHistory {
		a.history = a.history[len(a.history)-a.maxHistory:]
	}
}

// GetHistory returns the last n turns, newest last.
func (a *Agent) GetHistory(n int) []Turn {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n <= 0 || n > len(a.history) {
		n = len(a.history)
	}
	turns := make([]Turn, n)
	copy(turns, a.history[len(a.history)-n:])
	return turns
}
