package server

import (
	"sync"

	"github.com/carlos-israelj/banking-ai-agent/agent"
)

// AgentFactory builds an Agent for a new conversation.
type AgentFactory func() (*agent.Agent, error)

// registry tracks live conversations by ID.
type registry struct {
	mu     sync.RWMutex
	agents map[string]*agent.Agent
}

func newRegistry() *registry {
	return &registry{agents: make(map[string]*agent.Agent)}
}

func (r *registry) add(a *agent.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID()] = a
}

func (r *registry) get(conversationID string) (*agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[conversationID]
	return a, ok
}

func (r *registry) remove(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, conversationID)
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
