package sessions

import (
	"sync"
	"time"

	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo stores sessions in a process-lifetime map. This is the
// designed model: a restart clears all sessions.
type InMemoryRepo struct {
	sessions map[string]*Session
	lock     sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]*Session),
	}
}

func (sr *InMemoryRepo) Upsert(token string, session *Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	session.Token = token
	sr.sessions[token] = session
	return nil
}

func (sr *InMemoryRepo) Get(token string) (*Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (sr *InMemoryRepo) Delete(token string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if _, ok := sr.sessions[token]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(sr.sessions, token)
	return nil
}

func (sr *InMemoryRepo) DeleteExpired(cutoff time.Time) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	for token, session := range sr.sessions {
		if session.ExpiresAt.Before(cutoff) {
			delete(sr.sessions, token)
		}
	}
	return nil
}
