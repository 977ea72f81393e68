package sessions

import "time"

// Repo defines the interface for session storage operations.
// Sessions are short-lived authentication state; expired records are evicted
// lazily by the security manager, there is no background sweeper.
type Repo interface {
	// Upsert creates or updates a session keyed by its token
	Upsert(token string, session *Session) error

	// Get retrieves a session by token
	Get(token string) (*Session, error)

	// Delete removes a session by token
	Delete(token string) error

	// DeleteExpired removes sessions whose absolute expiry is before cutoff
	DeleteExpired(cutoff time.Time) error
}
