package sessions

import "time"

// Session is the server-held proof that a conversation has been
// authenticated against the bank core. Both the absolute expiry and the
// inactivity timeout are enforced on validation; whichever triggers first
// wins and removes the record.
type Session struct {
	Token         string    `json:"token"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	DocumentID    string    `json:"document_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastActivity  time.Time `json:"last_activity"`
	ExpiresAt     time.Time `json:"expires_at"`
	Authenticated bool      `json:"authenticated"`
}
