package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/oklog/ulid/v2"
)

// LogSecurityEvent records a security-relevant event with a ULID event ID so
// entries stay sortable across processes. Details must already be free of
// raw sensitive data; use HashSensitiveData for anything that is not.
func (m *Manager) LogSecurityEvent(eventType, subjectID string, details map[string]any) {
	event := m.logger.Info().
		Str("event_id", ulid.Make().String()).
		Str("event_type", eventType).
		Str("subject", subjectID)
	for key, value := range details {
		event = event.Interface(key, value)
	}
	event.Msg("security event")
}

// HashSensitiveData returns a short stable digest of a sensitive value,
// suitable for correlating log entries without exposing the value itself.
func HashSensitiveData(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:16]
}
