package security

// RecordFailedAttempt increments a subject's failed-attempt count. Once the
// count reaches the configured maximum the subject joins the blocked set and
// stays there until explicitly unblocked.
func (m *Manager) RecordFailedAttempt(subjectID string) AttemptStatus {
	s := m.stripeFor(subjectID)
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.attempts[subjectID]
	if !ok {
		record = &failedAttempts{firstAttempt: m.nowTime()}
		s.attempts[subjectID] = record
	}
	record.count++

	if record.count >= m.maxAttempts {
		s.blocked[subjectID] = struct{}{}
		m.LogSecurityEvent("subject_blocked", HashSensitiveData(subjectID), map[string]any{
			"attempts": record.count,
		})
		return AttemptStatus{Blocked: true, Attempts: record.count, Max: m.maxAttempts}
	}

	return AttemptStatus{
		Blocked:   false,
		Attempts:  record.count,
		Max:       m.maxAttempts,
		Remaining: m.maxAttempts - record.count,
	}
}

// IsBlocked reports whether a subject is in the blocked set.
func (m *Manager) IsBlocked(subjectID string) bool {
	s := m.stripeFor(subjectID)
	s.mu.Lock()
	defer s.mu.Unlock()

	_, blocked := s.blocked[subjectID]
	return blocked
}

// Unblock removes a subject from the blocked set and clears its
// failed-attempt record. This is the external clearing path (support desk).
func (m *Manager) Unblock(subjectID string) {
	s := m.stripeFor(subjectID)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blocked, subjectID)
	delete(s.attempts, subjectID)
}

func (m *Manager) clearFailedAttempts(subjectID string) {
	s := m.stripeFor(subjectID)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.attempts, subjectID)
}
