package security

// CheckRateLimit applies a fixed-window limit per subject. A new window
// starts lazily on the first request after the prior window has elapsed;
// there is no background reset.
func (m *Manager) CheckRateLimit(subjectID string) RateStatus {
	s := m.stripeFor(subjectID)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := m.nowTime()

	window, ok := s.rates[subjectID]
	if !ok || now.Sub(window.windowStart) > m.rateWindow {
		s.rates[subjectID] = &rateWindow{count: 1, windowStart: now}
		return RateStatus{
			Allowed:   true,
			Remaining: m.rateRequests - 1,
			ResetTime: now.Add(m.rateWindow),
		}
	}

	window.count++
	resetTime := window.windowStart.Add(m.rateWindow)

	if window.count > m.rateRequests {
		return RateStatus{Allowed: false, Remaining: 0, ResetTime: resetTime}
	}
	return RateStatus{
		Allowed:   true,
		Remaining: m.rateRequests - window.count,
		ResetTime: resetTime,
	}
}
