package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carlos-israelj/banking-ai-agent/security"
	"github.com/carlos-israelj/banking-ai-agent/security/sessions"
)

func newManager(t *testing.T, params security.ManagerParams, options ...security.ManagerOption) *security.Manager {
	t.Helper()
	m, err := security.NewManager(sessions.NewInMemoryRepo(), params, options...)
	require.NoError(t, err)
	return m
}

func TestManager_Sessions(t *testing.T) {
	profile := security.Profile{UserID: "USR001", UserName: "Juan Pérez", DocumentID: "1234567890"}

	t.Run("create and validate", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{})

		token, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		valid, session := m.ValidateSession(token)
		require.True(t, valid)
		require.Equal(t, "USR001", session.UserID)
		require.Equal(t, "Juan Pérez", session.UserName)
		require.True(t, session.Authenticated)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{})

		t1, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)
		t2, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)
		require.NotEqual(t, t1, t2)
	})

	t.Run("empty token is invalid", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{})
		valid, session := m.ValidateSession("")
		require.False(t, valid)
		require.Nil(t, session)
	})

	t.Run("unknown token is invalid", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{})
		valid, _ := m.ValidateSession("no-such-token")
		require.False(t, valid)
	})

	t.Run("expired session stays invalid", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		m := newManager(t, security.ManagerParams{SessionTimeout: 15 * time.Minute},
			security.WithNowTime(func() time.Time { return now }))

		token, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)

		now = now.Add(16 * time.Minute)
		valid, _ := m.ValidateSession(token)
		require.False(t, valid)

		// Once invalid the session never comes back, even at an earlier clock.
		now = now.Add(-10 * time.Minute)
		valid, _ = m.ValidateSession(token)
		require.False(t, valid)
	})

	t.Run("absolute expiry bounds refreshed sessions", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		m := newManager(t, security.ManagerParams{SessionTimeout: 15 * time.Minute},
			security.WithNowTime(func() time.Time { return now }))

		token, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)

		now = now.Add(10 * time.Minute)
		valid, _ := m.ValidateSession(token)
		require.True(t, valid)

		// Past the absolute expiry even though activity was recent.
		now = now.Add(14 * time.Minute)
		valid, _ = m.ValidateSession(token)
		require.False(t, valid)
	})

	t.Run("destroy is idempotent", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{})

		token, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)

		require.True(t, m.DestroySession(token))
		require.False(t, m.DestroySession(token))

		valid, _ := m.ValidateSession(token)
		require.False(t, valid)
	})

	t.Run("session info is redacted", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{SessionTimeout: 15 * time.Minute})

		token, err := m.CreateSession("USR001", profile)
		require.NoError(t, err)

		info := m.SessionInfo(token)
		require.NotNil(t, info)
		require.Equal(t, "Juan Pérez", info.UserName)
		require.True(t, info.Authenticated)
		require.InDelta(t, 14, info.MinutesRemaining, 1)

		require.Nil(t, m.SessionInfo("no-such-token"))
	})
}

func TestManager_Lockout(t *testing.T) {
	t.Run("blocks at max attempts", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{MaxFailedAttempts: 3})

		s := m.RecordFailedAttempt("1234567890")
		require.False(t, s.Blocked)
		require.Equal(t, 1, s.Attempts)
		require.Equal(t, 2, s.Remaining)

		s = m.RecordFailedAttempt("1234567890")
		require.False(t, s.Blocked)

		s = m.RecordFailedAttempt("1234567890")
		require.True(t, s.Blocked)
		require.True(t, m.IsBlocked("1234567890"))
	})

	t.Run("block persists until unblocked", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{MaxFailedAttempts: 1})

		m.RecordFailedAttempt("1234567890")
		require.True(t, m.IsBlocked("1234567890"))

		m.Unblock("1234567890")
		require.False(t, m.IsBlocked("1234567890"))

		// Counter starts over after unblocking.
		s := m.RecordFailedAttempt("1234567890")
		require.Equal(t, 1, s.Attempts)
	})

	t.Run("successful session clears the counter", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{MaxFailedAttempts: 3})

		m.RecordFailedAttempt("1234567890")
		m.RecordFailedAttempt("1234567890")

		_, err := m.CreateSession("USR001", security.Profile{UserID: "USR001", DocumentID: "1234567890"})
		require.NoError(t, err)

		s := m.RecordFailedAttempt("1234567890")
		require.Equal(t, 1, s.Attempts)
	})

	t.Run("subjects are independent", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{MaxFailedAttempts: 1})

		m.RecordFailedAttempt("1234567890")
		require.True(t, m.IsBlocked("1234567890"))
		require.False(t, m.IsBlocked("0987654321"))
	})
}

func TestManager_RateLimit(t *testing.T) {
	t.Run("allows up to the cap and denies the next", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		m := newManager(t, security.ManagerParams{RateLimitRequests: 5, RateLimitWindow: time.Minute},
			security.WithNowTime(func() time.Time { return now }))

		for i := 0; i < 5; i++ {
			status := m.CheckRateLimit("USR001")
			require.True(t, status.Allowed, "request %d", i+1)
			require.Equal(t, 4-i, status.Remaining)
		}

		status := m.CheckRateLimit("USR001")
		require.False(t, status.Allowed)
		require.Equal(t, 0, status.Remaining)
		require.Equal(t, now.Add(time.Minute), status.ResetTime)
	})

	t.Run("window elapse restores the full allowance", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		m := newManager(t, security.ManagerParams{RateLimitRequests: 2, RateLimitWindow: time.Minute},
			security.WithNowTime(func() time.Time { return now }))

		m.CheckRateLimit("USR001")
		m.CheckRateLimit("USR001")
		require.False(t, m.CheckRateLimit("USR001").Allowed)

		now = now.Add(61 * time.Second)
		status := m.CheckRateLimit("USR001")
		require.True(t, status.Allowed)
		require.Equal(t, 1, status.Remaining)
	})

	t.Run("subjects have separate windows", func(t *testing.T) {
		m := newManager(t, security.ManagerParams{RateLimitRequests: 1, RateLimitWindow: time.Minute})

		require.True(t, m.CheckRateLimit("USR001").Allowed)
		require.False(t, m.CheckRateLimit("USR001").Allowed)
		require.True(t, m.CheckRateLimit("USR002").Allowed)
	})
}

func TestManager_ValidateInput(t *testing.T) {
	m := newManager(t, security.ManagerParams{MaxInputLength: 100})

	t.Run("accepts ordinary text", func(t *testing.T) {
		verdict := m.ValidateInput("¿Cuál es mi saldo?")
		require.True(t, verdict.Valid)
	})

	t.Run("rejects blank input", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\n\t"} {
			verdict := m.ValidateInput(input)
			require.False(t, verdict.Valid)
			require.Equal(t, "Mensaje vacío", verdict.Reason)
		}
	})

	t.Run("rejects over-length input", func(t *testing.T) {
		verdict := m.ValidateInput(strings.Repeat("a", 101))
		require.False(t, verdict.Valid)
		require.Equal(t, "Mensaje demasiado largo", verdict.Reason)
	})

	t.Run("rejects injection signatures", func(t *testing.T) {
		cases := map[string]string{
			"<script>alert(1)</script>":   "XSS",
			"javascript:void(0)":          "XSS",
			"eval(payload)":               "Code Injection",
			"' OR 1=1":                    "SQL Injection",
			"x UNION SELECT * FROM users": "SQL Injection",
			"DROP TABLE customers":        "SQL Injection",
			"saldo -- comentario":         "SQL Comment",
		}
		for input, attackType := range cases {
			verdict := m.ValidateInput(input)
			require.False(t, verdict.Valid, "input %q", input)
			require.Equal(t, "Patrón sospechoso detectado: "+attackType, verdict.Reason)
		}
	})
}
