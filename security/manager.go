// Package security owns all session, rate-limit and lockout state for the
// banking agent, plus the input/output gates. It is stateless with respect
// to dialogue content: the orchestrator asks for operations, it never
// mutates these tables directly.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"hash/fnv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/carlos-israelj/banking-ai-agent/security/sessions"
)

const (
	sessionTokenLength = 32
	lockStripes        = 32
)

// Profile carries the identity attributes attached to a session when the
// bank core confirms an authentication.
type Profile struct {
	UserID     string
	UserName   string
	DocumentID string
}

// AttemptStatus reports the state of a subject's failed-attempt record.
type AttemptStatus struct {
	Blocked   bool
	Attempts  int
	Max       int
	Remaining int
}

// RateStatus reports a rate-limit decision for one request.
type RateStatus struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// InputVerdict is the result of the synchronous input gate.
type InputVerdict struct {
	Valid  bool
	Reason string
}

type failedAttempts struct {
	count        int
	firstAttempt time.Time
}

type rateWindow struct {
	count       int
	windowStart time.Time
}

// stripe holds the mutable tables for a slice of the subject key space.
// Striping keeps read-modify-write sequences on one subject atomic without
// serializing unrelated users behind a single lock.
type stripe struct {
	mu       sync.Mutex
	attempts map[string]*failedAttempts
	rates    map[string]*rateWindow
	blocked  map[string]struct{}
}

// Manager gates every security-sensitive operation of the agent.
type Manager struct {
	sessionRepo    sessions.Repo
	sessionTimeout time.Duration
	maxAttempts    int
	rateRequests   int
	rateWindow     time.Duration
	maxInputLength int
	maskThreshold  float64
	nowTime        func() time.Time
	logger         zerolog.Logger

	stripes [lockStripes]*stripe
}

// ManagerOption modifies a Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the logger used for security events.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// ManagerParams carries the configured limits for a Manager.
type ManagerParams struct {
	SessionTimeout      time.Duration
	MaxFailedAttempts   int
	RateLimitRequests   int
	RateLimitWindow     time.Duration
	MaxInputLength      int
	AmountMaskThreshold float64
}

// NewManager initializes a Manager over the given session repo.
func NewManager(sessionRepo sessions.Repo, params ManagerParams, options ...ManagerOption) (*Manager, error) {
	if sessionRepo == nil {
		return nil, errors.New("[NewManager] session repo is required")
	}
	if params.SessionTimeout <= 0 {
		params.SessionTimeout = 15 * time.Minute
	}
	if params.MaxFailedAttempts <= 0 {
		params.MaxFailedAttempts = 3
	}
	if params.RateLimitRequests <= 0 {
		params.RateLimitRequests = 30
	}
	if params.RateLimitWindow <= 0 {
		params.RateLimitWindow = time.Minute
	}
	if params.MaxInputLength <= 0 {
		params.MaxInputLength = 2000
	}
	if params.AmountMaskThreshold <= 0 {
		params.AmountMaskThreshold = 1000
	}

	m := &Manager{
		sessionRepo:    sessionRepo,
		sessionTimeout: params.SessionTimeout,
		maxAttempts:    params.MaxFailedAttempts,
		rateRequests:   params.RateLimitRequests,
		rateWindow:     params.RateLimitWindow,
		maxInputLength: params.MaxInputLength,
		maskThreshold:  params.AmountMaskThreshold,
		nowTime:        time.Now,
		logger:         zerolog.Nop(),
	}
	for i := range m.stripes {
		m.stripes[i] = &stripe{
			attempts: make(map[string]*failedAttempts),
			rates:    make(map[string]*rateWindow),
			blocked:  make(map[string]struct{}),
		}
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

func (m *Manager) stripeFor(subjectID string) *stripe {
	h := fnv.New32a()
	h.Write([]byte(subjectID))
	return m.stripes[h.Sum32()%lockStripes]
}

// CreateSession generates an opaque session token for an authenticated user
// and clears any failed-attempt record for the subject. The token space is
// large enough that collisions are not handled.
func (m *Manager) CreateSession(userID string, profile Profile) (string, error) {
	tokenBytes := make([]byte, sessionTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "[Manager.CreateSession] rand.Read")
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	now := m.nowTime()
	session := &sessions.Session{
		UserID:        userID,
		UserName:      profile.UserName,
		DocumentID:    profile.DocumentID,
		CreatedAt:     now,
		LastActivity:  now,
		ExpiresAt:     now.Add(m.sessionTimeout),
		Authenticated: true,
	}
	if err := m.sessionRepo.Upsert(token, session); err != nil {
		return "", errors.Wrap(err, "[Manager.CreateSession] sessionRepo.Upsert")
	}

	m.clearFailedAttempts(userID)
	if profile.DocumentID != "" && profile.DocumentID != userID {
		m.clearFailedAttempts(profile.DocumentID)
	}

	m.LogSecurityEvent("session_created", userID, map[string]any{
		"expires_at": session.ExpiresAt,
	})
	return token, nil
}

// ValidateSession fails closed: unknown token, absolute expiry or inactivity
// timeout all return invalid, and any expiry path removes the record on the
// spot. On success the session's last activity is refreshed.
func (m *Manager) ValidateSession(token string) (bool, *sessions.Session) {
	if token == "" {
		return false, nil
	}
	session, err := m.sessionRepo.Get(token)
	if err != nil {
		return false, nil
	}

	now := m.nowTime()
	if now.After(session.ExpiresAt) || now.Sub(session.LastActivity) > m.sessionTimeout {
		_ = m.sessionRepo.Delete(token)
		m.LogSecurityEvent("session_expired", session.UserID, nil)
		return false, nil
	}

	session.LastActivity = now
	if err := m.sessionRepo.Upsert(token, session); err != nil {
		return false, nil
	}
	return true, session
}

// DestroySession removes a session. It is idempotent and reports whether a
// session existed.
func (m *Manager) DestroySession(token string) bool {
	if err := m.sessionRepo.Delete(token); err != nil {
		return false
	}
	return true
}

// SessionInfo returns a redacted view of a live session, or nil when the
// token no longer validates.
type SessionInfo struct {
	UserName         string    `json:"user_name"`
	Authenticated    bool      `json:"authenticated"`
	MinutesRemaining int       `json:"minutes_remaining"`
	LastActivity     time.Time `json:"last_activity"`
}

func (m *Manager) SessionInfo(token string) *SessionInfo {
	valid, session := m.ValidateSession(token)
	if !valid {
		return nil
	}
	return &SessionInfo{
		UserName:         session.UserName,
		Authenticated:    session.Authenticated,
		MinutesRemaining: int(session.ExpiresAt.Sub(m.nowTime()).Minutes()),
		LastActivity:     session.LastActivity,
	}
}

// ValidateInput is a local allow/deny gate: it rejects known injection
// signatures, empty text, and over-length messages. It never rewrites the
// input.
func (m *Manager) ValidateInput(text string) InputVerdict {
	if isBlankInput(text) {
		return InputVerdict{Valid: false, Reason: "Mensaje vacío"}
	}
	if len(text) > m.maxInputLength {
		return InputVerdict{Valid: false, Reason: "Mensaje demasiado largo"}
	}
	if attackType, found := matchSuspiciousPattern(text); found {
		return InputVerdict{Valid: false, Reason: "Patrón sospechoso detectado: " + attackType}
	}
	return InputVerdict{Valid: true}
}
