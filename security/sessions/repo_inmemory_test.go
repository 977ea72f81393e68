package sessions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/carlos-israelj/banking-ai-agent/internal/errors"
	"github.com/carlos-israelj/banking-ai-agent/security/sessions"
)

func newSession(userID string, expiresAt time.Time) *sessions.Session {
	return &sessions.Session{
		UserID:        userID,
		UserName:      "Juan Pérez",
		DocumentID:    "1234567890",
		CreatedAt:     expiresAt.Add(-15 * time.Minute),
		LastActivity:  expiresAt.Add(-15 * time.Minute),
		ExpiresAt:     expiresAt,
		Authenticated: true,
	}
}

func TestInMemoryRepo(t *testing.T) {
	expiry := time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC)

	t.Run("upsert and get", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("tok1", newSession("USR001", expiry)))

		got, err := repo.Get("tok1")
		require.NoError(t, err)
		require.Equal(t, "USR001", got.UserID)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("tok1", newSession("USR001", expiry)))

		first, err := repo.Get("tok1")
		require.NoError(t, err)
		first.UserID = "mutated"

		second, err := repo.Get("tok1")
		require.NoError(t, err)
		require.Equal(t, "USR001", second.UserID)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		_, err := repo.Get("absent")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("tok1", newSession("USR001", expiry)))
		require.NoError(t, repo.Delete("tok1"))

		_, err := repo.Get("tok1")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		require.Error(t, repo.Delete("tok1"))
	})

	t.Run("delete expired", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("old", newSession("USR001", expiry)))
		require.NoError(t, repo.Upsert("live", newSession("USR002", expiry.Add(time.Hour))))

		require.NoError(t, repo.DeleteExpired(expiry.Add(time.Minute)))

		_, err := repo.Get("old")
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		_, err = repo.Get("live")
		require.NoError(t, err)
	})
}
