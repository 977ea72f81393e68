package server

import (
	"crypto/rand"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// conversationTokenTTL bounds how long a chat bearer token stays usable.
// Conversations live in memory, so a generous window is fine.
const conversationTokenTTL = 24 * time.Hour

func newTokenSecret(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}
	// Tokens signed with a generated secret do not survive a restart, which
	// matches the lifetime of the in-memory conversations they reference.
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	return secret
}

// issueConversationToken signs a bearer token bound to one conversation.
func (s *Server) issueConversationToken(conversationID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   conversationID,
		Issuer:    s.config.GetAppName(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(conversationTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", errors.Wrap(err, "[Server.issueConversationToken] sign token")
	}
	return signed, nil
}

// parseConversationToken validates a bearer token and returns the
// conversation it references.
func (s *Server) parseConversationToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return s.tokenSecret, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "[Server.parseConversationToken] parse token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("[Server.parseConversationToken] missing subject claim")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
