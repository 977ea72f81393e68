// Package corebank simulates the bank's core services. In production these
// calls would hit the real core banking APIs; the data here is a seeded
// demo customer.
package corebank

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/carlos-israelj/banking-ai-agent/banking"
)

var _ banking.Executor = (*Service)(nil)

type customer struct {
	userID        string
	name          string
	documentID    string
	otpSecretHash string
	accounts      []banking.Account
	cards         []banking.Card
	policies      []banking.Policy
	movements     []banking.Movement
}

// Service is an in-memory banking.Executor.
type Service struct {
	mu          sync.RWMutex
	byDocument  map[string]*customer
	byUserID    map[string]*customer
	failureRate float64
	latency     time.Duration
	nowTime     func() time.Time
	randFloat   func() float64
}

type ServiceOption func(*Service)

// WithFailureRate makes a fraction of calls fail with SERVICE_UNAVAILABLE,
// simulating an unreliable upstream.
func WithFailureRate(rate float64) ServiceOption {
	return func(s *Service) {
		s.failureRate = rate
	}
}

// WithLatency adds artificial latency to every call.
func WithLatency(latency time.Duration) ServiceOption {
	return func(s *Service) {
		s.latency = latency
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(options ...ServiceOption) *Service {
	s := &Service{
		byDocument: make(map[string]*customer),
		byUserID:   make(map[string]*customer),
		nowTime:    time.Now,
		randFloat:  rand.Float64,
	}
	for _, opt := range options {
		opt(s)
	}
	for _, c := range seedCustomers() {
		s.byDocument[c.documentID] = c
		s.byUserID[c.userID] = c
	}
	return s
}

func (s *Service) simulateCall(ctx context.Context) error {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failureRate > 0 && s.randFloat() < s.failureRate {
		return banking.NewToolError(banking.ErrKindServiceUnavailable, "servicio temporalmente no disponible")
	}
	return nil
}

// AuthenticateUser verifies a document ID and, when provided, its OTP code.
func (s *Service) AuthenticateUser(ctx context.Context, documentID, otpCode string) (*banking.AuthResult, error) {
	if err := s.simulateCall(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byDocument[documentID]
	if !ok {
		return nil, banking.NewToolError(banking.ErrKindUserNotFound, "no encontramos un usuario registrado con esa cédula")
	}
	if otpCode != "" {
		if bcrypt.CompareHashAndPassword([]byte(c.otpSecretHash), []byte(otpCode)) != nil {
			return nil, banking.NewToolError(banking.ErrKindInvalidOTP, "el código de verificación es incorrecto")
		}
	}
	return &banking.AuthResult{
		UserID:     c.userID,
		UserName:   c.name,
		DocumentID: c.documentID,
	}, nil
}

// GetAccountBalance returns the customer's accounts, optionally filtered by
// type. Account numbers are masked before leaving the core.
func (s *Service) GetAccountBalance(ctx context.Context, userID, accountType string) ([]banking.Account, error) {
	if err := s.simulateCall(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byUserID[userID]
	if !ok {
		return nil, banking.NewToolError(banking.ErrKindAuthRequired, "usuario no autenticado o sesión expirada")
	}

	var accounts []banking.Account
	for _, acc := range c.accounts {
		if accountType != "" && acc.AccountType != accountType {
			continue
		}
		acc.AccountNumber = maskAccountNumber(acc.AccountNumber)
		acc.LastUpdated = s.nowTime().Format("2006-01-02 15:04:05")
		accounts = append(accounts, acc)
	}
	if len(accounts) == 0 {
		return nil, banking.NewToolError(banking.ErrKindAccountNotFound, "no se encontró cuenta de tipo "+accountType)
	}
	return accounts, nil
}

// GetAccountMovements returns the most recent movements of one account.
func (s *Service) GetAccountMovements(ctx context.Context, userID, accountType string, limit int) ([]banking.Movement, error) {
	if err := s.simulateCall(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byUserID[userID]
	if !ok {
		return nil, banking.NewToolError(banking.ErrKindAuthRequired, "usuario no autenticado")
	}
	if limit <= 0 {
		limit = 5
	}

	movements := c.movements
	if len(movements) > limit {
		movements = movements[:limit]
	}
	result := make([]banking.Movement, len(movements))
	copy(result, movements)
	return result, nil
}

// GetCardInfo returns the customer's cards, optionally filtered by type.
// Full card numbers never leave the core.
func (s *Service) GetCardInfo(ctx context.Context, userID, cardType string) ([]banking.Card, error) {
	if err := s.simulateCall(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byUserID[userID]
	if !ok {
		return nil, banking.NewToolError(banking.ErrKindAuthRequired, "usuario no autenticado")
	}

	var cards []banking.Card
	for _, card := range c.cards {
		if cardType != "" && card.CardType != cardType {
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, banking.NewToolError(banking.ErrKindCardNotFound, "no se encontraron tarjetas")
	}
	return cards, nil
}

// GetPolicyInfo returns active insurance policies, optionally filtered by a
// type substring. No policies is a valid empty result, not an error.
func (s *Service) GetPolicyInfo(ctx context.Context, userID, policyType string) ([]banking.Policy, error) {
	if err := s.simulateCall(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byUserID[userID]
	if !ok {
		return nil, banking.NewToolError(banking.ErrKindAuthRequired, "usuario no autenticado")
	}

	var policies []banking.Policy
	for _, policy := range c.policies {
		if policyType != "" && !containsFold(policy.PolicyType, policyType) {
			continue
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

func maskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}
