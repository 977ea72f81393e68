// Package banking defines the tool contract between the agent and the bank
// core. The orchestrator never interprets these payloads beyond formatting;
// they pass through to the user-facing reply.
package banking

import "context"

// ErrorKind enumerates the typed failure causes a tool can report.
type ErrorKind string

const (
	ErrKindUserNotFound       ErrorKind = "USER_NOT_FOUND"
	ErrKindInvalidOTP         ErrorKind = "INVALID_OTP"
	ErrKindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	ErrKindAuthRequired       ErrorKind = "AUTH_REQUIRED"
	ErrKindAccountNotFound    ErrorKind = "ACCOUNT_NOT_FOUND"
	ErrKindCardNotFound       ErrorKind = "CARD_NOT_FOUND"
)

// ToolError is a typed tool failure. The agent maps each kind to a distinct
// user message.
type ToolError struct {
	Kind    ErrorKind
	Message string
}

func (e *ToolError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NewToolError builds a typed tool failure.
func NewToolError(kind ErrorKind, message string) *ToolError {
	return &ToolError{Kind: kind, Message: message}
}

// KindOf extracts the ErrorKind from an error chain, or "" when the error is
// not a tool failure.
func KindOf(err error) ErrorKind {
	var toolErr *ToolError
	if ok := asToolError(err, &toolErr); ok {
		return toolErr.Kind
	}
	return ""
}

// AuthResult is the identity confirmed by a successful authentication.
type AuthResult struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	DocumentID string `json:"document_id"`
}

// Account is one customer account with its visible balance. The account
// number is partially masked by the core before it leaves the service.
type Account struct {
	AccountType   string  `json:"account_type"`
	AccountNumber string  `json:"account_number"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	LastUpdated   string  `json:"last_updated"`
}

// Movement is one account transaction; the amount is signed.
type Movement struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Card is one customer card; credit-only fields are zero for debit cards.
type Card struct {
	CardType        string  `json:"card_type"`
	CardBrand       string  `json:"card_brand"`
	Last4Digits     string  `json:"last_4_digits"`
	CreditLimit     float64 `json:"credit_limit,omitempty"`
	AvailableCredit float64 `json:"available_credit,omitempty"`
	ExpiryDate      string  `json:"expiry_date,omitempty"`
	Status          string  `json:"status"`
}

// Policy is one active insurance policy.
type Policy struct {
	PolicyType   string  `json:"policy_type"`
	PolicyNumber string  `json:"policy_number"`
	Coverage     float64 `json:"coverage"`
	Premium      float64 `json:"premium"`
	Status       string  `json:"status"`
	ExpiryDate   string  `json:"expiry_date"`
	Vehicle      string  `json:"vehicle,omitempty"`
}

// Executor is the bank-core boundary: one operation per tool the model may
// request. Every call may block on external I/O and must honor its context.
type Executor interface {
	AuthenticateUser(ctx context.Context, documentID, otpCode string) (*AuthResult, error)
	GetAccountBalance(ctx context.Context, userID, accountType string) ([]Account, error)
	GetAccountMovements(ctx context.Context, userID, accountType string, limit int) ([]Movement, error)
	GetCardInfo(ctx context.Context, userID, cardType string) ([]Card, error)
	GetPolicyInfo(ctx context.Context, userID, policyType string) ([]Policy, error)
}
