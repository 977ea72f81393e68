package corebank

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/carlos-israelj/banking-ai-agent/banking"
)

// Demo customer for the simulated core. In production OTP secrets are
// generated per challenge; here they are stored bcrypt-hashed.
func seedCustomers() []*customer {
	return []*customer{
		{
			userID:        "USR001",
			name:          "Juan Pérez",
			documentID:    "1234567890",
			otpSecretHash: mustHash("123456"),
			accounts: []banking.Account{
				{
					AccountType:   "ahorros",
					AccountNumber: "0001234567",
					Balance:       5420.50,
					Currency:      "USD",
					Status:        "active",
				},
				{
					AccountType:   "corriente",
					AccountNumber: "0009876543",
					Balance:       12300.00,
					Currency:      "USD",
					Status:        "active",
				},
			},
			cards: []banking.Card{
				{
					CardType:        "credit",
					CardBrand:       "Visa",
					Last4Digits:     "4532",
					CreditLimit:     5000.00,
					AvailableCredit: 3200.00,
					ExpiryDate:      "12/2026",
					Status:          "active",
				},
				{
					CardType:    "debit",
					CardBrand:   "Mastercard",
					Last4Digits: "8765",
					Status:      "active",
				},
			},
			policies: []banking.Policy{
				{
					PolicyType:   "Seguro de Vida",
					PolicyNumber: "POL-2024-001",
					Coverage:     100000.00,
					Premium:      45.00,
					Status:       "active",
					ExpiryDate:   "2025-12-31",
				},
				{
					PolicyType:   "Seguro de Auto",
					PolicyNumber: "POL-2024-002",
					Coverage:     25000.00,
					Premium:      80.00,
					Status:       "active",
					ExpiryDate:   "2025-06-15",
					Vehicle:      "Toyota Corolla 2020",
				},
			},
			movements: []banking.Movement{
				{Date: "2025-10-07", Type: "deposit", Amount: 500.00, Description: "Depósito en ventanilla"},
				{Date: "2025-10-06", Type: "withdrawal", Amount: -200.00, Description: "Retiro cajero ATM"},
				{Date: "2025-10-05", Type: "transfer", Amount: -150.00, Description: "Transferencia a Jorge M."},
				{Date: "2025-10-04", Type: "payment", Amount: -45.50, Description: "Pago tarjeta crédito"},
				{Date: "2025-10-03", Type: "deposit", Amount: 1200.00, Description: "Salario"},
			},
		},
	}
}

func mustHash(secret string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
