package security

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// 10-digit runs: account numbers and national ID documents.
	accountNumberPattern = regexp.MustCompile(`\b\d{10}\b`)
	// 16-digit card numbers, optionally grouped by spaces or dashes.
	cardNumberPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	// Currency amounts with cents, e.g. $5,420.50
	currencyAmountPattern = regexp.MustCompile(`\$[\d,]+\.\d{2}`)
)

const (
	maskedAccount = "****"
	maskedCard    = "**** **** **** ****"
	maskedAmount  = "$****"
)

// SanitizeOutput redacts sensitive data from text headed to an
// unauthenticated caller. Authenticated output passes through unmodified.
// The transform is one-way and idempotent: masked text contains no digit
// runs for the patterns to match again.
func (m *Manager) SanitizeOutput(text string, authenticated bool) string {
	if authenticated {
		return text
	}

	text = cardNumberPattern.ReplaceAllString(text, maskedCard)
	text = accountNumberPattern.ReplaceAllString(text, maskedAccount)
	text = currencyAmountPattern.ReplaceAllStringFunc(text, func(match string) string {
		raw := strings.NewReplacer("$", "", ",", "").Replace(match)
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return match
		}
		if amount > m.maskThreshold {
			return maskedAmount
		}
		return match
	})
	return text
}

type suspiciousPattern struct {
	pattern    *regexp.Regexp
	attackType string
}

var suspiciousPatterns = []suspiciousPattern{
	{regexp.MustCompile(`(?i)<script`), "XSS"},
	{regexp.MustCompile(`(?i)javascript:`), "XSS"},
	{regexp.MustCompile(`(?i)eval\(`), "Code Injection"},
	{regexp.MustCompile(`(?i)exec\(`), "Code Injection"},
	{regexp.MustCompile(`(?i)\bOR\b.*=.*`), "SQL Injection"},
	{regexp.MustCompile(`(?i)UNION\s+SELECT`), "SQL Injection"},
	{regexp.MustCompile(`(?i)DROP\s+TABLE`), "SQL Injection"},
	{regexp.MustCompile(`--`), "SQL Comment"},
}

func matchSuspiciousPattern(text string) (string, bool) {
	for _, sp := range suspiciousPatterns {
		if sp.pattern.MatchString(text) {
			return sp.attackType, true
		}
	}
	return "", false
}

func isBlankInput(text string) bool {
	return strings.TrimSpace(text) == ""
}
