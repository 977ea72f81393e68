package agent

import (
	"fmt"
	"math"
	"strings"

	"github.com/carlos-israelj/banking-ai-agent/banking"
)

func formatAccounts(accounts []banking.Account) string {
	if len(accounts) == 0 {
		return "No encontré cuentas activas a tu nombre."
	}

	if len(accounts) == 1 {
		acc := accounts[0]
		return fmt.Sprintf(`💳 **Cuenta %s**
Número: %s
Saldo disponible: $%s %s
Estado: %s
Actualizado: %s

¿Necesitas algo más?`,
			titleCase(acc.AccountType), acc.AccountNumber, formatMoney(acc.Balance),
			acc.Currency, acc.Status, acc.LastUpdated)
	}

	var b strings.Builder
	b.WriteString("💳 **Tus Cuentas:**\n\n")
	for _, acc := range accounts {
		fmt.Fprintf(&b, "• %s: $%s %s\n", titleCase(acc.AccountType), formatMoney(acc.Balance), acc.Currency)
	}
	b.WriteString("\n¿Quieres detalles de alguna cuenta en específico?")
	return b.String()
}

func formatMovements(accountType string, movements []banking.Movement) string {
	if len(movements) == 0 {
		return "No encontré movimientos recientes en esa cuenta."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Últimos %d movimientos - Cuenta %s:**\n\n", len(movements), titleCase(accountType))
	for _, mov := range movements {
		emoji := "💸"
		if mov.Amount > 0 {
			emoji = "💰"
		}
		fmt.Fprintf(&b, "%s %s: $%s\n   %s\n\n", emoji, mov.Date, formatMoney(math.Abs(mov.Amount)), mov.Description)
	}
	b.WriteString("¿Necesitas más información?")
	return b.String()
}

func formatCards(cards []banking.Card) string {
	if len(cards) == 0 {
		return "No encontré tarjetas activas en tu cuenta."
	}

	var b strings.Builder
	b.WriteString("💳 **Tus Tarjetas:**\n\n")
	for _, card := range cards {
		fmt.Fprintf(&b, "• %s %s\n", titleCase(card.CardType), card.CardBrand)
		fmt.Fprintf(&b, "  Número: **** **** **** %s\n", card.Last4Digits)
		if card.CardType == "credit" {
			fmt.Fprintf(&b, "  Límite: $%s\n", formatMoney(card.CreditLimit))
			fmt.Fprintf(&b, "  Disponible: $%s\n", formatMoney(card.AvailableCredit))
		}
		fmt.Fprintf(&b, "  Estado: %s\n\n", card.Status)
	}
	b.WriteString("¿Necesitas algo más sobre tus tarjetas?")
	return b.String()
}

func formatPolicies(policies []banking.Policy) string {
	if len(policies) == 0 {
		return "No encontré pólizas activas en tu cuenta."
	}

	var b strings.Builder
	b.WriteString("📄 **Tus Pólizas de Seguro:**\n\n")
	for _, policy := range policies {
		fmt.Fprintf(&b, "• %s\n", policy.PolicyType)
		fmt.Fprintf(&b, "  Póliza: %s\n", policy.PolicyNumber)
		fmt.Fprintf(&b, "  Cobertura: $%s\n", formatMoney(policy.Coverage))
		fmt.Fprintf(&b, "  Prima mensual: $%s\n", formatMoney(policy.Premium))
		fmt.Fprintf(&b, "  Vence: %s\n", policy.ExpiryDate)
		if policy.Vehicle != "" {
			fmt.Fprintf(&b, "  Vehículo: %s\n", policy.Vehicle)
		}
		b.WriteString("\n")
	}
	b.WriteString("¿Necesitas más información sobre alguna póliza?")
	return b.String()
}

// formatMoney renders an amount with thousands separators and two decimals,
// e.g. 5420.5 as "5,420.50".
func formatMoney(amount float64) string {
	plain := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(plain, '.')
	intPart, fracPart := plain[:dot], plain[dot:]

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + b.String() + fracPart
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
