// Package prompts holds the system prompt templates and the fixed
// user-facing messages of the banking assistant.
package prompts

import "fmt"

// BankInfo describes the institution the assistant speaks for.
type BankInfo struct {
	Name         string
	SupportPhone string
	Hours        string
}

// DefaultBankInfo is the demo institution.
var DefaultBankInfo = BankInfo{
	Name:         "Banco Nacional del Ecuador",
	SupportPhone: "1-800-BANCO-24",
	Hours:        "Lunes a Viernes de 8 AM a 5 PM, Sábados de 9 AM a 1 PM",
}

const systemPrompt = `Eres un asistente virtual bancario del %s.

HERRAMIENTAS: Tienes acceso a herramientas para ayudar al usuario.

DETECTA cuando el usuario proporciona cédula Y código juntos, ejemplo:
"Mi cédula es 1234567890 y el código es 123456"

En ese caso, responde SOLO esto (sin texto adicional):
{
  "action": "call_tool",
  "tool_name": "authenticate_user",
  "parameters": {
    "document_id": "numero_cedula",
    "otp_code": "codigo"
  }
}

Si el usuario pide info personal sin estar autenticado: pregunta si tiene su cédula para autenticarse.

Para preguntas generales: responde directamente en lenguaje natural.
%s
Sé profesional y amigable. Usa emojis ocasionalmente.

IMPORTANTE: Responde en texto natural conversacional. NO uses JSON excepto para herramientas bancarias específicas.`

const unauthenticatedContext = `
ESTADO: Usuario NO autenticado
`

const authenticatedContext = `
ESTADO: Usuario autenticado ✓
Nombre: %s
`

// SystemPrompt renders the system instructions for the current
// authentication state.
func SystemPrompt(bank BankInfo, authenticated bool, userName string) string {
	userContext := unauthenticatedContext
	if authenticated {
		userContext = fmt.Sprintf(authenticatedContext, userName)
	}
	return fmt.Sprintf(systemPrompt, bank.Name, userContext)
}

// Fixed user-facing messages. These are the only texts a user sees for the
// corresponding conditions; tests assert on them.
const (
	WelcomeMessage = `¡Hola! 👋 Soy tu asistente virtual bancario.

Puedo ayudarte con:
- Consultas sobre productos y servicios
- Información de tus cuentas y tarjetas (requiere autenticación)
- Preguntas sobre pólizas de seguro

¿En qué puedo ayudarte hoy?`

	GoodbyeMessage = "¡Gracias por usar nuestro servicio! Que tengas un excelente día. 👋"

	GenericErrorMessage = "Disculpa, tuve un problema técnico. ¿Puedes reformular tu pregunta? 😊"

	AuthRequiredMessage = "Por tu seguridad, necesito verificar tu identidad primero. ¿Tienes a mano tu cédula? 🔐"

	DocumentNeededMessage = "Necesito tu número de cédula para autenticarte. ¿Puedes proporcionarla?"

	UserNotFoundMessage = "No encontré un usuario registrado con esa cédula. ¿Puedes verificar el número?"

	InvalidOTPMessage = "El código de verificación no es correcto. ¿Quieres que te envíe uno nuevo?"

	ServiceDownMessage = "Estoy teniendo problemas técnicos. ¿Puedes intentar en unos minutos? 🙏"

	BlockedMessage = "Por seguridad hemos bloqueado temporalmente los intentos de autenticación. Por favor comunícate con soporte. 📞"

	ToolUnavailableMessage = "Disculpa, esa operación no está disponible en este momento."

	NoKnowledgeMessage = "No encontré información sobre eso. ¿Quieres que te contacte con un asesor? 📞"
)

// InputRejectedMessage explains a rejected input without echoing it.
func InputRejectedMessage(reason string) string {
	return fmt.Sprintf("⚠️ %s. Por favor, reformula tu mensaje.", reason)
}

// RateLimitedMessage tells the user when the window resets.
func RateLimitedMessage(resetClock string) string {
	return fmt.Sprintf("⚠️ Has alcanzado el límite de solicitudes. Por favor intenta de nuevo a las %s.", resetClock)
}

// AuthSuccessMessage greets a freshly authenticated user.
func AuthSuccessMessage(userName string) string {
	return fmt.Sprintf("✅ ¡Perfecto! Autenticación exitosa. Hola %s 👋\n\n¿En qué puedo ayudarte hoy?", userName)
}

// Safe defaults when the model emitted JSON-looking text that failed the
// tool-call check. Raw structured output is never echoed to the user.
func CannedGreeting() string {
	return "¡Hola! 👋 ¿En qué puedo ayudarte hoy?"
}

func CannedHours(bank BankInfo) string {
	return fmt.Sprintf("Nuestros horarios son: %s. 🏦", bank.Hours)
}

func CannedGeneric() string {
	return "¿En qué puedo ayudarte? Puedo responder sobre productos bancarios o tus cuentas. 😊"
}
