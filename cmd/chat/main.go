// Command chat runs the banking assistant as an interactive terminal
// conversation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/carlos-israelj/banking-ai-agent/agent"
	"github.com/carlos-israelj/banking-ai-agent/agent/prompts"
	"github.com/carlos-israelj/banking-ai-agent/banking/corebank"
	"github.com/carlos-israelj/banking-ai-agent/internal/config"
	"github.com/carlos-israelj/banking-ai-agent/knowledge"
	"github.com/carlos-israelj/banking-ai-agent/llm"
	"github.com/carlos-israelj/banking-ai-agent/security"
	"github.com/carlos-israelj/banking-ai-agent/security/sessions"
)

func main() {
	_ = godotenv.Load()

	c := config.New()

	a, err := buildAgent(c)
	if err != nil {
		log.Fatalf("Error al inicializar el agente: %s\n", err)
	}

	printBanner()

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("\n👤 Tú: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "salir", "exit", "quit", "bye", "adios":
			fmt.Printf("\n🤖 Asistente: %s\n\n", prompts.GoodbyeMessage)
			return
		case "reset":
			a.ResetSession()
			fmt.Println("\n🤖 Asistente: Sesión cerrada. ¿En qué puedo ayudarte? 🔓")
			continue
		case "historial", "history":
			printHistory(a)
			continue
		case "sesion", "session", "info":
			printSession(a)
			continue
		case "ayuda", "help", "?":
			printHelp()
			continue
		}

		fmt.Printf("\n🤖 Asistente: %s\n", a.ProcessMessage(ctx, input))
	}
}

func buildAgent(c config.Config) (*agent.Agent, error) {
	sessionRepo, err := sessions.NewRepo(c.GetSessionStoreDriver(), c.GetRedisAddr(), c.GetSessionTimeout())
	if err != nil {
		return nil, err
	}

	secmgr, err := security.NewManager(sessionRepo, security.ManagerParams{
		SessionTimeout:      c.GetSessionTimeout(),
		MaxFailedAttempts:   c.GetMaxFailedAttempts(),
		RateLimitRequests:   c.GetRateLimitRequests(),
		RateLimitWindow:     c.GetRateLimitWindow(),
		MaxInputLength:      c.GetMaxInputLength(),
		AmountMaskThreshold: c.GetAmountMaskThreshold(),
	})
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClient(llm.ProviderConfig{
		Provider:       c.GetModelProvider(),
		Model:          c.GetModelName(),
		EmbeddingModel: c.GetEmbeddingModel(),
		APIKey:         c.GetModelAPIKey(),
		Timeout:        c.GetToolTimeout(),
		RetryAttempts:  c.GetToolRetryAttempts(),
	})
	if err != nil {
		return nil, err
	}

	base, err := knowledge.NewBase(c.GetFAQsFile())
	if err != nil {
		return nil, err
	}

	return agent.New(agent.Deps{
		LLM:       llmClient,
		Executor:  corebank.NewService(),
		Retriever: base,
		Security:  secmgr,
	}, agent.Params{
		Generation: llm.GenerationConfig{
			Temperature: c.GetModelTemperature(),
			MaxTokens:   c.GetModelMaxTokens(),
			TopP:        c.GetModelTopP(),
			TopK:        c.GetModelTopK(),
		},
		ToolTimeout: c.GetToolTimeout(),
		ToolRetries: c.GetToolRetryAttempts(),
		MaxHistory:  c.GetMaxHistoryLength(),
		TopKResults: c.GetTopKResults(),
	})
}

func printBanner() {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("🏦  BANCO NACIONAL DEL ECUADOR - ASISTENTE VIRTUAL  🏦")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println(prompts.WelcomeMessage)
	fmt.Println("\n💡 Comandos especiales:")
	fmt.Println("   • 'salir' o 'exit' - Terminar conversación")
	fmt.Println("   • 'reset' - Cerrar sesión y reiniciar")
	fmt.Println("   • 'historial' - Ver últimas interacciones")
	fmt.Println("   • 'sesion' - Ver estado de la sesión")
	fmt.Println(strings.Repeat("=", 70))
}

func printHistory(a *agent.Agent) {
	fmt.Println("\n📜 Historial de conversación (últimos 10 mensajes):")
	for _, turn := range a.GetHistory(10) {
		role := "🤖 Asistente"
		if turn.Role == agent.RoleUser {
			role = "👤 Tú"
		}
		content := turn.Content
		if runes := []rune(content); len(runes) > 80 {
			content = string(runes[:80]) + "..."
		}
		fmt.Printf("%s: %s\n", role, content)
	}
}

func printSession(a *agent.Agent) {
	info := a.GetSessionInfo()
	if info == nil {
		fmt.Println("\n🔓 No hay sesión activa")
		return
	}
	fmt.Println("\n🔐 Sesión activa:")
	fmt.Printf("   Usuario: %s\n", info.UserName)
	fmt.Printf("   Tiempo restante: %d minutos\n", info.MinutesRemaining)
	fmt.Printf("   Última actividad: %s\n", info.LastActivity.Format("2006-01-02 15:04:05"))
}

func printHelp() {
	fmt.Println("\n📚 AYUDA - ¿Qué puedes hacer?")
	fmt.Println("\n1️⃣  Preguntas Generales (sin autenticación):")
	fmt.Println("   • ¿Cuáles son los horarios de atención?")
	fmt.Println("   • ¿Cómo abrir una cuenta de ahorros?")
	fmt.Println("   • ¿Qué tipos de seguros ofrecen?")
	fmt.Println("\n2️⃣  Consultas Personales (requiere autenticación):")
	fmt.Println("   • ¿Cuál es mi saldo?")
	fmt.Println("   • Muéstrame mis tarjetas")
	fmt.Println("   • Mis últimos movimientos")
	fmt.Println("\n3️⃣  Autenticación:")
	fmt.Println("   Usuario: Mi cédula es 1234567890 y el código es 123456")
	fmt.Println("\n💡 Credenciales de prueba:")
	fmt.Println("   Cédula: 1234567890")
	fmt.Println("   Código OTP: 123456")
}
