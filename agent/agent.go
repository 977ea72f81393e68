// Package agent implements the dialogue-turn orchestration of the banking
// assistant: input gating, knowledge grounding, model calls, tool-call
// detection and authorized dispatch, and output sanitization.
package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/carlos-israelj/banking-ai-agent/agent/prompts"
	"github.com/carlos-israelj/banking-ai-agent/banking"
	"github.com/carlos-israelj/banking-ai-agent/knowledge"
	"github.com/carlos-israelj/banking-ai-agent/llm"
	"github.com/carlos-israelj/banking-ai-agent/security"
)

// Deps holds the collaborators an Agent orchestrates. All are required.
type Deps struct {
	LLM       llm.Client
	Executor  banking.Executor
	Retriever knowledge.Retriever
	Security  *security.Manager
}

// Params carries per-agent tuning; zero values fall back to defaults.
type Params struct {
	Generation  llm.GenerationConfig
	ToolTimeout time.Duration
	ToolRetries int
	MaxHistory  int
	TopKResults int
	Bank        prompts.BankInfo
}

// Agent owns exactly one conversation: its history and its session handle.
// Turns are processed strictly sequentially; a turn completes (including any
// tool dispatch) before the next is accepted.
type Agent struct {
	id          string
	llmClient   llm.Client
	executor    banking.Executor
	retriever   knowledge.Retriever
	secmgr      *security.Manager
	bank        prompts.BankInfo
	genCfg      llm.GenerationConfig
	toolTimeout time.Duration
	toolRetries int
	maxHistory  int
	topK        int
	nowTime     func() time.Time
	logger      zerolog.Logger

	mu            sync.Mutex
	history       []Turn
	sessionToken  string
	currentUserID string
	userName      string
}

// Option modifies an Agent instance.
type Option func(*Agent)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(a *Agent) {
		a.nowTime = nowFunc
	}
}

// WithLogger sets the logger for turn errors and security correlation.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New initializes an Agent for a single conversation.
func New(deps Deps, params Params, options ...Option) (*Agent, error) {
	if deps.LLM == nil {
		return nil, errors.New("[agent.New] LLM client is required")
	}
	if deps.Executor == nil {
		return nil, errors.New("[agent.New] banking executor is required")
	}
	if deps.Retriever == nil {
		return nil, errors.New("[agent.New] knowledge retriever is required")
	}
	if deps.Security == nil {
		return nil, errors.New("[agent.New] security manager is required")
	}

	if params.ToolTimeout <= 0 {
		params.ToolTimeout = 5 * time.Second
	}
	if params.ToolRetries < 0 {
		params.ToolRetries = 0
	}
	if params.MaxHistory <= 0 {
		params.MaxHistory = 50
	}
	if params.TopKResults <= 0 {
		params.TopKResults = 3
	}
	if params.Bank == (prompts.BankInfo{}) {
		params.Bank = prompts.DefaultBankInfo
	}

	a := &Agent{
		id:          uuid.New().String(),
		llmClient:   deps.LLM,
		executor:    deps.Executor,
		retriever:   deps.Retriever,
		secmgr:      deps.Security,
		bank:        params.Bank,
		genCfg:      params.Generation,
		toolTimeout: params.ToolTimeout,
		toolRetries: params.ToolRetries,
		maxHistory:  params.MaxHistory,
		topK:        params.TopKResults,
		nowTime:     time.Now,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a, nil
}

// ID returns the conversation identifier.
func (a *Agent) ID() string {
	return a.id
}

// ProcessMessage runs one dialogue turn and returns the user-facing reply.
// It never returns an error: every fault is converted into a safe message
// and the process keeps serving.
func (a *Agent) ProcessMessage(ctx context.Context, userMessage string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	// 1. Input gate. Rejections never touch history or the model.
	verdict := a.secmgr.ValidateInput(userMessage)
	if !verdict.Valid {
		return prompts.InputRejectedMessage(verdict.Reason)
	}

	// Session expiry transitions the conversation back to Unauthenticated
	// before the prompt context is assembled.
	a.refreshSession()

	// 2. Rate limit, once a subject identity is known.
	if a.currentUserID != "" {
		rate := a.secmgr.CheckRateLimit(a.currentUserID)
		if !rate.Allowed {
			return prompts.RateLimitedMessage(rate.ResetTime.Format("15:04"))
		}
	}

	// 3. Knowledge grounding for general queries. An empty result is "no
	// grounding available", the turn continues without it.
	knowledgeContext := ""
	if isGeneralQuery(userMessage) {
		results, err := a.retriever.Search(ctx, userMessage, a.topK)
		if err != nil {
			a.logger.Warn().Err(err).Str("conversation", a.id).Msg("knowledge search failed")
		} else if results != "" {
			knowledgeContext = "\n[INFORMACIÓN RELEVANTE]:\n" + results + "\n"
		}
	}

	// 4. Prompt assembly from state before this turn, then record the turn.
	prompt := a.buildPrompt(knowledgeContext, userMessage)
	a.appendTurn(RoleUser, userMessage)

	reply, err := a.generateAndDispatch(ctx, prompt, userMessage)
	if err != nil {
		a.logger.Error().Err(err).
			Str("conversation", a.id).
			Str("user", a.currentUserID).
			Bool("session_active", a.sessionToken != "").
			Msg("turn failed")
		return prompts.GenericErrorMessage
	}

	// 9. Sanitize against the authentication state after dispatch: a
	// successful authenticate turn already counts as authenticated.
	reply = a.secmgr.SanitizeOutput(reply, a.sessionToken != "")

	// 10. Record and return.
	a.appendTurn(RoleAssistant, reply)
	return reply
}

// generateAndDispatch covers steps 5-8: model call, tool-call detection,
// authorization gate and dispatch. Any error here fails the turn with one
// generic apology upstream.
func (a *Agent) generateAndDispatch(ctx context.Context, prompt, userMessage string) (string, error) {
	responseText, err := a.llmClient.Generate(ctx, prompt, a.genCfg)
	if err != nil {
		return "", errors.Wrap(err, "[Agent.generateAndDispatch] llm generate")
	}

	switch output := ParseModelOutput(responseText).(type) {
	case ToolInvocation:
		return a.dispatchTool(ctx, output)
	case Unparseable:
		// Malformed structured output is never echoed verbatim.
		return cannedReply(a.bank, userMessage), nil
	case PlainReply:
		return output.Text, nil
	default:
		return prompts.GenericErrorMessage, nil
	}
}

func (a *Agent) buildPrompt(knowledgeContext, userMessage string) string {
	system := prompts.SystemPrompt(a.bank, a.sessionToken != "", a.userName)

	parts := []string{system}
	if knowledgeContext != "" {
		parts = append(parts, knowledgeContext)
	}

	recent := a.history
	if len(recent) > recentTurns {
		recent = recent[len(recent)-recentTurns:]
	}
	if len(recent) > 0 {
		parts = append(parts, "\n[HISTORIAL RECIENTE DE LA CONVERSACIÓN]:")
		for _, turn := range recent {
			role := "Usuario"
			if turn.Role == RoleAssistant {
				role = "Asistente"
			}
			parts = append(parts, role+": "+turn.Content)
		}
	}

	parts = append(parts, "\nUsuario: "+userMessage)
	parts = append(parts, "Asistente:")
	return strings.Join(parts, "\n")
}

// refreshSession drops the attached session when it no longer validates,
// transitioning the conversation back to Unauthenticated.
func (a *Agent) refreshSession() {
	if a.sessionToken == "" {
		return
	}
	valid, _ := a.secmgr.ValidateSession(a.sessionToken)
	if !valid {
		a.sessionToken = ""
		a.currentUserID = ""
		a.userName = ""
	}
}

// GetSessionInfo returns a redacted view of the attached session, or nil.
func (a *Agent) GetSessionInfo() *security.SessionInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sessionToken == "" {
		return nil
	}
	return a.secmgr.SessionInfo(a.sessionToken)
}

// Authenticated reports whether a valid session is attached.
func (a *Agent) Authenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.refreshSession()
	return a.sessionToken != ""
}

// ResetSession destroys the attached session (logout). History is kept; the
// conversation simply returns to the Unauthenticated state.
func (a *Agent) ResetSession() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sessionToken != "" {
		a.secmgr.DestroySession(a.sessionToken)
	}
	a.sessionToken = ""
	a.currentUserID = ""
	a.userName = ""
}

// generalQueryKeywords gate the knowledge lookup: schedule, fee and
// procedure style questions benefit from grounding, account operations do
// not.
var generalQueryKeywords = []string{
	"horario", "requisito", "cómo", "como", "qué es", "que es",
	"diferencia", "tasa", "interés", "comisión", "cobran",
	"ofrecen", "tipos de", "solicitar", "abrir",
}

func isGeneralQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range generalQueryKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func cannedReply(bank prompts.BankInfo, userMessage string) string {
	lower := strings.ToLower(userMessage)
	switch {
	case strings.Contains(lower, "hola") || strings.Contains(lower, "buenos") || strings.Contains(lower, "hi"):
		return prompts.CannedGreeting()
	case strings.Contains(lower, "horario"):
		return prompts.CannedHours(bank)
	default:
		return prompts.CannedGeneric()
	}
}
