package agent_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carlos-israelj/banking-ai-agent/agent"
	"github.com/carlos-israelj/banking-ai-agent/agent/prompts"
	"github.com/carlos-israelj/banking-ai-agent/banking"
	"github.com/carlos-israelj/banking-ai-agent/banking/corebank"
	"github.com/carlos-israelj/banking-ai-agent/knowledge"
	"github.com/carlos-israelj/banking-ai-agent/llm"
	"github.com/carlos-israelj/banking-ai-agent/security"
	"github.com/carlos-israelj/banking-ai-agent/security/sessions"
)

// countingExecutor wraps an executor and counts calls per operation.
type countingExecutor struct {
	banking.Executor
	mu    sync.Mutex
	calls map[string]int
}

func newCountingExecutor(inner banking.Executor) *countingExecutor {
	return &countingExecutor{Executor: inner, calls: make(map[string]int)}
}

func (c *countingExecutor) count(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
}

func (c *countingExecutor) callCount(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

func (c *countingExecutor) AuthenticateUser(ctx context.Context, documentID, otpCode string) (*banking.AuthResult, error) {
	c.count("authenticate_user")
	return c.Executor.AuthenticateUser(ctx, documentID, otpCode)
}

func (c *countingExecutor) GetAccountBalance(ctx context.Context, userID, accountType string) ([]banking.Account, error) {
	c.count("get_account_balance")
	return c.Executor.GetAccountBalance(ctx, userID, accountType)
}

func (c *countingExecutor) GetAccountMovements(ctx context.Context, userID, accountType string, limit int) ([]banking.Movement, error) {
	c.count("get_account_movements")
	return c.Executor.GetAccountMovements(ctx, userID, accountType, limit)
}

func (c *countingExecutor) GetCardInfo(ctx context.Context, userID, cardType string) ([]banking.Card, error) {
	c.count("get_card_info")
	return c.Executor.GetCardInfo(ctx, userID, cardType)
}

func (c *countingExecutor) GetPolicyInfo(ctx context.Context, userID, policyType string) ([]banking.Policy, error) {
	c.count("get_policy_info")
	return c.Executor.GetPolicyInfo(ctx, userID, policyType)
}

type testHarness struct {
	agent    *agent.Agent
	mock     *llm.Mock
	executor *countingExecutor
	secmgr   *security.Manager
	now      *time.Time
}

func newHarness(t *testing.T, mock *llm.Mock, params agent.Params) *testHarness {
	t.Helper()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	secmgr, err := security.NewManager(sessions.NewInMemoryRepo(), security.ManagerParams{
		SessionTimeout:    15 * time.Minute,
		MaxFailedAttempts: 3,
	}, security.WithNowTime(clock))
	require.NoError(t, err)

	executor := newCountingExecutor(corebank.NewService())

	base, err := knowledge.NewBase("")
	require.NoError(t, err)

	a, err := agent.New(agent.Deps{
		LLM:       mock,
		Executor:  executor,
		Retriever: base,
		Security:  secmgr,
	}, params, agent.WithNowTime(clock))
	require.NoError(t, err)

	return &testHarness{agent: a, mock: mock, executor: executor, secmgr: secmgr, now: &now}
}

const authenticateCall = `{"action": "call_tool", "tool_name": "authenticate_user", "parameters": {"document_id": "1234567890", "otp_code": "123456"}}`
const badOTPCall = `{"action": "call_tool", "tool_name": "authenticate_user", "parameters": {"document_id": "1234567890", "otp_code": "000000"}}`
const balanceCall = `{"action": "call_tool", "tool_name": "get_account_balance", "parameters": {}}`

func TestAgent_GeneralQuery(t *testing.T) {
	h := newHarness(t, llm.NewMock("Nuestras agencias atienden de lunes a viernes de 9:00 a 18:00. 🕐"), agent.Params{})

	reply := h.agent.ProcessMessage(context.Background(), "¿Cuáles son los horarios de atención?")
	require.Contains(t, reply, "lunes a viernes")
	require.False(t, h.agent.Authenticated())

	// Grounding was injected into the prompt for a schedule question.
	require.Len(t, h.mock.Prompts, 1)
	require.Contains(t, h.mock.Prompts[0], "[INFORMACIÓN RELEVANTE]")
}

func TestAgent_ProtectedToolRequiresAuth(t *testing.T) {
	h := newHarness(t, llm.NewMock(balanceCall), agent.Params{})

	reply := h.agent.ProcessMessage(context.Background(), "¿Cuál es mi saldo?")
	require.Equal(t, prompts.AuthRequiredMessage, reply)

	// The gate fires before the executor is ever invoked.
	require.Zero(t, h.executor.callCount("get_account_balance"))
}

func TestAgent_AuthenticateThenBalance(t *testing.T) {
	h := newHarness(t, llm.NewMock(authenticateCall, balanceCall), agent.Params{})
	ctx := context.Background()

	reply := h.agent.ProcessMessage(ctx, "Mi cédula es 1234567890 y el código es 123456")
	require.Equal(t, prompts.AuthSuccessMessage("Juan Pérez"), reply)
	require.True(t, h.agent.Authenticated())

	reply = h.agent.ProcessMessage(ctx, "¿Cuál es mi saldo?")
	require.Contains(t, reply, "5,420.50")
	require.Contains(t, reply, "12,300.00")
	require.Equal(t, 1, h.executor.callCount("get_account_balance"))

	info := h.agent.GetSessionInfo()
	require.NotNil(t, info)
	require.Equal(t, "Juan Pérez", info.UserName)
}

func TestAgent_LockoutAfterFailedAttempts(t *testing.T) {
	h := newHarness(t, llm.NewMock(badOTPCall), agent.Params{})
	ctx := context.Background()

	reply := h.agent.ProcessMessage(ctx, "código 000000")
	require.Equal(t, prompts.InvalidOTPMessage, reply)

	reply = h.agent.ProcessMessage(ctx, "código 000000")
	require.Equal(t, prompts.InvalidOTPMessage, reply)

	reply = h.agent.ProcessMessage(ctx, "código 000000")
	require.Equal(t, prompts.BlockedMessage, reply)
	require.Equal(t, 3, h.executor.callCount("authenticate_user"))

	// Blocked subjects are rejected before the core is consulted.
	reply = h.agent.ProcessMessage(ctx, "intento otra vez")
	require.Equal(t, prompts.BlockedMessage, reply)
	require.Equal(t, 3, h.executor.callCount("authenticate_user"))
	require.False(t, h.agent.Authenticated())
}

func TestAgent_SessionExpiryMidConversation(t *testing.T) {
	h := newHarness(t, llm.NewMock(authenticateCall, balanceCall), agent.Params{})
	ctx := context.Background()

	h.agent.ProcessMessage(ctx, "Mi cédula es 1234567890 y el código es 123456")
	require.True(t, h.agent.Authenticated())

	*h.now = h.now.Add(16 * time.Minute)
	require.False(t, h.agent.Authenticated())

	reply := h.agent.ProcessMessage(ctx, "¿Cuál es mi saldo?")
	require.Equal(t, prompts.AuthRequiredMessage, reply)
	require.Zero(t, h.executor.callCount("get_account_balance"))
}

func TestAgent_UnparseableOutputIsNeverEchoed(t *testing.T) {
	raw := `{"action": "call_tool", "tool_name": "transfer_funds", "parameters": {}}`
	h := newHarness(t, llm.NewMock(raw), agent.Params{})

	reply := h.agent.ProcessMessage(context.Background(), "hola")
	require.NotContains(t, reply, "call_tool")
	require.NotContains(t, reply, "{")
	require.Equal(t, prompts.CannedGreeting(), reply)
}

func TestAgent_ModelFailureGivesGenericReply(t *testing.T) {
	mock := llm.NewMock("respuesta normal")
	mock.FailWith(context.DeadlineExceeded)
	h := newHarness(t, mock, agent.Params{})

	reply := h.agent.ProcessMessage(context.Background(), "hola")
	require.Equal(t, prompts.GenericErrorMessage, reply)

	// The failed turn keeps the user message but records no assistant turn.
	history := h.agent.GetHistory(0)
	require.Len(t, history, 1)
	require.Equal(t, agent.RoleUser, history[0].Role)
}

func TestAgent_InputGate(t *testing.T) {
	h := newHarness(t, llm.NewMock("nunca debería llegar aquí"), agent.Params{})
	ctx := context.Background()

	t.Run("blank input", func(t *testing.T) {
		reply := h.agent.ProcessMessage(ctx, "   ")
		require.Contains(t, reply, "Mensaje vacío")
	})

	t.Run("injection attempt", func(t *testing.T) {
		reply := h.agent.ProcessMessage(ctx, "<script>alert(1)</script>")
		require.Contains(t, reply, "XSS")
	})

	t.Run("model never consulted", func(t *testing.T) {
		require.Zero(t, h.mock.Calls())
		require.Empty(t, h.agent.GetHistory(0))
	})
}

func TestAgent_OutputSanitizedWhenUnauthenticated(t *testing.T) {
	h := newHarness(t, llm.NewMock("La cuenta de ejemplo es 1234567890 con saldo $5,420.50"), agent.Params{})

	reply := h.agent.ProcessMessage(context.Background(), "dame un ejemplo")
	require.NotContains(t, reply, "1234567890")
	require.NotContains(t, reply, "5,420.50")
	require.Contains(t, reply, "****")
}

func TestAgent_HistoryBound(t *testing.T) {
	h := newHarness(t, llm.NewMock("claro"), agent.Params{MaxHistory: 4})
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		h.agent.ProcessMessage(ctx, "mensaje")
	}
	require.Len(t, h.agent.GetHistory(0), 4)
}

func TestAgent_RecentHistoryInPrompt(t *testing.T) {
	h := newHarness(t, llm.NewMock("entendido"), agent.Params{})
	ctx := context.Background()

	h.agent.ProcessMessage(ctx, "primera pregunta")
	h.agent.ProcessMessage(ctx, "segunda pregunta")

	last := h.mock.Prompts[len(h.mock.Prompts)-1]
	require.Contains(t, last, "[HISTORIAL RECIENTE DE LA CONVERSACIÓN]")
	require.Contains(t, last, "Usuario: primera pregunta")
	require.True(t, strings.HasSuffix(strings.TrimSpace(last), "Asistente:"))
}

func TestAgent_ResetSession(t *testing.T) {
	h := newHarness(t, llm.NewMock(authenticateCall), agent.Params{})

	h.agent.ProcessMessage(context.Background(), "Mi cédula es 1234567890 y el código es 123456")
	require.True(t, h.agent.Authenticated())

	h.agent.ResetSession()
	require.False(t, h.agent.Authenticated())
	require.Nil(t, h.agent.GetSessionInfo())
}
