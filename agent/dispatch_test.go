package agent_test

import (
	"context"
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

func newDispatchAgent(t *testing.T, mock *llm.Mock, executor banking.Executor, retries int) *agent.Agent {
	t.Helper()

	secmgr, err := security.NewManager(sessions.NewInMemoryRepo(), security.ManagerParams{})
	require.NoError(t, err)

	base, err := knowledge.NewBase("")
	require.NoError(t, err)

	a, err := agent.New(agent.Deps{
		LLM:       mock,
		Executor:  executor,
		Retriever: base,
		Security:  secmgr,
	}, agent.Params{
		ToolTimeout: time.Second,
		ToolRetries: retries,
	})
	require.NoError(t, err)
	return a
}

func TestDispatch_TransientFailuresAreRetried(t *testing.T) {
	inner := corebank.NewService(corebank.WithFailureRate(1.0))
	executor := newCountingExecutor(inner)
	a := newDispatchAgent(t, llm.NewMock(authenticateCall), executor, 2)

	reply := a.ProcessMessage(context.Background(), "Mi cédula es 1234567890")
	require.Equal(t, prompts.ServiceDownMessage, reply)
	// Initial attempt plus two retries.
	require.Equal(t, 3, executor.callCount("authenticate_user"))
	require.False(t, a.Authenticated())
}

func TestDispatch_TypedRejectionsAreNotRetried(t *testing.T) {
	executor := newCountingExecutor(corebank.NewService())
	a := newDispatchAgent(t, llm.NewMock(badOTPCall), executor, 2)

	reply := a.ProcessMessage(context.Background(), "código 000000")
	require.Equal(t, prompts.InvalidOTPMessage, reply)
	require.Equal(t, 1, executor.callCount("authenticate_user"))
}

func TestDispatch_MissingDocumentAsksForIt(t *testing.T) {
	executor := newCountingExecutor(corebank.NewService())
	noDocCall := `{"action": "call_tool", "tool_name": "authenticate_user", "parameters": {}}`
	a := newDispatchAgent(t, llm.NewMock(noDocCall), executor, 0)

	reply := a.ProcessMessage(context.Background(), "quiero autenticarme")
	require.Equal(t, prompts.DocumentNeededMessage, reply)
	require.Zero(t, executor.callCount("authenticate_user"))
}

func TestDispatch_KnowledgeSearchTool(t *testing.T) {
	searchCall := `{"action": "call_tool", "tool_name": "search_knowledge_base", "parameters": {"query": "horarios de atención"}}`
	executor := newCountingExecutor(corebank.NewService())
	a := newDispatchAgent(t, llm.NewMock(searchCall), executor, 0)

	reply := a.ProcessMessage(context.Background(), "dime algo del banco")
	require.Contains(t, reply, "¿Necesitas saber algo más?")
}

func TestDispatch_AuthenticatedToolFormatting(t *testing.T) {
	executor := newCountingExecutor(corebank.NewService())
	movementsCall := `{"action": "call_tool", "tool_name": "get_account_movements", "parameters": {"account_type": "ahorros", "limit": 3}}`
	cardsCall := `{"action": "call_tool", "tool_name": "get_card_info", "parameters": {}}`
	policiesCall := `{"action": "call_tool", "tool_name": "get_policy_info", "parameters": {}}`
	a := newDispatchAgent(t, llm.NewMock(authenticateCall, movementsCall, cardsCall, policiesCall), executor, 0)
	ctx := context.Background()

	a.ProcessMessage(ctx, "Mi cédula es 1234567890 y el código es 123456")
	require.True(t, a.Authenticated())

	reply := a.ProcessMessage(ctx, "mis últimos 3 movimientos")
	require.Contains(t, reply, "Últimos 3 movimientos")

	reply = a.ProcessMessage(ctx, "mis tarjetas")
	require.Contains(t, reply, "Tus Tarjetas")
	require.Contains(t, reply, "**** **** **** 4532")

	reply = a.ProcessMessage(ctx, "mis pólizas")
	require.Contains(t, reply, "Tus Pólizas de Seguro")
	require.Contains(t, reply, "Toyota Corolla 2020")
}
