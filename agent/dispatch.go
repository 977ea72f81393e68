package agent

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/carlos-israelj/banking-ai-agent/agent/prompts"
	"github.com/carlos-israelj/banking-ai-agent/banking"
	"github.com/carlos-israelj/banking-ai-agent/security"
)

// dispatchTool authorizes and executes a validated tool invocation, mapping
// the typed result to a user-facing reply. Only unexpected faults return an
// error; typed tool failures become friendly messages.
func (a *Agent) dispatchTool(ctx context.Context, invocation ToolInvocation) (string, error) {
	// Authorization gate: protected tools are never dispatched without a
	// valid attached session.
	if _, protected := protectedTools[invocation.Name]; protected && a.sessionToken == "" {
		return prompts.AuthRequiredMessage, nil
	}

	switch invocation.Name {
	case ToolAuthenticateUser:
		return a.executeAuthenticate(ctx, invocation.Params)
	case ToolGetAccountBalance:
		return a.executeGetBalance(ctx, invocation.Params)
	case ToolGetAccountMovements:
		return a.executeGetMovements(ctx, invocation.Params)
	case ToolGetCardInfo:
		return a.executeGetCards(ctx, invocation.Params)
	case ToolGetPolicyInfo:
		return a.executeGetPolicies(ctx, invocation.Params)
	case ToolSearchKnowledgeBase:
		return a.executeSearchKnowledge(ctx, invocation.Params)
	default:
		return prompts.ToolUnavailableMessage, nil
	}
}

// callWithRetry bounds each attempt with the tool timeout and retries only
// transient failures; typed rejections are final.
func callWithRetry[T any](ctx context.Context, timeout time.Duration, attempts int, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := fn(callCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !banking.IsTransient(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return zero, lastErr
}

func (a *Agent) executeAuthenticate(ctx context.Context, params map[string]any) (string, error) {
	documentID := stringParam(params, "document_id")
	otpCode := stringParam(params, "otp_code")

	if documentID == "" {
		return prompts.DocumentNeededMessage, nil
	}
	if a.secmgr.IsBlocked(documentID) {
		return prompts.BlockedMessage, nil
	}

	result, err := callWithRetry(ctx, a.toolTimeout, a.toolRetries, func(callCtx context.Context) (*banking.AuthResult, error) {
		return a.executor.AuthenticateUser(callCtx, documentID, otpCode)
	})
	if err != nil {
		switch banking.KindOf(err) {
		case banking.ErrKindUserNotFound:
			return a.failedAuthReply(documentID, prompts.UserNotFoundMessage), nil
		case banking.ErrKindInvalidOTP:
			return a.failedAuthReply(documentID, prompts.InvalidOTPMessage), nil
		case banking.ErrKindServiceUnavailable:
			// Availability faults are not the user's fault and never count
			// toward the lockout.
			return prompts.ServiceDownMessage, nil
		default:
			return "", errors.Wrap(err, "[Agent.executeAuthenticate] authenticate_user")
		}
	}

	token, err := a.secmgr.CreateSession(result.UserID, security.Profile{
		UserID:     result.UserID,
		UserName:   result.UserName,
		DocumentID: result.DocumentID,
	})
	if err != nil {
		return "", errors.Wrap(err, "[Agent.executeAuthenticate] create session")
	}

	a.sessionToken = token
	a.currentUserID = result.UserID
	a.userName = result.UserName
	return prompts.AuthSuccessMessage(result.UserName), nil
}

func (a *Agent) failedAuthReply(documentID, causeMessage string) string {
	status := a.secmgr.RecordFailedAttempt(documentID)
	a.secmgr.LogSecurityEvent("authentication_failed", security.HashSensitiveData(documentID), map[string]any{
		"attempts":     status.Attempts,
		"conversation": a.id,
	})
	if status.Blocked {
		return prompts.BlockedMessage
	}
	return causeMessage
}

func (a *Agent) executeGetBalance(ctx context.Context, params map[string]any) (string, error) {
	accountType := stringParam(params, "account_type")

	accounts, err := callWithRetry(ctx, a.toolTimeout, a.toolRetries, func(callCtx context.Context) ([]banking.Account, error) {
		return a.executor.GetAccountBalance(callCtx, a.currentUserID, accountType)
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("conversation", a.id).Msg("balance lookup failed")
		return "No pude consultar tu saldo en este momento. ¿Quieres que intente de nuevo?", nil
	}
	return formatAccounts(accounts), nil
}

func (a *Agent) executeGetMovements(ctx context.Context, params map[string]any) (string, error) {
	accountType := stringParam(params, "account_type")
	if accountType == "" {
		accountType = "ahorros"
	}
	limit := intParam(params, "limit", 5)

	movements, err := callWithRetry(ctx, a.toolTimeout, a.toolRetries, func(callCtx context.Context) ([]banking.Movement, error) {
		return a.executor.GetAccountMovements(callCtx, a.currentUserID, accountType, limit)
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("conversation", a.id).Msg("movements lookup failed")
		return "No pude consultar los movimientos. ¿Intentamos de nuevo?", nil
	}
	return formatMovements(accountType, movements), nil
}

func (a *Agent) executeGetCards(ctx context.Context, params map[string]any) (string, error) {
	cardType := stringParam(params, "card_type")

	cards, err := callWithRetry(ctx, a.toolTimeout, a.toolRetries, func(callCtx context.Context) ([]banking.Card, error) {
		return a.executor.GetCardInfo(callCtx, a.currentUserID, cardType)
	})
	if err != nil {
		if banking.KindOf(err) == banking.ErrKindCardNotFound {
			return "No encontré tarjetas activas en tu cuenta.", nil
		}
		a.logger.Warn().Err(err).Str("conversation", a.id).Msg("card lookup failed")
		return "No pude consultar la información de tus tarjetas. ¿Intentamos nuevamente?", nil
	}
	return formatCards(cards), nil
}

func (a *Agent) executeGetPolicies(ctx context.Context, params map[string]any) (string, error) {
	policyType := stringParam(params, "policy_type")

	policies, err := callWithRetry(ctx, a.toolTimeout, a.toolRetries, func(callCtx context.Context) ([]banking.Policy, error) {
		return a.executor.GetPolicyInfo(callCtx, a.currentUserID, policyType)
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("conversation", a.id).Msg("policy lookup failed")
		return "No pude consultar tus pólizas. ¿Intentamos de nuevo?", nil
	}
	return formatPolicies(policies), nil
}

func (a *Agent) executeSearchKnowledge(ctx context.Context, params map[string]any) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "No entendí sobre qué quieres información. ¿Puedes ser más específico?", nil
	}

	results, err := a.retriever.Search(ctx, query, a.topK)
	if err != nil {
		return "", errors.Wrap(err, "[Agent.executeSearchKnowledge] search")
	}
	if results == "" {
		return prompts.NoKnowledgeMessage, nil
	}
	return results + "\n\n¿Necesitas saber algo más?", nil
}
