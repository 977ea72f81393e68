package agent

import (
	"encoding/json"
	"strings"
)

// Tool names the model may request. Anything else is treated as plain text.
const (
	ToolAuthenticateUser    = "authenticate_user"
	ToolGetAccountBalance   = "get_account_balance"
	ToolGetAccountMovements = "get_account_movements"
	ToolGetCardInfo         = "get_card_info"
	ToolGetPolicyInfo       = "get_policy_info"
	ToolSearchKnowledgeBase = "search_knowledge_base"
)

const toolCallSentinel = "call_tool"

var knownTools = map[string]struct{}{
	ToolAuthenticateUser:    {},
	ToolGetAccountBalance:   {},
	ToolGetAccountMovements: {},
	ToolGetCardInfo:         {},
	ToolGetPolicyInfo:       {},
	ToolSearchKnowledgeBase: {},
}

// protectedTools require a valid attached session before dispatch.
var protectedTools = map[string]struct{}{
	ToolGetAccountBalance:   {},
	ToolGetAccountMovements: {},
	ToolGetCardInfo:         {},
	ToolGetPolicyInfo:       {},
}

// ModelOutput is the typed result of parsing free-form model text.
type ModelOutput interface {
	isModelOutput()
}

// PlainReply is conversational text, passed through after sanitization.
type PlainReply struct {
	Text string
}

// ToolInvocation is a validated structured tool request.
type ToolInvocation struct {
	Name        string
	Params      map[string]any
	UserMessage string
}

// Unparseable is JSON-looking text that failed the tool-call check. It must
// never be echoed verbatim to the user.
type Unparseable struct {
	Raw string
}

func (PlainReply) isModelOutput()     {}
func (ToolInvocation) isModelOutput() {}
func (Unparseable) isModelOutput()    {}

type toolCallEnvelope struct {
	Action      string         `json:"action"`
	ToolName    string         `json:"tool_name"`
	Parameters  map[string]any `json:"parameters"`
	UserMessage string         `json:"user_message"`
}

// ParseModelOutput classifies model text. A fragment between the first '{'
// and the last '}' is accepted as a tool call only when it parses as JSON,
// carries the call_tool sentinel, and names a known tool. Everything else is
// plain text — except JSON-looking text, which becomes Unparseable so the
// caller can substitute a safe reply.
func ParseModelOutput(text string) ModelOutput {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return classifyNonCall(trimmed)
	}

	var envelope toolCallEnvelope
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &envelope); err != nil {
		return classifyNonCall(trimmed)
	}
	if envelope.Action != toolCallSentinel {
		return classifyNonCall(trimmed)
	}
	if _, known := knownTools[envelope.ToolName]; !known {
		return classifyNonCall(trimmed)
	}

	params := envelope.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return ToolInvocation{
		Name:        envelope.ToolName,
		Params:      params,
		UserMessage: envelope.UserMessage,
	}
}

func classifyNonCall(trimmed string) ModelOutput {
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return Unparseable{Raw: trimmed}
	}
	return PlainReply{Text: trimmed}
}

func stringParam(params map[string]any, key string) string {
	if value, ok := params[key].(string); ok {
		return value
	}
	return ""
}

func intParam(params map[string]any, key string, defaultValue int) int {
	switch value := params[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return defaultValue
	}
}
