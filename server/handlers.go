package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/carlos-israelj/banking-ai-agent/agent"
	"github.com/carlos-israelj/banking-ai-agent/agent/prompts"
)

type startChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Token          string `json:"token"`
	Message        string `json:"message"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply         string `json:"reply"`
	Authenticated bool   `json:"authenticated"`
}

type sessionResponse struct {
	Active           bool   `json:"active"`
	UserName         string `json:"user_name,omitempty"`
	MinutesRemaining int    `json:"minutes_remaining,omitempty"`
}

type historyResponse struct {
	Turns []agent.Turn `json:"turns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// conversationAgent resolves the agent that RequireConversationAuth attached
// to the request context.
func (s *Server) conversationAgent(r *http.Request) (*agent.Agent, bool) {
	conversationID, ok := r.Context().Value(ContextKeyConversationID).(string)
	if !ok {
		return nil, false
	}
	return s.registry.get(conversationID)
}

// StartChatHandler creates a conversation and returns its bearer token with
// the welcome message.
func (s *Server) StartChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.agentFactory()
		if err != nil {
			log.Error().Err(err).Msg("agent creation failed")
			writeError(w, http.StatusInternalServerError, "could not start conversation")
			return
		}

		token, err := s.issueConversationToken(a.ID())
		if err != nil {
			log.Error().Err(err).Msg("token issue failed")
			writeError(w, http.StatusInternalServerError, "could not start conversation")
			return
		}

		s.registry.add(a)
		writeJSON(w, http.StatusCreated, startChatResponse{
			ConversationID: a.ID(),
			Token:          token,
			Message:        prompts.WelcomeMessage,
		})
	}
}

// ChatHandler processes one dialogue turn for the authenticated conversation.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.conversationAgent(r)
		if !ok {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		reply := a.ProcessMessage(r.Context(), req.Message)
		writeJSON(w, http.StatusOK, chatResponse{
			Reply:         reply,
			Authenticated: a.Authenticated(),
		})
	}
}

// SessionHandler reports the conversation's security session state. Only
// redacted fields leave the server.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.conversationAgent(r)
		if !ok {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}

		info := a.GetSessionInfo()
		if info == nil {
			writeJSON(w, http.StatusOK, sessionResponse{Active: false})
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			Active:           true,
			UserName:         info.UserName,
			MinutesRemaining: info.MinutesRemaining,
		})
	}
}

// HistoryHandler returns the retained dialogue turns.
func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.conversationAgent(r)
		if !ok {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeJSON(w, http.StatusOK, historyResponse{Turns: a.GetHistory(0)})
	}
}

// ResetHandler destroys the conversation's session and clears its history.
func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.conversationAgent(r)
		if !ok {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		a.ResetSession()
		writeJSON(w, http.StatusOK, map[string]string{"message": prompts.GoodbyeMessage})
	}
}

// HealthHandler reports liveness and the number of open conversations.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"conversations": s.registry.count(),
		})
	}
}
