// Package server exposes the conversational agent over HTTP. Each
// conversation is created by the start endpoint and addressed afterwards by a
// signed bearer token.
package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/carlos-israelj/banking-ai-agent/internal/config"
)

type Server struct {
	env          string
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	agentFactory AgentFactory
	registry     *registry
	tokenSecret  []byte
}

func New(cfg config.Config, agentFactory AgentFactory) (*Server, error) {
	if agentFactory == nil {
		return nil, errors.New("[server.New] agent factory is required")
	}

	s := &Server{
		mux:          http.NewServeMux(),
		config:       cfg,
		agentFactory: agentFactory,
		registry:     newRegistry(),
		tokenSecret:  newTokenSecret(cfg.GetConversationTokenSecret()),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
