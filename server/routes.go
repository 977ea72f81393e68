package server

const (
	RouteChatStart = "/api/chat/start"
	RouteChat      = "/api/chat"
	RouteSession   = "/api/session"
	RouteHistory   = "/api/history"
	RouteReset     = "/api/reset"
	RouteHealth    = "/api/health"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST "+RouteChatStart, ChainMiddleware(s.StartChatHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Conversation routes require a bearer token from the start endpoint.
	s.RegisterRouteHandler("POST "+RouteChat, ChainMiddleware(s.ChatHandler(), s.APIMiddleware(s.RequireConversationAuth())...))
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware(s.RequireConversationAuth())...))
	s.RegisterRouteHandler("GET "+RouteHistory, ChainMiddleware(s.HistoryHandler(), s.APIMiddleware(s.RequireConversationAuth())...))
	s.RegisterRouteHandler("POST "+RouteReset, ChainMiddleware(s.ResetHandler(), s.APIMiddleware(s.RequireConversationAuth())...))
}
