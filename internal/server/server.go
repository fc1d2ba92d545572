package server

import (
	"log/slog"
	"net/http"

	"orders-analytics/internal/handlers"
	"orders-analytics/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/region-profit", s.apiHandlers.HandleRegionProfit)
	s.mux.HandleFunc("GET /api/ship-methods", s.apiHandlers.HandleShipMethods)
	s.mux.HandleFunc("GET /api/category-orders", s.apiHandlers.HandleCategoryOrders)
	s.mux.HandleFunc("GET /api/orders-with-profit", s.apiHandlers.HandleOrdersWithProfit)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/region-profit", s.sseHandlers.HandleRegionProfit)
	s.mux.HandleFunc("GET /sse/ship-methods", s.sseHandlers.HandleShipMethods)
	s.mux.HandleFunc("GET /sse/category-orders", s.sseHandlers.HandleCategoryOrders)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
