package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"orders-analytics/internal/errors"
	"orders-analytics/internal/services"
)

const maxOrderRows = 500

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

func (h *APIHandlers) HandleRegionProfit(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.MostProfitableRegions(), cacheHeaders)
}

func (h *APIHandlers) HandleShipMethods(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.ShipMethodLeaders(), cacheHeaders)
}

func (h *APIHandlers) HandleCategoryOrders(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.CategoryOrderCounts(), cacheHeaders)
}

func (h *APIHandlers) HandleOrdersWithProfit(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.OrdersWithProfit(maxOrderRows), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
