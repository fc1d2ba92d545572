package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orders-analytics/internal/models"
)

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := testLogger()

	handlers := NewSSEHandlers(analytics, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewSSEHandlers() should set analytics field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestRenderRegionTable(t *testing.T) {
	testData := []models.RegionProfit{
		{Region: "Central", TotalProfit: 803.0},
	}

	html, err := renderTable(regionTableTemplate, testData)
	if err != nil {
		t.Fatalf("renderTable() failed: %v", err)
	}

	expectedContent := []string{
		`<table class="modern-table">`,
		"<th>Region</th>",
		"<th>Total Profit</th>",
		"Central",
		"803.00",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestRenderShipMethodTable(t *testing.T) {
	testData := []models.ShipMethodCount{
		{Category: "Furniture", ShipMode: "Standard Class", Count: 2},
		{Category: "Technology", ShipMode: "Ground", Count: 1},
	}

	html, err := renderTable(shipMethodTableTemplate, testData)
	if err != nil {
		t.Fatalf("renderTable() failed: %v", err)
	}

	expectedContent := []string{
		"<th>Category</th>",
		"<th>Ship Mode</th>",
		"Furniture",
		"Standard Class",
		"Technology",
		"Ground",
	}
	for _, content := range expectedContent {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleRegionProfit(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/region-profit", nil)
	w := httptest.NewRecorder()

	handlers.HandleRegionProfit(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if !strings.Contains(contentType, "text/event-stream") {
		t.Errorf("expected SSE content type, got %q", contentType)
	}

	body := w.Body.String()
	if !strings.Contains(body, "region-content") {
		t.Errorf("expected body to patch region-content, got %q", body)
	}
	if !strings.Contains(body, "Central") {
		t.Errorf("expected body to include the top region, got %q", body)
	}
}

func TestSSEHandlers_HandleShipMethods(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/ship-methods", nil)
	w := httptest.NewRecorder()

	handlers.HandleShipMethods(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "ship-method-content") {
		t.Errorf("expected body to patch ship-method-content, got %q", body)
	}
}

func TestSSEHandlers_HandleCategoryOrders(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/category-orders", nil)
	w := httptest.NewRecorder()

	handlers.HandleCategoryOrders(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "categoryData") {
		t.Errorf("expected body to carry category signals, got %q", body)
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	handlers.HandleRefreshAll(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	for _, fragment := range []string{"region-content", "ship-method-content", "categoryData"} {
		if !strings.Contains(body, fragment) {
			t.Errorf("expected refresh to include %q", fragment)
		}
	}
}
