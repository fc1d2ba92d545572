package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"orders-analytics/internal/services"
)

var regionTableTemplate = template.Must(template.New("regionTable").Parse(`
<div id="region-content">
<table class="modern-table">
<thead><tr><th>Region</th><th>Total Profit</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Region}}</td>
<td><strong>${{printf "%.2f" .TotalProfit}}</strong></td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var shipMethodTableTemplate = template.Must(template.New("shipMethodTable").Parse(`
<div id="ship-method-content">
<table class="modern-table">
<thead><tr><th>Category</th><th>Ship Mode</th><th>Orders</th></tr></thead>
<tbody>
{{range .}}<tr>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{.ShipMode}}</td>
<td>{{.Count}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func renderTable(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	err := tmpl.Execute(&buf, data)
	return buf.String(), err
}

func (h *SSEHandlers) HandleRegionProfit(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := renderTable(regionTableTemplate, h.analytics.MostProfitableRegions())
	if err != nil {
		h.logger.Error("render region table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleShipMethods(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := renderTable(shipMethodTableTemplate, h.analytics.ShipMethodLeaders())
	if err != nil {
		h.logger.Error("render ship method table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCategoryOrders(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"categoryData": h.analytics.CategoryOrderCounts(),
	})
	if err != nil {
		h.logger.Error("marshal category data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="category-content">✅ Category chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	regionHTML, err := renderTable(regionTableTemplate, h.analytics.MostProfitableRegions())
	if err != nil {
		h.logger.Error("render region table", "error", err)
		return
	}
	sse.PatchElements(regionHTML)

	shipHTML, err := renderTable(shipMethodTableTemplate, h.analytics.ShipMethodLeaders())
	if err != nil {
		h.logger.Error("render ship method table", "error", err)
		return
	}
	sse.PatchElements(shipHTML)

	allSignals, err := json.Marshal(map[string]any{
		"categoryData": h.analytics.CategoryOrderCounts(),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
