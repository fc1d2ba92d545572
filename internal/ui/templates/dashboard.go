// Package templates holds the dashboard page components, written directly
// against the templ runtime.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Orders Analytics</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #f7f7f9; }
h1 { margin-bottom: 0.25rem; }
.panel { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; margin: 1rem 0; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.modern-table { width: 100%; border-collapse: collapse; }
.modern-table th, .modern-table td { text-align: left; padding: 0.4rem 0.75rem; border-bottom: 1px solid #eee; }
.category-badge { background: #eef2ff; border-radius: 4px; padding: 0.1rem 0.4rem; }
</style>
</head>
<body data-signals="{categoryData: []}">
<h1>Orders Analytics</h1>
<p>Most profitable regions, leading ship methods, and order counts per category.</p>

<div class="panel">
<h2>Most Profitable Region</h2>
<div id="region-content" data-on-load="@get('/sse/region-profit')">Loading…</div>
</div>

<div class="panel">
<h2>Most Common Ship Method per Category</h2>
<div id="ship-method-content" data-on-load="@get('/sse/ship-methods')">Loading…</div>
</div>

<div class="panel">
<h2>Orders per Category / Sub Category</h2>
<div id="category-content" data-on-load="@get('/sse/category-orders')">Loading…</div>
</div>

<button data-on-click="@get('/sse/refresh-all')">Refresh all</button>
</body>
</html>`

// Dashboard renders the analytics dashboard page.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardHTML)
		return err
	})
}
