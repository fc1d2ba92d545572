package services

import (
	"context"
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"orders-analytics/internal/models"
)

const (
	batchSize    = 10000
	maxWorkers   = 10
	cacheVersion = "v1"
	cacheDir     = ".cache"

	orderDateLayout = "2006-01-02"
)

// Analytics loads an orders dataset and keeps the derived report bundle in
// memory for the HTTP layer. Reports are recomputed as a whole on every load;
// readers always see a consistent bundle.
type Analytics struct {
	mu         sync.RWMutex
	reports    *models.Reports
	csvPath    string
	rowsLoaded atomic.Int64
	logger     *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		reports: &models.Reports{},
		logger:  slog.Default(),
	}
}

// SetData computes reports from an in-memory dataset. Schema errors propagate
// unchanged and leave the previous reports in place.
func (a *Analytics) SetData(ds models.Dataset) error {
	reports, err := ComputeReports(ds)
	if err != nil {
		return err
	}
	reports.LastModified = time.Now()

	a.mu.Lock()
	a.reports = reports
	a.mu.Unlock()

	a.rowsLoaded.Store(reports.RecordCount)
	return nil
}

func (a *Analytics) LoadFromCSV(ctx context.Context, filename string) error {
	a.csvPath = filename

	if cached, err := a.loadFromCache(filename); err == nil {
		fileInfo, err := os.Stat(filename)
		if err == nil && fileInfo.ModTime().Before(cached.LastModified) {
			a.mu.Lock()
			a.reports = cached
			a.mu.Unlock()
			a.rowsLoaded.Store(cached.RecordCount)
			a.logger.Info("loaded reports from cache", "records", cached.RecordCount)
			return nil
		}
	}

	start := time.Now()
	a.logger.Info("processing orders CSV", "filename", filename)

	ds, skipped, err := a.readOrdersCSV(ctx, filename)
	if err != nil {
		return fmt.Errorf("read orders csv: %w", err)
	}

	if err := a.SetData(ds); err != nil {
		return err
	}

	if err := a.saveToCache(filename); err != nil {
		a.logger.Warn("failed to save report cache", "error", err)
	}

	duration := time.Since(start)
	count := int64(len(ds.Rows))
	a.logger.Info("orders CSV processed",
		"records", count,
		"skipped", skipped,
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(count)/duration.Seconds()))

	return nil
}

// readOrdersCSV parses the file into a dataset. The header row defines the
// column set; rows with malformed numeric fields are skipped and counted
// rather than failing the load.
func (a *Analytics) readOrdersCSV(ctx context.Context, filename string) (models.Dataset, int64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return models.Dataset{}, 0, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return models.Dataset{}, 0, fmt.Errorf("empty file")
	}
	if err != nil {
		return models.Dataset{}, 0, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, 0, len(header))
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		columns = append(columns, name)
		colIdx[name] = i
	}

	var (
		rows    []models.Order
		skipped int64
	)

	batch := make([][]string, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		parsed, bad, err := parseBatch(ctx, batch, colIdx)
		if err != nil {
			return err
		}
		rows = append(rows, parsed...)
		skipped += bad
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return models.Dataset{}, 0, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Dataset{}, 0, fmt.Errorf("read record: %w", err)
		}

		batch = append(batch, record)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return models.Dataset{}, 0, err
			}
		}
	}

	if err := flush(); err != nil {
		return models.Dataset{}, 0, err
	}

	return models.Dataset{Rows: rows, Columns: columns}, skipped, nil
}

// parseBatch parses records concurrently, each worker writing its own slot so
// the original row order survives. Unparsable rows leave a nil slot.
func parseBatch(ctx context.Context, batch [][]string, colIdx map[string]int) ([]models.Order, int64, error) {
	parsed := make([]*models.Order, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, record := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			order, err := parseOrder(record, colIdx)
			if err != nil {
				return nil // skip malformed rows
			}
			parsed[i] = &order
			return nil
		})
	}

	if err := wg.Wait(); err != nil {
		return nil, 0, err
	}

	rows := make([]models.Order, 0, len(batch))
	var skipped int64
	for _, p := range parsed {
		if p == nil {
			skipped++
			continue
		}
		rows = append(rows, *p)
	}
	return rows, skipped, nil
}

func parseOrder(record []string, colIdx map[string]int) (models.Order, error) {
	field := func(col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	order := models.Order{
		OrderID:     field(models.ColOrderID),
		ShipMode:    field(models.ColShipMode),
		Segment:     field(models.ColSegment),
		Country:     field(models.ColCountry),
		City:        field(models.ColCity),
		State:       field(models.ColState),
		PostalCode:  field(models.ColPostalCode),
		Region:      field(models.ColRegion),
		Category:    field(models.ColCategory),
		SubCategory: field(models.ColSubCategory),
		ProductID:   field(models.ColProductID),
	}

	// The order date feeds no aggregation, so an unparsable date is kept as
	// the zero time instead of dropping the row.
	if raw := field(models.ColOrderDate); raw != "" {
		if date, err := time.Parse(orderDateLayout, raw); err == nil {
			order.OrderDate = date
		}
	}

	var err error
	if raw := field(models.ColCostPrice); raw != "" {
		if order.CostPrice, err = strconv.ParseFloat(raw, 64); err != nil {
			return models.Order{}, fmt.Errorf("cost price: %w", err)
		}
	}
	if raw := field(models.ColListPrice); raw != "" {
		if order.ListPrice, err = strconv.ParseFloat(raw, 64); err != nil {
			return models.Order{}, fmt.Errorf("list price: %w", err)
		}
	}
	if raw := field(models.ColQuantity); raw != "" {
		if order.Quantity, err = strconv.Atoi(raw); err != nil {
			return models.Order{}, fmt.Errorf("quantity: %w", err)
		}
	}
	if raw := field(models.ColDiscountPercent); raw != "" {
		if order.DiscountPercent, err = strconv.ParseFloat(raw, 64); err != nil {
			return models.Order{}, fmt.Errorf("discount percent: %w", err)
		}
	}

	return order, nil
}

// Cache management
func (a *Analytics) getCacheFilename(csvPath string) string {
	return fmt.Sprintf("%s/%s_%s.gob", cacheDir, strings.ReplaceAll(csvPath, "/", "_"), cacheVersion)
}

func (a *Analytics) saveToCache(csvPath string) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(a.getCacheFilename(csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	a.mu.RLock()
	defer a.mu.RUnlock()

	return gob.NewEncoder(file).Encode(a.reports)
}

func (a *Analytics) loadFromCache(csvPath string) (*models.Reports, error) {
	file, err := os.Open(a.getCacheFilename(csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reports models.Reports
	if err := gob.NewDecoder(file).Decode(&reports); err != nil {
		return nil, err
	}
	return &reports, nil
}

// Query methods return the precomputed tables.
func (a *Analytics) MostProfitableRegions() []models.RegionProfit {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reports.MostProfitableRegions
}

func (a *Analytics) ShipMethodLeaders() []models.ShipMethodCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reports.MostCommonShipMethods
}

func (a *Analytics) CategoryOrderCounts() []models.CategoryCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reports.OrdersPerCategory
}

func (a *Analytics) OrdersWithProfit(limit int) []models.Order {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows := a.reports.OrdersWithProfit.Rows
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// Reports returns a snapshot of the whole bundle for export.
func (a *Analytics) Reports() *models.Reports {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reports
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":       a.reports.RecordCount,
		"last_processed":     a.reports.LastModified,
		"top_regions":        len(a.reports.MostProfitableRegions),
		"ship_method_rows":   len(a.reports.MostCommonShipMethods),
		"category_rows":      len(a.reports.OrdersPerCategory),
		"profit_rows_loaded": len(a.reports.OrdersWithProfit.Rows),
	}
}
