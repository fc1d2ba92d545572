// Package exporter persists report tables as headed CSV files with
// timestamped names, one file per report plus a processing summary.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"orders-analytics/internal/models"
)

const timestampLayout = "20060102_150405"

type ReportWriter struct {
	dir    string
	logger *slog.Logger
}

func NewReportWriter(dir string, logger *slog.Logger) *ReportWriter {
	return &ReportWriter{dir: dir, logger: logger}
}

// WriteAll writes every report table derived from sourceName plus a summary
// of the run. It returns the paths written, relative to the export directory.
func (w *ReportWriter) WriteAll(reports *models.Reports, sourceName string) ([]string, error) {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	timestamp := time.Now().Format(timestampLayout)
	name := func(report string) string {
		return fmt.Sprintf("%s_%s_%s.csv", base, report, timestamp)
	}

	var written []string

	regionRows := make([][]string, 0, len(reports.MostProfitableRegions))
	for _, r := range reports.MostProfitableRegions {
		regionRows = append(regionRows, []string{r.Region, formatFloat(r.TotalProfit)})
	}
	if err := w.writeCSV(name("most_profitable_region"), []string{"Region", "Total_Profit"}, regionRows); err != nil {
		return written, err
	}
	written = append(written, name("most_profitable_region"))

	shipRows := make([][]string, 0, len(reports.MostCommonShipMethods))
	for _, r := range reports.MostCommonShipMethods {
		shipRows = append(shipRows, []string{r.Category, r.ShipMode, strconv.Itoa(r.Count)})
	}
	if err := w.writeCSV(name("most_common_ship_method"), []string{"Category", "Ship Mode", "Count"}, shipRows); err != nil {
		return written, err
	}
	written = append(written, name("most_common_ship_method"))

	categoryRows := make([][]string, 0, len(reports.OrdersPerCategory))
	for _, r := range reports.OrdersPerCategory {
		categoryRows = append(categoryRows, []string{r.Category, r.SubCategory, strconv.Itoa(r.OrderCount)})
	}
	if err := w.writeCSV(name("orders_by_category"), []string{"Category", "Sub Category", "order_count"}, categoryRows); err != nil {
		return written, err
	}
	written = append(written, name("orders_by_category"))

	if err := w.writeCSV(name("orders_with_profit"), orderHeaders(), orderRows(reports.OrdersWithProfit)); err != nil {
		return written, err
	}
	written = append(written, name("orders_with_profit"))

	summary := [][]string{{
		timestamp,
		sourceName,
		strconv.FormatInt(reports.RecordCount, 10),
		strconv.Itoa(len(written)),
		strings.Join(written, ";"),
	}}
	summaryHeaders := []string{"Processing_Time", "Input_File", "Records_Processed", "Reports_Generated", "Output_Files"}
	if err := w.writeCSV(name("processing_summary"), summaryHeaders, summary); err != nil {
		return written, err
	}
	written = append(written, name("processing_summary"))

	return written, nil
}

func orderHeaders() []string {
	return []string{
		models.ColOrderID, models.ColOrderDate, models.ColShipMode,
		models.ColSegment, models.ColCountry, models.ColCity,
		models.ColState, models.ColPostalCode, models.ColRegion,
		models.ColCategory, models.ColSubCategory, models.ColProductID,
		models.ColCostPrice, models.ColListPrice, models.ColQuantity,
		models.ColDiscountPercent, models.ColProfit,
	}
}

func orderRows(ds models.Dataset) [][]string {
	rows := make([][]string, 0, len(ds.Rows))
	for _, o := range ds.Rows {
		date := ""
		if !o.OrderDate.IsZero() {
			date = o.OrderDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			o.OrderID, date, o.ShipMode,
			o.Segment, o.Country, o.City,
			o.State, o.PostalCode, o.Region,
			o.Category, o.SubCategory, o.ProductID,
			formatFloat(o.CostPrice), formatFloat(o.ListPrice), strconv.Itoa(o.Quantity),
			formatFloat(o.DiscountPercent), formatFloat(o.Profit),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (w *ReportWriter) writeCSV(filename string, headers []string, records [][]string) error {
	fullPath := filepath.Join(w.dir, filename)

	w.logger.Info("writing report CSV",
		slog.String("file_path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
