package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orders-analytics/internal/models"
	"orders-analytics/internal/services"
)

func testReports(t *testing.T) *models.Reports {
	t.Helper()

	ds := models.Dataset{
		Columns: models.AllOrderColumns(),
		Rows: []models.Order{
			{OrderID: "CA-2023-1000", ShipMode: "Standard Class", Region: "West", Category: "Furniture", SubCategory: "Bookcases", CostPrice: 240, ListPrice: 260, Quantity: 2, DiscountPercent: 2},
			{OrderID: "CA-2023-1003", ShipMode: "Same Day", Region: "Central", Category: "Furniture", SubCategory: "Tables", CostPrice: 780, ListPrice: 960, Quantity: 5, DiscountPercent: 2},
		},
	}

	reports, err := services.ComputeReports(ds)
	if err != nil {
		t.Fatalf("ComputeReports() failed: %v", err)
	}
	return reports
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestReportWriter_WriteAll(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	writer := NewReportWriter(dir, logger)
	written, err := writer.WriteAll(testReports(t), "data/orders.csv")
	if err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}

	if len(written) != 5 {
		t.Fatalf("expected 5 output files, got %d: %v", len(written), written)
	}

	wantReports := []string{
		"most_profitable_region",
		"most_common_ship_method",
		"orders_by_category",
		"orders_with_profit",
		"processing_summary",
	}
	for i, report := range wantReports {
		name := written[i]
		if !strings.HasPrefix(name, "orders_"+report) {
			t.Errorf("file %d: expected name starting with orders_%s, got %q", i, report, name)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestReportWriter_RegionReportContents(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	writer := NewReportWriter(dir, logger)
	written, err := writer.WriteAll(testReports(t), "orders.csv")
	if err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}

	records := readCSVFile(t, filepath.Join(dir, written[0]))
	if len(records) != 2 {
		t.Fatalf("expected header plus one region row, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "Region" || header[1] != "Total_Profit" {
		t.Errorf("unexpected header %v", header)
	}
	if records[1][0] != "Central" {
		t.Errorf("expected Central as the top region, got %q", records[1][0])
	}
	if !strings.HasPrefix(records[1][1], "804") {
		t.Errorf("expected total near 804, got %q", records[1][1])
	}
}

func TestReportWriter_SummaryContents(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	writer := NewReportWriter(dir, logger)
	written, err := writer.WriteAll(testReports(t), "orders.csv")
	if err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}

	records := readCSVFile(t, filepath.Join(dir, written[len(written)-1]))
	if len(records) != 2 {
		t.Fatalf("expected header plus one summary row, got %d records", len(records))
	}

	row := records[1]
	if row[1] != "orders.csv" {
		t.Errorf("expected input file orders.csv, got %q", row[1])
	}
	if row[2] != "2" {
		t.Errorf("expected 2 records processed, got %q", row[2])
	}
	if row[3] != "4" {
		t.Errorf("expected 4 reports generated, got %q", row[3])
	}
}
