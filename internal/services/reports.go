package services

import (
	"slices"
	"strings"

	"orders-analytics/internal/errors"
	"orders-analytics/internal/models"
)

// requireColumns reports a schema error naming every required column the
// dataset is missing. The caller gets no partial result in that case.
func requireColumns(ds models.Dataset, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.Schema("dataset is missing required columns: " + strings.Join(missing, ", "))
	}
	return nil
}

// CalculateProfit returns a copy of the dataset with the Profit column
// populated for every row:
//
//	profit = list price * quantity * (1 - discount/100) - cost price * quantity
//
// Row order and count are preserved and the input dataset is left untouched.
func CalculateProfit(ds models.Dataset) (models.Dataset, error) {
	if err := requireColumns(ds,
		models.ColCostPrice, models.ColListPrice,
		models.ColQuantity, models.ColDiscountPercent,
	); err != nil {
		return models.Dataset{}, err
	}

	out := ds.Clone().WithColumn(models.ColProfit)
	for i := range out.Rows {
		row := &out.Rows[i]
		qty := float64(row.Quantity)
		revenue := row.ListPrice * qty * (1 - row.DiscountPercent/100)
		cost := row.CostPrice * qty
		row.Profit = revenue - cost
	}
	return out, nil
}

// MostProfitableRegions sums profit per region and returns every region whose
// total equals the dataset-wide maximum, sorted by region name. Comparison is
// exact: the tied sums are deterministic sums of the same inputs, so no
// epsilon applies. A negative maximum is still the maximum.
func MostProfitableRegions(ds models.Dataset) ([]models.RegionProfit, error) {
	if err := requireColumns(ds, models.ColRegion, models.ColProfit); err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, row := range ds.Rows {
		totals[row.Region] += row.Profit
	}

	result := []models.RegionProfit{}
	if len(totals) == 0 {
		return result, nil
	}

	first := true
	var max float64
	for _, total := range totals {
		if first || total > max {
			max = total
			first = false
		}
	}

	for region, total := range totals {
		if total == max {
			result = append(result, models.RegionProfit{Region: region, TotalProfit: total})
		}
	}
	slices.SortFunc(result, func(a, b models.RegionProfit) int {
		return strings.Compare(a.Region, b.Region)
	})
	return result, nil
}

// MostCommonShipMethods counts (category, ship mode) co-occurrences and, for
// each category, keeps every ship mode tied for that category's maximum
// count. Ties are retained, never reduced to one winner: a category whose
// modes each appear once yields one row per mode. Rows are sorted by
// (category, ship mode).
func MostCommonShipMethods(ds models.Dataset) ([]models.ShipMethodCount, error) {
	if err := requireColumns(ds, models.ColCategory, models.ColShipMode); err != nil {
		return nil, err
	}

	type pair struct{ category, mode string }
	counts := make(map[pair]int)
	for _, row := range ds.Rows {
		counts[pair{row.Category, row.ShipMode}]++
	}

	maxPerCategory := make(map[string]int)
	for p, n := range counts {
		if n > maxPerCategory[p.category] {
			maxPerCategory[p.category] = n
		}
	}

	result := []models.ShipMethodCount{}
	for p, n := range counts {
		if n == maxPerCategory[p.category] {
			result = append(result, models.ShipMethodCount{
				Category: p.category,
				ShipMode: p.mode,
				Count:    n,
			})
		}
	}
	slices.SortFunc(result, func(a, b models.ShipMethodCount) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.ShipMode, b.ShipMode)
	})
	return result, nil
}

// OrdersPerCategory counts rows per (category, sub-category) pair. Every
// observed pair appears exactly once; the counts sum to the number of input
// rows. Output is sorted by (category, sub-category) for stable results.
func OrdersPerCategory(ds models.Dataset) ([]models.CategoryCount, error) {
	if err := requireColumns(ds, models.ColCategory, models.ColSubCategory); err != nil {
		return nil, err
	}

	type pair struct{ category, sub string }
	counts := make(map[pair]int)
	for _, row := range ds.Rows {
		counts[pair{row.Category, row.SubCategory}]++
	}

	result := []models.CategoryCount{}
	for p, n := range counts {
		result = append(result, models.CategoryCount{
			Category:    p.category,
			SubCategory: p.sub,
			OrderCount:  n,
		})
	}
	slices.SortFunc(result, func(a, b models.CategoryCount) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.SubCategory, b.SubCategory)
	})
	return result, nil
}

// ComputeReports runs every aggregation over one dataset. Profit augmentation
// happens first and any schema error aborts the whole run; the ship-method
// and category reports read the raw dataset, the region report reads the
// augmented one.
func ComputeReports(ds models.Dataset) (*models.Reports, error) {
	withProfit, err := CalculateProfit(ds)
	if err != nil {
		return nil, err
	}

	regions, err := MostProfitableRegions(withProfit)
	if err != nil {
		return nil, err
	}

	shipMethods, err := MostCommonShipMethods(ds)
	if err != nil {
		return nil, err
	}

	categories, err := OrdersPerCategory(ds)
	if err != nil {
		return nil, err
	}

	return &models.Reports{
		OrdersWithProfit:      withProfit,
		MostProfitableRegions: regions,
		MostCommonShipMethods: shipMethods,
		OrdersPerCategory:     categories,
		RecordCount:           int64(len(ds.Rows)),
	}, nil
}
