package models

import "time"

// Column names as they appear in the source CSV header. The dataset keeps
// track of which of these were actually present so aggregations can reject
// inputs that are missing a required field.
const (
	ColOrderID         = "Order Id"
	ColOrderDate       = "Order Date"
	ColShipMode        = "Ship Mode"
	ColSegment         = "Segment"
	ColCountry         = "Country"
	ColCity            = "City"
	ColState           = "State"
	ColPostalCode      = "Postal Code"
	ColRegion          = "Region"
	ColCategory        = "Category"
	ColSubCategory     = "Sub Category"
	ColProductID       = "Product Id"
	ColCostPrice       = "cost price"
	ColListPrice       = "List Price"
	ColQuantity        = "Quantity"
	ColDiscountPercent = "Discount Percent"
	ColProfit          = "Profit"
)

type Order struct {
	OrderID         string    `json:"order_id"`
	OrderDate       time.Time `json:"order_date"`
	ShipMode        string    `json:"ship_mode"`
	Segment         string    `json:"segment"`
	Country         string    `json:"country"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	PostalCode      string    `json:"postal_code"`
	Region          string    `json:"region"`
	Category        string    `json:"category"`
	SubCategory     string    `json:"sub_category"`
	ProductID       string    `json:"product_id"`
	CostPrice       float64   `json:"cost_price"`
	ListPrice       float64   `json:"list_price"`
	Quantity        int       `json:"quantity"`
	DiscountPercent float64   `json:"discount_percent"`
	Profit          float64   `json:"profit"`
}

// Dataset is an ordered sequence of orders together with the set of columns
// observed in the source. Row order carries through one-to-one transforms;
// aggregations ignore it.
type Dataset struct {
	Rows    []Order  `json:"rows"`
	Columns []string `json:"columns"`
}

func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// WithColumn records an additional column without duplicating an existing one.
func (d Dataset) WithColumn(name string) Dataset {
	if d.HasColumn(name) {
		return d
	}
	cols := make([]string, 0, len(d.Columns)+1)
	cols = append(cols, d.Columns...)
	cols = append(cols, name)
	d.Columns = cols
	return d
}

// Clone returns a dataset whose rows and columns are independent copies, so
// callers can hand out augmented datasets without aliasing the original.
func (d Dataset) Clone() Dataset {
	rows := make([]Order, len(d.Rows))
	copy(rows, d.Rows)
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)
	return Dataset{Rows: rows, Columns: cols}
}

// AllOrderColumns lists every column of the order schema except Profit.
// Test fixtures built from Order literals use it as their column set.
func AllOrderColumns() []string {
	return []string{
		ColOrderID, ColOrderDate, ColShipMode, ColSegment,
		ColCountry, ColCity, ColState, ColPostalCode,
		ColRegion, ColCategory, ColSubCategory, ColProductID,
		ColCostPrice, ColListPrice, ColQuantity, ColDiscountPercent,
	}
}

type RegionProfit struct {
	Region      string  `json:"region"`
	TotalProfit float64 `json:"total_profit"`
}

type ShipMethodCount struct {
	Category string `json:"category"`
	ShipMode string `json:"ship_mode"`
	Count    int    `json:"count"`
}

type CategoryCount struct {
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	OrderCount  int    `json:"order_count"`
}

// Reports bundles every table derived from one dataset.
type Reports struct {
	OrdersWithProfit      Dataset           `json:"orders_with_profit"`
	MostProfitableRegions []RegionProfit    `json:"most_profitable_regions"`
	MostCommonShipMethods []ShipMethodCount `json:"most_common_ship_methods"`
	OrdersPerCategory     []CategoryCount   `json:"orders_per_category"`
	RecordCount           int64             `json:"record_count"`
	LastModified          time.Time         `json:"last_modified"`
}
