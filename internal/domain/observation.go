package domain

// PricePoint is one raw (date, price) observation as stored in the
// columnar price_history table. At most one point exists per item per day.
type PricePoint struct {
	Name  string  // item name
	Date  Day     // observation day
	Price float64 // non-negative price in BDT
}

// Observation is a PricePoint decorated with display labels, as served by
// the series cache to the chart pipeline.
type Observation struct {
	Date      Day     `json:"date"`
	Price     float64 `json:"price"`
	DateShort string  `json:"dateShort"`
	FullDate  string  `json:"fullDate"`
}
