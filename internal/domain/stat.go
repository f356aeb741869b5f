package domain

// Stat is the at-a-glance summary for one selected item, derived from the
// non-aggregated, non-normalized daily series within the display range.
// Items with zero observations in range produce no Stat at all.
type Stat struct {
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Change  float64 `json:"change"` // current minus previous value; 0 for single-point series
}
