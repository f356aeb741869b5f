package domain

// Item is a trackable consumer good from the catalog.
// Name is the unique key used throughout the pipeline; the remaining
// fields come from the scraped index and are immutable once loaded.
type Item struct {
	ID       string  `json:"id,omitempty"` // deterministic hash, see internal/idhash
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`  // free-text quantity+unit label, e.g. "500 gm"
	Price    float64 `json:"price"` // latest known price, fallback for display
	Image    string  `json:"image"`
}
