// Package unit interprets the catalog's free-text quantity labels
// ("1 kg", "500 gm", "12 pcs", "each") and rescales prices to a common
// basis so differently sized packs can be compared.
package unit

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension classifies what a unit label measures.
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
	Count  Dimension = "count"
	Each   Dimension = "each"
)

// Parsed is the result of interpreting a unit label.
type Parsed struct {
	Value    float64   // leading quantity, 1 if absent
	Unit     string    // unit text with the quantity stripped
	Type     Dimension // classified dimension
	BaseUnit string    // "kg", "liter", "pcs", or the literal text for Each
}

// Parse interprets a free-text unit label. It never fails: labels it cannot
// classify degrade to the Each dimension with the literal text as base unit,
// and an empty label becomes "1 unit".
func Parse(label string) Parsed {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return Parsed{Value: 1, Unit: "unit", Type: Each, BaseUnit: "unit"}
	}

	value := 1.0
	unitText := s
	if i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}); i != 0 {
		numEnd := i
		if numEnd < 0 {
			numEnd = len(s)
		}
		if v, err := strconv.ParseFloat(s[:numEnd], 64); err == nil {
			value = v
			unitText = strings.TrimSpace(s[numEnd:])
		}
	}

	switch {
	case strings.Contains(unitText, "kg"),
		strings.Contains(unitText, "gm"),
		strings.Contains(unitText, "gram"):
		return Parsed{Value: value, Unit: unitText, Type: Mass, BaseUnit: "kg"}
	case strings.Contains(unitText, "liter"),
		strings.Contains(unitText, "litre"),
		unitText == "l",
		unitText == "ltr",
		strings.Contains(unitText, "ml"):
		return Parsed{Value: value, Unit: unitText, Type: Volume, BaseUnit: "liter"}
	case strings.Contains(unitText, "pcs"),
		strings.Contains(unitText, "pc"),
		strings.Contains(unitText, "dozen"):
		return Parsed{Value: value, Unit: unitText, Type: Count, BaseUnit: "pcs"}
	}

	base := unitText
	if base == "" {
		base = "each"
	}
	return Parsed{Value: value, Unit: unitText, Type: Each, BaseUnit: base}
}

// ToBase converts a quantity expressed in a sub-unit to its base unit:
// grams to kilograms, milliliters to liters, dozens to pieces. Unknown
// units pass through unchanged.
func ToBase(value float64, unitText string) float64 {
	switch strings.ToLower(strings.TrimSpace(unitText)) {
	case "gm", "gram":
		return value / 1000
	case "ml":
		return value / 1000
	case "dozen":
		return value * 12
	}
	return value
}

// Targets holds the per-dimension quantities prices should be rescaled to,
// e.g. Mass=1 means "price per 1 kg". A nil pointer disables normalization
// for that dimension; the Each dimension is never normalized.
type Targets struct {
	Mass   *float64 `json:"mass,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
	Count  *float64 `json:"count,omitempty"`
}

// For returns the target quantity for a dimension, or nil when the
// dimension is not being normalized.
func (t *Targets) For(dim Dimension) *float64 {
	if t == nil {
		return nil
	}
	switch dim {
	case Mass:
		return t.Mass
	case Volume:
		return t.Volume
	case Count:
		return t.Count
	}
	return nil
}

// NormalizedPrice rescales a price recorded for an arbitrary pack size to
// a price-per-target-quantity. Rescaling is linear: price is assumed
// proportional to quantity. When targets is nil, or the label's dimension
// has no target, the original price is returned unchanged.
func NormalizedPrice(price float64, label string, targets *Targets) float64 {
	parsed := Parse(label)
	target := targets.For(parsed.Type)
	if target == nil {
		return price
	}
	base := ToBase(parsed.Value, parsed.Unit)
	if base == 0 {
		return price
	}
	return price / base * *target
}

// TargetLabel renders the normalized basis for display: "1 kg", "1 L",
// "12 pcs", or "<value> <originalUnit>" for the Each dimension.
func TargetLabel(dim Dimension, value float64, originalUnit string) string {
	v := strconv.FormatFloat(value, 'f', -1, 64)
	switch dim {
	case Mass:
		return fmt.Sprintf("%s kg", v)
	case Volume:
		return fmt.Sprintf("%s L", v)
	case Count:
		return fmt.Sprintf("%s pcs", v)
	}
	return fmt.Sprintf("%s %s", v, originalUnit)
}
