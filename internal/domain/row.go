package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// RowValue is one item's resolved value for a single time bucket.
// Actual is set only when a real observation backs the bucket. Ext is the
// "connect across gaps" channel: set whenever the item has any displayable
// value (actual, or flat edge extension). Ext is always a superset of Actual.
type RowValue struct {
	Actual *float64
	Ext    *float64
}

// Row is one time bucket's cross-section over all selected items.
// Key is the chart x-axis identifier: the "YYYY-MM-DD" day for daily rows,
// or the group key ("2024-03", "2024", Monday's date) once aggregated.
// Rows are produced fresh on every recomputation and never mutated.
type Row struct {
	Key       string
	Date      Day // first constituent day of the bucket
	DateShort string
	FullDate  string
	Values    map[string]RowValue // keyed by item name
}

// Value returns the RowValue for an item, zero if absent.
func (r Row) Value(name string) RowValue {
	return r.Values[name]
}

// MarshalJSON flattens the row into the wire shape the renderer consumes:
//
//	{"date": "...", "dateShort": "...", "fullDate": "...",
//	 "<name>": 70, "<name>_ext": 70, ...}
//
// Undefined values are omitted entirely rather than encoded as null.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField("date", r.Key); err != nil {
		return nil, err
	}
	if err := writeField("dateShort", r.DateShort); err != nil {
		return nil, err
	}
	if err := writeField("fullDate", r.FullDate); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(r.Values))
	for name := range r.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := r.Values[name]
		if v.Actual != nil {
			if err := writeField(name, *v.Actual); err != nil {
				return nil, err
			}
		}
		if v.Ext != nil {
			if err := writeField(name+"_ext", *v.Ext); err != nil {
				return nil, err
			}
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
