package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MatrixRex/daamtrack/internal/chart"
)

// WriteJSON writes the dataset in the same wire shape the HTTP API uses:
// rows flattened to bare/ext keys, stats alongside.
func WriteJSON(w io.Writer, res chart.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
