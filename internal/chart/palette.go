package chart

import "sync"

// DefaultPalette is the fixed series color cycle. Reused round-robin once
// a comparison outgrows it.
var DefaultPalette = []string{
	"#3B82F6", // blue
	"#EF4444", // red
	"#10B981", // green
	"#F59E0B", // amber
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#14B8A6", // teal
	"#F97316", // orange
}

// Palette hands out a stable color per item name for the lifetime of a
// comparison session. A name keeps its color until Reset, even across
// removal and re-selection of other items; colors are never reclaimed
// individually. A removed item that is re-added after other assignments
// happened gets a fresh color, not its old one.
type Palette struct {
	mu       sync.Mutex
	colors   []string
	assigned map[string]string
	next     int
}

// NewPalette builds a registry over the given color cycle, or
// DefaultPalette when colors is empty.
func NewPalette(colors []string) *Palette {
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	return &Palette{
		colors:   colors,
		assigned: make(map[string]string),
	}
}

// Color returns the color assigned to name, assigning the next palette
// entry on first sight.
func (p *Palette) Color(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.assigned[name]; ok {
		return c
	}
	c := p.colors[p.next%len(p.colors)]
	p.assigned[name] = c
	p.next++
	return c
}

// Reset drops every assignment and rewinds the cycle. Called only when
// the entire selection is cleared, never on a partial removal.
func (p *Palette) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assigned = make(map[string]string)
	p.next = 0
}

// Len reports how many names currently hold an assignment.
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.assigned)
}
