package layout

// Table holds the height estimates and offsets derived from a paragraph sequence at one width.
// The zero value is an empty table; use NewTable to pick metrics.
type Table struct {
	metrics Metrics
	width   int
	heights []int
	offsets []int
}

// NewTable returns an empty table that estimates with m.
func NewTable(m Metrics) *Table { return &Table{metrics: m} }

// Sync brings the table in line with paragraphs at width and reports whether it changed.
// A width change or a shorter sequence rebuilds everything; growth only estimates the new tail.
func (t *Table) Sync(paragraphs []string, width int) bool {
	if width < 0 {
		width = 0
	}
	n := len(paragraphs)
	switch {
	case width != t.width || n < len(t.heights):
		t.width = width
		t.heights = EstimateHeights(paragraphs, width, t.metrics)
		t.offsets = BuildOffsets(t.heights)
		return true
	case n > len(t.heights):
		old := len(t.heights)
		for i := old; i < n; i++ {
			h := EstimateHeight(paragraphs[i], width, t.metrics)
			off := 0
			if i > 0 {
				off = t.offsets[i-1] + t.heights[i-1]
			}
			t.heights = append(t.heights, h)
			t.offsets = append(t.offsets, off)
		}
		return true
	}
	return false
}

// Reset drops every derived entry, forcing the next Sync to rebuild.
func (t *Table) Reset() {
	t.width = 0
	t.heights = nil
	t.offsets = nil
}

// Len is the number of paragraphs estimated so far.
func (t *Table) Len() int { return len(t.heights) }

// Width is the viewport width of the last Sync.
func (t *Table) Width() int { return t.width }

// Heights returns the per-paragraph estimates. Callers must not modify the slice.
func (t *Table) Heights() []int { return t.heights }

// Offsets returns the prefix sums of Heights. Callers must not modify the slice.
func (t *Table) Offsets() []int { return t.offsets }

// Metrics reports the constants the table estimates with.
func (t *Table) Metrics() Metrics { return t.metrics }

// Total is the estimated height of the whole sequence.
func (t *Table) Total() int { return TotalHeight(t.offsets, t.heights) }

// Window selects the rendered range for the given viewport.
func (t *Table) Window(scrollTop, viewportHeight int, o Overscan) Window {
	return ComputeWindow(t.offsets, t.heights, scrollTop, viewportHeight, o)
}
