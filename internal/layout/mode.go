package layout

// Mode is how a paragraph sequence gets rendered.
type Mode int

const (
	// ModeFixed renders every paragraph directly.
	ModeFixed Mode = iota
	// ModeWindowed renders only the paragraphs around the viewport.
	ModeWindowed
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeWindowed:
		return "windowed"
	default:
		return "unknown"
	}
}

// Thresholds gate windowed rendering. Both must be met.
type Thresholds struct {
	MinParagraphs int
	MinWidth      int
}

var (
	// PixelThresholds window long stories in viewports at least 720px wide.
	PixelThresholds = Thresholds{MinParagraphs: 120, MinWidth: 720}
	// CellThresholds window long stories in terminals at least 40 columns wide.
	CellThresholds = Thresholds{MinParagraphs: 120, MinWidth: 40}
)

// SelectMode is a pure function of the paragraph count and viewport width, so the
// mode can flip in either direction between two renders.
func SelectMode(count, width int, t Thresholds) Mode {
	if count >= t.MinParagraphs && width >= t.MinWidth {
		return ModeWindowed
	}
	return ModeFixed
}

// Geometry is the last-read state of the scroll container.
type Geometry struct {
	Width     int
	Height    int
	ScrollTop int
}

// Normalize treats unset or negative dimensions as zero.
func (g Geometry) Normalize() Geometry {
	if g.Width < 0 {
		g.Width = 0
	}
	if g.Height < 0 {
		g.Height = 0
	}
	if g.ScrollTop < 0 {
		g.ScrollTop = 0
	}
	return g
}

// Config bundles the tunables of one text window.
type Config struct {
	Metrics    Metrics
	Thresholds Thresholds
	Overscan   Overscan
}

var (
	// PixelConfig is the desktop reader's window: pixel metrics with a 24px overscan margin.
	PixelConfig = Config{Metrics: PixelMetrics, Thresholds: PixelThresholds, Overscan: Overscan{Count: 6, Margin: 24}}
	// CellConfig is the terminal window: one row per line and a single row of margin.
	CellConfig = Config{Metrics: CellMetrics, Thresholds: CellThresholds, Overscan: Overscan{Count: 6, Margin: 1}}
)
