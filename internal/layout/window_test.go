package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearLocate(offsets []int, scrollTop int) int {
	best := 0
	for i, off := range offsets {
		if off <= scrollTop {
			best = i
		}
	}
	return best
}

func randomHeights(r *rand.Rand, n int) []int {
	heights := make([]int, n)
	for i := range heights {
		heights[i] = 1 + r.Intn(200)
	}
	return heights
}

func TestLocateStart(t *testing.T) {
	offsets := []int{0, 40, 40, 104, 144}
	tests := []struct {
		scrollTop int
		want      int
	}{
		{scrollTop: -10, want: 0},
		{scrollTop: 0, want: 0},
		{scrollTop: 39, want: 0},
		{scrollTop: 40, want: 2},
		{scrollTop: 103, want: 2},
		{scrollTop: 104, want: 3},
		{scrollTop: 144, want: 4},
		{scrollTop: 1 << 30, want: 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LocateStart(offsets, tt.scrollTop), "scrollTop %d", tt.scrollTop)
	}
	assert.Zero(t, LocateStart(nil, 100))
	assert.Zero(t, LocateStart([]int{50, 60}, 10))
}

func TestLocateStartMatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 100; round++ {
		heights := make([]int, r.Intn(200))
		for i := range heights {
			heights[i] = r.Intn(120) // zero heights produce duplicate offsets
		}
		offsets := BuildOffsets(heights)
		total := TotalHeight(offsets, heights)
		for probe := 0; probe < 50; probe++ {
			scrollTop := r.Intn(total+100) - 50
			require.Equal(t, linearLocate(offsets, scrollTop), LocateStart(offsets, scrollTop))
		}
	}
}

func TestComputeWindowDegenerateInputs(t *testing.T) {
	o := Overscan{Count: 6, Margin: 24}
	assert.Equal(t, Window{}, ComputeWindow(nil, nil, 0, 400, o))
	heights := []int{40, 40, 40}
	offsets := BuildOffsets(heights)
	assert.Equal(t, Window{}, ComputeWindow(offsets, heights, 0, 0, o))
	assert.Equal(t, Window{}, ComputeWindow(offsets, heights, 0, -20, o))
	assert.Equal(t, Window{Start: 0, End: 3}, ComputeWindow(offsets, heights, -500, 10, o))
	assert.Equal(t, Window{Start: 0, End: 3}, ComputeWindow(offsets, heights, 1<<40, 10, o))
	assert.Equal(t, Window{Start: 0, End: 1}, ComputeWindow(offsets, heights, 0, 10, Overscan{Count: -3, Margin: -9}))
}

func TestComputeWindowTieIsInclusive(t *testing.T) {
	heights := []int{40, 40, 40, 40, 40}
	offsets := BuildOffsets(heights)
	w := ComputeWindow(offsets, heights, 80, 40, Overscan{})
	assert.Equal(t, Window{Start: 2, End: 3}, w)
	assert.Equal(t, 80, TopPadding(offsets, w.Start))
}

func TestComputeWindowContainsVisibleParagraphs(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for round := 0; round < 200; round++ {
		n := 1 + r.Intn(400)
		heights := randomHeights(r, n)
		offsets := BuildOffsets(heights)
		total := TotalHeight(offsets, heights)
		o := Overscan{Count: r.Intn(8), Margin: r.Intn(30)}
		scrollTop := r.Intn(total)
		viewport := 1 + r.Intn(900)

		w := ComputeWindow(offsets, heights, scrollTop, viewport, o)
		require.GreaterOrEqual(t, w.Start, 0)
		require.LessOrEqual(t, w.Start, w.End)
		require.LessOrEqual(t, w.End, n)

		first, last := -1, -1
		for i := 0; i < n; i++ {
			if offsets[i] < scrollTop+viewport && offsets[i]+heights[i] > scrollTop {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		require.GreaterOrEqual(t, first, 0)
		require.LessOrEqual(t, w.Start, first)
		require.Greater(t, w.End, last)

		wantBefore := o.Count
		if first < wantBefore {
			wantBefore = first
		}
		require.GreaterOrEqual(t, first-w.Start, wantBefore)
		wantAfter := o.Count
		if n-1-last < wantAfter {
			wantAfter = n - 1 - last
		}
		require.GreaterOrEqual(t, w.End-1-last, wantAfter)

		again := ComputeWindow(offsets, heights, scrollTop, viewport, o)
		require.Equal(t, w, again)
		require.Equal(t, TopPadding(offsets, w.Start), TopPadding(offsets, again.Start))
	}
}

func TestComputeWindowClampsAllScrollOffsets(t *testing.T) {
	heights := randomHeights(rand.New(rand.NewSource(3)), 50)
	offsets := BuildOffsets(heights)
	for _, scrollTop := range []int{-1 << 40, -1, 0, 1, 1 << 20, 1 << 40} {
		w := ComputeWindow(offsets, heights, scrollTop, 300, Overscan{Count: 6, Margin: 24})
		assert.GreaterOrEqual(t, w.Start, 0)
		assert.LessOrEqual(t, w.End, len(heights))
		assert.False(t, w.Empty())
	}
}

func TestTopPadding(t *testing.T) {
	offsets := []int{0, 40, 80}
	assert.Zero(t, TopPadding(nil, 3))
	assert.Zero(t, TopPadding(offsets, -1))
	assert.Zero(t, TopPadding(offsets, 0))
	assert.Equal(t, 80, TopPadding(offsets, 2))
	assert.Equal(t, 80, TopPadding(offsets, 9))
}

func uniformStory(n, chars int) []string {
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("a", chars)
	}
	return paragraphs
}

func TestScenarioShortStoryIsFixed(t *testing.T) {
	paragraphs := uniformStory(10, 120)
	assert.Equal(t, ModeFixed, SelectMode(len(paragraphs), 1000, PixelThresholds))
}

func TestScenarioLongStoryAtTop(t *testing.T) {
	cfg := PixelConfig
	paragraphs := uniformStory(160, 120)
	require.Equal(t, ModeWindowed, SelectMode(len(paragraphs), 1000, cfg.Thresholds))

	table := NewTable(cfg.Metrics)
	table.Sync(paragraphs, 1000)
	w := table.Window(0, 400, cfg.Overscan)
	assert.Equal(t, 0, w.Start)
	// ten paragraphs fill 400px, one more starts inside the margin, six more overscan
	assert.Equal(t, 17, w.End)
	assert.Zero(t, TopPadding(table.Offsets(), w.Start))
}

func TestScenarioLongStoryAtBottom(t *testing.T) {
	cfg := PixelConfig
	table := NewTable(cfg.Metrics)
	table.Sync(uniformStory(160, 120), 1000)
	w := table.Window(table.Total()-1, 400, cfg.Overscan)
	assert.Equal(t, 160, w.End)
	assert.Equal(t, 159-cfg.Overscan.Count, w.Start)
	assert.Equal(t, table.Offsets()[w.Start], TopPadding(table.Offsets(), w.Start))
}

func TestScenarioAppendKeepsEarlierWindow(t *testing.T) {
	cfg := PixelConfig
	paragraphs := uniformStory(160, 120)
	table := NewTable(cfg.Metrics)
	table.Sync(paragraphs, 1000)
	oldTotal := table.Total()

	before := map[int]Window{}
	for scrollTop := 0; scrollTop <= oldTotal-400; scrollTop += 13 {
		before[scrollTop] = table.Window(scrollTop, 400, cfg.Overscan)
	}

	paragraphs = append(paragraphs, strings.Repeat("b", 300))
	require.True(t, table.Sync(paragraphs, 1000))
	require.Equal(t, 161, table.Len())

	for scrollTop, prev := range before {
		got := table.Window(scrollTop, 400, cfg.Overscan)
		require.Equal(t, prev.Start, got.Start, "scrollTop %d", scrollTop)
		require.GreaterOrEqual(t, got.End, prev.End, "scrollTop %d", scrollTop)
		require.LessOrEqual(t, got.End, prev.End+1, "scrollTop %d", scrollTop)
		if prev.End < 160 {
			require.Equal(t, prev.End, got.End, "scrollTop %d", scrollTop)
		}
	}
}
