package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMode(t *testing.T) {
	tests := []struct {
		count, width int
		want         Mode
	}{
		{count: 10, width: 1000, want: ModeFixed},
		{count: 119, width: 4000, want: ModeFixed},
		{count: 120, width: 720, want: ModeWindowed},
		{count: 5000, width: 719, want: ModeFixed},
		{count: 5000, width: 0, want: ModeFixed},
		{count: 160, width: 1000, want: ModeWindowed},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d@%d", tt.count, tt.width), func(t *testing.T) {
			got := SelectMode(tt.count, tt.width, PixelThresholds)
			assert.Equal(t, tt.want, got)
			for i := 0; i < 3; i++ {
				assert.Equal(t, got, SelectMode(tt.count, tt.width, PixelThresholds))
			}
		})
	}
	assert.Equal(t, "fixed", ModeFixed.String())
	assert.Equal(t, "windowed", ModeWindowed.String())
	assert.Equal(t, "unknown", Mode(9).String())
}

func TestGeometryNormalize(t *testing.T) {
	g := Geometry{Width: -1, Height: -30, ScrollTop: -4}.Normalize()
	assert.Equal(t, Geometry{}, g)
	g = Geometry{Width: 80, Height: 24, ScrollTop: 3}
	assert.Equal(t, g, g.Normalize())
}

func story(n int) []string {
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 3+(i*37)%90)
	}
	return paragraphs
}

func TestTableSyncMatchesFullRebuild(t *testing.T) {
	paragraphs := story(300)
	table := NewTable(CellMetrics)
	for n := 0; n <= len(paragraphs); n += 17 {
		table.Sync(paragraphs[:n], 80)
		heights := EstimateHeights(paragraphs[:n], 80, CellMetrics)
		require.Equal(t, len(heights), table.Len())
		if n > 0 {
			require.Equal(t, heights, table.Heights())
			require.Equal(t, BuildOffsets(heights), table.Offsets())
		}
		require.Equal(t, TotalHeight(BuildOffsets(heights), heights), table.Total())
	}
}

func TestTableSyncReportsChanges(t *testing.T) {
	paragraphs := story(50)
	table := NewTable(CellMetrics)
	assert.False(t, table.Sync(nil, 0))
	assert.True(t, table.Sync(paragraphs, 80))
	assert.False(t, table.Sync(paragraphs, 80))

	narrowTotal := table.Total()
	assert.True(t, table.Sync(paragraphs, 160))
	assert.Equal(t, 160, table.Width())
	assert.LessOrEqual(t, table.Total(), narrowTotal)

	assert.True(t, table.Sync(paragraphs[:10], 160))
	assert.Equal(t, 10, table.Len())
	assert.Equal(t, BuildOffsets(EstimateHeights(paragraphs[:10], 160, CellMetrics)), table.Offsets())

	table.Reset()
	assert.Zero(t, table.Len())
	assert.Zero(t, table.Total())
	assert.True(t, table.Sync(paragraphs, 160))
}

func TestTableWindowIsIdempotent(t *testing.T) {
	table := NewTable(CellMetrics)
	table.Sync(story(400), 100)
	o := CellConfig.Overscan
	for _, scrollTop := range []int{0, 57, 999, table.Total() / 2, table.Total()} {
		a := table.Window(scrollTop, 30, o)
		b := table.Window(scrollTop, 30, o)
		assert.Equal(t, a, b)
		assert.Equal(t, TopPadding(table.Offsets(), a.Start), TopPadding(table.Offsets(), b.Start))
	}
}
