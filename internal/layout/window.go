package layout

import "sort"

// Window is the half-open index range [Start, End) of paragraphs that get rendered.
type Window struct {
	Start int
	End   int
}

// Len is the number of paragraphs in the window.
func (w Window) Len() int { return w.End - w.Start }

// Empty reports whether nothing is rendered.
func (w Window) Empty() bool { return w.End <= w.Start }

// Contains reports whether paragraph i is rendered.
func (w Window) Contains(i int) bool { return i >= w.Start && i < w.End }

// Overscan pads the visible range. Count paragraphs are added on each side and
// Margin extends the bottom edge of the viewport before walking.
type Overscan struct {
	Count  int
	Margin int
}

// LocateStart returns the largest i with offsets[i] <= scrollTop, or 0 if there is none.
func LocateStart(offsets []int, scrollTop int) int {
	// first index whose offset is past scrollTop; the one before it is the answer
	i := sort.Search(len(offsets), func(i int) bool { return offsets[i] > scrollTop })
	if i == 0 {
		return 0
	}
	return i - 1
}

// ComputeWindow selects the paragraphs covering [scrollTop, scrollTop+viewportHeight]
// plus overscan. A paragraph starting exactly at scrollTop is the first visible one.
func ComputeWindow(offsets, heights []int, scrollTop, viewportHeight int, o Overscan) Window {
	n := len(offsets)
	if n == 0 || len(heights) < n || viewportHeight <= 0 {
		return Window{}
	}
	count := o.Count
	if count < 0 {
		count = 0
	}
	margin := o.Margin
	if margin < 0 {
		margin = 0
	}
	total := TotalHeight(offsets, heights)
	if scrollTop < 0 {
		scrollTop = 0
	}
	if scrollTop > total {
		scrollTop = total
	}

	start := LocateStart(offsets, scrollTop) - count
	if start < 0 {
		start = 0
	}
	limit := scrollTop + viewportHeight + margin
	end := start
	for end < n && offsets[end] < limit {
		end++
	}
	end += count
	if end > n {
		end = n
	}
	return Window{Start: start, End: end}
}

// TopPadding is the height of everything above start.
func TopPadding(offsets []int, start int) int {
	if start <= 0 || len(offsets) == 0 {
		return 0
	}
	if start >= len(offsets) {
		// nothing to translate past the end; callers pair this with an empty window
		return offsets[len(offsets)-1]
	}
	return offsets[start]
}
