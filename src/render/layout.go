package render

// BarLayout is the horizontal geometry of the stacked bar chart. go-chart places the first bar at the
// left padding and advances by BarWidth+Spacing per bar, so the same numbers map pixels back to bars.
type BarLayout struct {
	Left     int
	Right    int
	Top      int
	BarWidth int
	Spacing  int
	Height   int
	Count    int
}

// NewBarLayout returns the layout used for n bar groups.
func NewBarLayout(n int) BarLayout {
	if n < 0 {
		n = 0
	}
	return BarLayout{Left: 20, Right: 80, Top: 60, BarWidth: 80, Spacing: 40, Height: 480, Count: n}
}

func (l BarLayout) slot() int { return l.BarWidth + l.Spacing }

// Width is the full image width: padding, every bar slot, and room for the value axis on the right.
func (l BarLayout) Width() int {
	w := l.Left + l.Count*l.slot() + l.Right
	if w < 480 {
		w = 480
	}
	return w
}

// Span returns the horizontal pixel range [left, right] of bar i. go-chart starts each slot at
// Left+i*slot and centres the bar in it, so the body begins Spacing/2 into the slot.
func (l BarLayout) Span(i int) (left, right float64) {
	left = float64(l.Left+i*l.slot()) + float64(l.Spacing/2)
	return left, left + float64(l.BarWidth)
}

// Center returns the x pixel at the middle of bar i.
func (l BarLayout) Center(i int) float64 {
	left, right := l.Span(i)
	return (left + right) / 2
}

// IndexAt maps an x pixel in image coordinates to the bar drawn there.
// Clicks in the spacing between bars or outside the plotted bars return false.
func (l BarLayout) IndexAt(x float64) (int, bool) {
	if l.Count == 0 || l.slot() <= 0 {
		return 0, false
	}
	off := x - float64(l.Left)
	if off < 0 {
		return 0, false
	}
	i := int(off) / l.slot()
	if i >= l.Count {
		return 0, false
	}
	left, right := l.Span(i)
	if x < left || x > right {
		return 0, false
	}
	return i, true
}
