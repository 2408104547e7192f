// Package loop holds the user-selected A/B playback region.
package loop

// Region is a loop range in screen-space x coordinates. Start and End always
// satisfy 0 <= Start <= End <= Width. A zero-width region is valid and loops
// a single point.
type Region struct {
	Start    float64
	End      float64
	Width    float64
	Enabled  bool
	Reversed bool
}

// New returns a disabled region spanning the whole view.
func New(width float64) Region {
	if width < 0 {
		width = 0
	}
	return Region{End: width, Width: width}
}

// SetStart moves the start handle. A start past End collapses onto End.
func (r *Region) SetStart(x float64) {
	x = r.clampX(x)
	if x > r.End {
		r.Start = r.End
		return
	}
	r.Start = x
}

// SetEnd moves the end handle. An end before Start collapses onto Start.
func (r *Region) SetEnd(x float64) {
	x = r.clampX(x)
	if x < r.Start {
		r.End = r.Start
		return
	}
	r.End = x
}

// ToggleReversed flips the playback direction.
func (r *Region) ToggleReversed() {
	r.Reversed = !r.Reversed
}

// ToggleEnabled turns looping on or off. The handles keep their positions.
func (r *Region) ToggleEnabled() {
	r.Enabled = !r.Enabled
}

// ContainsForward reports whether x lies inside the region, bounds included.
func (r Region) ContainsForward(x float64) bool {
	return r.Start <= x && x <= r.End
}

// Collapsed reports whether the region has zero width.
func (r Region) Collapsed() bool {
	return r.Start == r.End
}

// Resize rescales both handles when the view width changes.
func (r *Region) Resize(width float64) {
	if width < 0 {
		width = 0
	}
	if width == r.Width {
		return
	}
	if r.Width <= 0 {
		r.Start, r.End = 0, width
		r.Width = width
		return
	}
	scale := width / r.Width
	r.Width = width
	r.Start = r.clampX(r.Start * scale)
	r.End = r.clampX(r.End * scale)
	if r.End < r.Start {
		r.End = r.Start
	}
}

// Reset restores the full-width region without changing the flags.
func (r *Region) Reset(width float64) {
	enabled, reversed := r.Enabled, r.Reversed
	*r = New(width)
	r.Enabled, r.Reversed = enabled, reversed
}

func (r Region) clampX(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > r.Width {
		return r.Width
	}
	return x
}
