package desktop

import (
	"math"

	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/olivier-w/wavloop/internal/render"
)

// toPixels maps a normalized vertex onto a w x h window. Normalized y grows
// upward, pixel y downward.
func toPixels(v render.Vec2, w, h int) (float64, float64) {
	return v.X * float64(w), (1 - v.Y) * float64(h)
}

// quadRect returns the pixel rectangle covering a four-vertex quad.
func quadRect(v []render.Vec2, w, h int) (x, y, rw, rh float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range v {
		px, py := toPixels(p, w, h)
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// inputState is the raw input seen during one ebiten tick.
type inputState struct {
	left, right bool
	cursorX     int
	reverse     bool
	pause       bool
	loop        bool
	reset       bool
	volume      float64
	quit        bool
}

// toInput converts raw input to an overlay input for a window width pixels
// wide. One pixel is one screen-space unit.
func (s inputState) toInput(width int) overlay.Input {
	x := float64(min(max(s.cursorX, 0), width))
	return overlay.Input{
		LeftPressed:   s.left,
		RightPressed:  s.right,
		PointerX:      x,
		ToggleReverse: s.reverse,
		TogglePause:   s.pause,
		ToggleLoop:    s.loop,
		ResetLoop:     s.reset,
		ViewWidth:     float64(width),
	}
}
