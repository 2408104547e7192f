package ui

import (
	"strings"

	"github.com/charmbracelet/harmonica"
)

// levelMeter eases the envelope level under the playhead toward each new
// reading so the bar does not flicker between buckets.
type levelMeter struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newLevelMeter(fps int) levelMeter {
	return levelMeter{spring: harmonica.NewSpring(harmonica.FPS(fps), 12.0, 0.9)}
}

func (l *levelMeter) step(target float64) float64 {
	l.pos, l.vel = l.spring.Update(l.pos, l.vel, clamp01(target))
	return l.pos
}

func (l levelMeter) view(width int) string {
	if width < 1 {
		return ""
	}
	filled := int(clamp01(l.pos)*float64(width) + 0.5)
	return strings.Repeat("▮", filled) + strings.Repeat("▯", width-filled)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
