package ui

import (
	"fmt"
	"time"

	"github.com/olivier-w/wavloop/internal/loop"
	"github.com/olivier-w/wavloop/internal/mapper"
	"github.com/olivier-w/wavloop/internal/util"
)

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

// renderLoopRange labels the loop region with the times under its edges.
func renderLoopRange(m mapper.Mapper, r loop.Region, sampleRate int) string {
	total := m.Duration(sampleRate)
	at := func(x float64) time.Duration {
		return time.Duration(float64(total) * m.ScreenXToTime(x))
	}
	if r.Collapsed() {
		return fmt.Sprintf("loop point %s", util.FormatPrecise(at(r.Start)))
	}
	return fmt.Sprintf("loop %s - %s", util.FormatPrecise(at(r.Start)), util.FormatPrecise(at(r.End)))
}
