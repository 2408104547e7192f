// Package mapper converts between raw sample indices, playback frames and
// screen-space x positions.
package mapper

import (
	"math"
	"time"
)

// Mapper maps positions for one asset drawn across ViewWidth pixels.
// SampleLen counts interleaved samples; playback positions count frames
// (one sample per channel).
type Mapper struct {
	SampleLen  int
	BucketSize int
	Channels   int
	ViewWidth  float64
}

func (m Mapper) channels() int {
	if m.Channels < 1 {
		return 1
	}
	return m.Channels
}

func (m Mapper) bucket() int {
	if m.BucketSize < 1 {
		return 1
	}
	return m.BucketSize
}

func (m Mapper) degenerate() bool {
	return m.SampleLen <= 0 || m.ViewWidth <= 0
}

// SampleIndexToScreenX returns the x position of interleaved sample i.
func (m Mapper) SampleIndexToScreenX(i int) float64 {
	if m.degenerate() {
		return 0
	}
	return float64(i) * (m.ViewWidth / float64(m.SampleLen))
}

// ScreenXToSampleIndex returns the sample nearest to x. Positions outside the
// view are clamped.
func (m Mapper) ScreenXToSampleIndex(x float64) int {
	if m.degenerate() {
		return 0
	}
	x = clamp(x, 0, m.ViewWidth)
	i := int(math.Round(x * float64(m.SampleLen) / m.ViewWidth))
	if i > m.SampleLen-1 {
		i = m.SampleLen - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// EnvelopeIndexToScreenX returns the x position of the first raw sample in
// envelope bucket b.
func (m Mapper) EnvelopeIndexToScreenX(b int) float64 {
	return m.SampleIndexToScreenX(b * m.bucket())
}

// PlaybackSampleToScreenX returns the cursor position for a playback frame.
// The frame is quantized to the bucket that contains it so the cursor lands
// on the same column as that bucket's waveform segment.
func (m Mapper) PlaybackSampleToScreenX(frame int) float64 {
	if frame < 0 {
		frame = 0
	}
	tick := frame * m.channels() / m.bucket()
	return m.EnvelopeIndexToScreenX(tick)
}

// ScreenXToPlaybackSample returns the playback frame under x.
func (m Mapper) ScreenXToPlaybackSample(x float64) int {
	return m.ScreenXToSampleIndex(x) / m.channels()
}

// FrameToSampleIndex converts a playback frame to the interleaved index of
// its first sample.
func (m Mapper) FrameToSampleIndex(frame int) int {
	return frame * m.channels()
}

// SampleIndexToFrame converts an interleaved index to a frame. With roundUp
// the frame's first sample is at or after i, otherwise at or before it.
func (m Mapper) SampleIndexToFrame(i int, roundUp bool) int {
	ch := m.channels()
	if roundUp {
		return (i + ch - 1) / ch
	}
	return i / ch
}

// FrameCount is the number of playback frames in the asset.
func (m Mapper) FrameCount() int {
	return m.SampleLen / m.channels()
}

// ScreenXToTime returns x as a fraction of the asset's length in [0, 1].
func (m Mapper) ScreenXToTime(x float64) float64 {
	if m.degenerate() {
		return 0
	}
	return clamp(x/m.ViewWidth, 0, 1)
}

// Duration returns the playing time of the asset at sampleRate.
func (m Mapper) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(m.FrameCount()) / float64(sampleRate) * float64(time.Second))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
