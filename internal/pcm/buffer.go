// Package pcm defines the decoded sample buffer shared by the engine and the
// overlay.
package pcm

import "time"

// Buffer is a decoded asset: interleaved samples in [-1, 1].
// It is treated as read-only once loaded.
type Buffer struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// Len is the number of interleaved samples.
func (b Buffer) Len() int { return len(b.Samples) }

// Frames is the number of sample frames (one sample per channel).
func (b Buffer) Frames() int {
	if b.Channels < 1 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Empty reports whether the buffer holds no playable frame.
func (b Buffer) Empty() bool {
	return b.Frames() == 0 || b.SampleRate <= 0
}

// Duration is the playing time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// FrameTime converts a frame index to a time offset.
func (b Buffer) FrameTime(frame int) time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(frame) / float64(b.SampleRate) * float64(time.Second))
}
