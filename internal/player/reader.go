package player

import (
	"encoding/binary"
	"sync"

	"github.com/olivier-w/wavloop/internal/pcm"
)

const bytesPerSample = 2 // 16-bit output

// frameReader streams a decoded buffer to Oto as 16-bit little-endian PCM.
// It walks forward or backward one frame at a time and wraps at both ends,
// so it never runs dry in either direction.
type frameReader struct {
	buf      pcm.Buffer
	pos      int // next frame to emit
	reversed bool
	mu       sync.Mutex
}

func newFrameReader(buf pcm.Buffer) *frameReader {
	return &frameReader{buf: buf}
}

func (fr *frameReader) frameSize() int {
	return fr.buf.Channels * bytesPerSample
}

func (fr *frameReader) Read(p []byte) (int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	total := fr.buf.Frames()
	if total == 0 {
		return 0, nil
	}
	ch := fr.buf.Channels
	fs := fr.frameSize()
	frames := len(p) / fs

	for i := 0; i < frames; i++ {
		base := fr.pos * ch
		for c := 0; c < ch; c++ {
			s := fr.buf.Samples[base+c]
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			binary.LittleEndian.PutUint16(p[(i*ch+c)*bytesPerSample:], uint16(int16(s*32767)))
		}
		fr.pos = fr.step(fr.pos, total)
	}
	return frames * fs, nil
}

func (fr *frameReader) step(pos, total int) int {
	if fr.reversed {
		pos--
		if pos < 0 {
			pos = total - 1
		}
		return pos
	}
	pos++
	if pos >= total {
		pos = 0
	}
	return pos
}

// Position returns the next frame the reader will emit.
func (fr *frameReader) Position() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.pos
}

// Reversed reports the current read direction.
func (fr *frameReader) Reversed() bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.reversed
}

// seek moves the read position, clamped to the buffer.
func (fr *frameReader) seek(frame int) int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	last := fr.buf.Frames() - 1
	if frame > last {
		frame = last
	}
	if frame < 0 {
		frame = 0
	}
	fr.pos = frame
	return frame
}

// setReversed changes direction and reports whether it changed.
func (fr *frameReader) setReversed(reversed bool) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.reversed == reversed {
		return false
	}
	fr.reversed = reversed
	return true
}
