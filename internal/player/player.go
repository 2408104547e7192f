package player

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/olivier-w/wavloop/internal/pcm"
)

// output is the part of an Oto player the Player drives.
type output interface {
	Play()
	Pause()
	SetVolume(volume float64)
	BufferedSize() int
}

// Player plays a decoded buffer in a loop, forward or reversed.
// Positions are in frames.
type Player struct {
	buf       pcm.Buffer
	reader    *frameReader
	out       output
	newOutput func(io.Reader) output
	volume    float64
	paused    bool
	closed    bool
	mu        sync.Mutex
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
	otoRate      int
	otoChannels  int
)

func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate, otoChannels = sampleRate, channels
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens the audio device for buf. The player starts paused; call
// Resume to start playback.
func New(buf pcm.Buffer) (*Player, error) {
	if buf.Empty() {
		return nil, ErrNoSamples
	}
	if buf.Channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, buf.Channels)
	}

	ctx, err := initOto(buf.SampleRate, buf.Channels)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	if otoRate != buf.SampleRate || otoChannels != buf.Channels {
		return nil, fmt.Errorf("%w: %d Hz/%d ch, device is %d Hz/%d ch",
			ErrFormatMismatch, buf.SampleRate, buf.Channels, otoRate, otoChannels)
	}

	return newPlayer(buf, func(r io.Reader) output {
		return ctx.NewPlayer(r)
	}), nil
}

func newPlayer(buf pcm.Buffer, newOutput func(io.Reader) output) *Player {
	p := &Player{
		buf:       buf,
		reader:    newFrameReader(buf),
		newOutput: newOutput,
		volume:    0.8,
		paused:    true,
	}
	p.out = newOutput(p.reader)
	p.out.SetVolume(p.volume)
	return p
}

// flush recreates the Oto player so buffered audio from the old position
// or direction is dropped. Callers hold p.mu.
func (p *Player) flush() {
	p.out.Pause()
	p.out = p.newOutput(p.reader)
	p.out.SetVolume(p.volume)
	if !p.paused {
		p.out.Play()
	}
}

// Position returns the frame currently audible. Audio already handed to the
// device but not yet played is subtracted from the reader position.
func (p *Player) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audibleFrame()
}

// audibleFrame is Position without locking. Callers hold p.mu.
func (p *Player) audibleFrame() int {
	total := p.buf.Frames()
	pos := p.reader.Position()
	buffered := p.out.BufferedSize() / p.reader.frameSize()
	if p.reader.Reversed() {
		pos += buffered
	} else {
		pos -= buffered
	}
	pos %= total
	if pos < 0 {
		pos += total
	}
	return pos
}

// Seek jumps to frame, clamped to the buffer.
func (p *Player) Seek(frame int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.reader.seek(frame)
	p.flush()
	return nil
}

// SetReversed sets the playback direction. Calling it with the current
// direction is a no-op.
func (p *Player) SetReversed(reversed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.reader.Reversed() == reversed {
		return
	}
	// Rewind the reader to the audible frame so the flushed audio is not
	// skipped when the new direction starts.
	p.reader.seek(p.audibleFrame())
	p.reader.setReversed(reversed)
	p.flush()
}

// Pause stops output without losing the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.paused {
		return
	}
	p.out.Pause()
	p.paused = true
}

// Resume continues output from the current position.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.paused {
		return
	}
	p.out.Play()
	p.paused = false
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	p.out.SetVolume(v)
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close stops playback. The shared audio device stays open.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.out.Pause()
}
