package player

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/olivier-w/wavloop/internal/pcm"
)

type stubOutput struct {
	playing  bool
	volume   float64
	buffered int
}

func (o *stubOutput) Play()               { o.playing = true }
func (o *stubOutput) Pause()              { o.playing = false }
func (o *stubOutput) SetVolume(v float64) { o.volume = v }
func (o *stubOutput) BufferedSize() int   { return o.buffered }

type stubDevice struct {
	outputs []*stubOutput
	reader  io.Reader
}

func (d *stubDevice) newOutput(r io.Reader) output {
	o := &stubOutput{}
	d.outputs = append(d.outputs, o)
	d.reader = r
	return o
}

func (d *stubDevice) current() *stubOutput { return d.outputs[len(d.outputs)-1] }

// rampBuffer has 10 stereo frames; frame i holds (i/10, -i/10).
func rampBuffer() pcm.Buffer {
	s := make([]float32, 20)
	for i := range 10 {
		s[i*2] = float32(i) / 10
		s[i*2+1] = -float32(i) / 10
	}
	return pcm.Buffer{Samples: s, Channels: 2, SampleRate: 10}
}

func leftChannel(t *testing.T, r io.Reader, frames int) []int16 {
	t.Helper()
	p := make([]byte, frames*4)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if n != len(p) {
		t.Fatalf("expected %d bytes, got %d", len(p), n)
	}
	out := make([]int16, frames)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(p[i*4:]))
	}
	return out
}

func TestNewPlayerStartsPaused(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	if !p.paused {
		t.Fatal("expected new player to be paused")
	}
	if d.current().playing {
		t.Fatal("expected output not playing")
	}
	p.Resume()
	if p.paused || !d.current().playing {
		t.Fatal("expected resume to start output")
	}
	p.Pause()
	if !p.paused || d.current().playing {
		t.Fatal("expected pause to stop output")
	}
}

func TestFrameReaderWrapsForward(t *testing.T) {
	fr := newFrameReader(rampBuffer())
	fr.seek(8)
	got := leftChannel(t, fr, 4)
	want := []int16{pcm16(0.8), pcm16(0.9), 0, pcm16(0.1)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if fr.Position() != 2 {
		t.Fatalf("expected position 2 after wrap, got %d", fr.Position())
	}
}

func TestFrameReaderWrapsReversed(t *testing.T) {
	fr := newFrameReader(rampBuffer())
	fr.seek(1)
	fr.setReversed(true)
	got := leftChannel(t, fr, 3)
	want := []int16{pcm16(0.1), 0, pcm16(0.9)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %d", i, want[i], got[i])
		}
	}
	if fr.Position() != 8 {
		t.Fatalf("expected position 8 after wrap, got %d", fr.Position())
	}
}

func TestFrameReaderIgnoresPartialFrame(t *testing.T) {
	fr := newFrameReader(rampBuffer())
	n, err := fr.Read(make([]byte, 3))
	if err != nil || n != 0 {
		t.Fatalf("expected (0, nil), got (%d, %v)", n, err)
	}
}

func TestSeekClampsAndFlushes(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	p.Resume()

	if err := p.Seek(42); err != nil {
		t.Fatalf("Seek returned error: %v", err)
	}
	if got := p.reader.Position(); got != 9 {
		t.Fatalf("expected clamped position 9, got %d", got)
	}
	if len(d.outputs) != 2 {
		t.Fatalf("expected seek to recreate output, got %d outputs", len(d.outputs))
	}
	if !d.current().playing {
		t.Fatal("expected new output to keep playing")
	}
	if d.current().volume != 0.8 {
		t.Fatalf("expected volume carried over, got %v", d.current().volume)
	}
}

func TestSetReversedOnlyFlushesOnChange(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	p.SetReversed(false)
	if len(d.outputs) != 1 {
		t.Fatalf("expected no flush for unchanged direction, got %d outputs", len(d.outputs))
	}
	p.SetReversed(true)
	p.SetReversed(true)
	if len(d.outputs) != 2 {
		t.Fatalf("expected one flush, got %d outputs", len(d.outputs))
	}
	if !p.reader.Reversed() {
		t.Fatal("expected reversed direction")
	}
}

func TestSetReversedResumesFromAudibleFrame(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	p.reader.seek(6)
	d.current().buffered = 3 * 4 // frames 3, 4 and 5 are still queued

	if got := p.Position(); got != 3 {
		t.Fatalf("expected audible position 3, got %d", got)
	}
	p.SetReversed(true)
	if got := p.Position(); got != 3 {
		t.Fatalf("expected position 3 after reversing, got %d", got)
	}

	got := leftChannel(t, d.reader, 3)
	want := []int16{pcm16(0.3), pcm16(0.2), pcm16(0.1)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: expected %d, got %d", i, want[i], got[i])
		}
	}

	d.current().buffered = 2 * 4 // frames 2 and 1 are still queued
	p.SetReversed(false)
	if got := p.Position(); got != 2 {
		t.Fatalf("expected position 2 after switching forward, got %d", got)
	}
}

func TestPositionSubtractsBufferedAudio(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	p.reader.seek(5)
	d.current().buffered = 3 * 4 // three stereo frames

	if got := p.Position(); got != 2 {
		t.Fatalf("expected position 2, got %d", got)
	}
	p.reader.setReversed(true)
	if got := p.Position(); got != 8 {
		t.Fatalf("expected reversed position 8, got %d", got)
	}
	d.current().buffered = 7 * 4
	p.reader.setReversed(false)
	if got := p.Position(); got != 8 {
		t.Fatalf("expected wrapped position 8, got %d", got)
	}
}

func TestClosedPlayerRejectsSeek(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	p.Close()
	p.Close()
	if err := p.Seek(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestVolumeClamps(t *testing.T) {
	d := &stubDevice{}
	p := newPlayer(rampBuffer(), d.newOutput)
	p.AdjustVolume(0.5)
	if p.Volume() != 1 {
		t.Fatalf("expected volume 1, got %v", p.Volume())
	}
	p.SetVolume(-3)
	if p.Volume() != 0 || d.current().volume != 0 {
		t.Fatalf("expected volume 0, got %v", p.Volume())
	}
}

func TestNewRejectsEmptyBuffer(t *testing.T) {
	if _, err := New(pcm.Buffer{}); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
	buf := pcm.Buffer{Samples: make([]float32, 6), Channels: 6, SampleRate: 44100}
	if _, err := New(buf); !errors.Is(err, ErrUnsupportedChannels) {
		t.Fatalf("expected ErrUnsupportedChannels, got %v", err)
	}
}

// pcm16 converts a float sample the way frameReader does, at run time.
func pcm16(f float32) int16 { return int16(f * 32767) }
