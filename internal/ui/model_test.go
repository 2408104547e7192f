package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavloop/internal/loop"
	"github.com/olivier-w/wavloop/internal/mapper"
	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/olivier-w/wavloop/internal/pcm"
	"github.com/olivier-w/wavloop/internal/player"
	"github.com/olivier-w/wavloop/internal/playback"
)

type stubAudio struct {
	pos      int
	seeks    []int
	reversed bool
	paused   bool
	volume   float64
	closed   bool
}

func (a *stubAudio) Position() int { return a.pos }
func (a *stubAudio) Seek(frame int) error {
	a.seeks = append(a.seeks, frame)
	a.pos = frame
	return nil
}
func (a *stubAudio) SetReversed(r bool)         { a.reversed = r }
func (a *stubAudio) Pause()                     { a.paused = true }
func (a *stubAudio) Resume()                    { a.paused = false }
func (a *stubAudio) Volume() float64            { return a.volume }
func (a *stubAudio) AdjustVolume(delta float64) { a.volume += delta }
func (a *stubAudio) Close()                     { a.closed = true }

func newTestModel(t *testing.T, looping bool) (Model, *stubAudio) {
	t.Helper()
	s := make([]float32, 2000)
	for i := range s {
		s[i] = float32(i%20) / 20
	}
	buf := pcm.Buffer{Samples: s, Channels: 1, SampleRate: 1000}
	a := &stubAudio{volume: 0.5}
	cfg := overlay.DefaultConfig()
	cfg.Looping = looping
	cfg.Width = 100
	o, err := overlay.New(buf, a, cfg)
	if err != nil {
		t.Fatalf("overlay.New: %v", err)
	}
	m := New(o, a, player.Metadata{Title: "Drum Break", Artist: "Someone"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 54, Height: 24})
	return next.(Model), a
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func frame(t *testing.T, m Model) Model {
	t.Helper()
	return step(t, m, frameMsg(time.Now()))
}

func TestCanvasSizeFollowsWindow(t *testing.T) {
	m, _ := newTestModel(t, false)
	cols, rows := m.canvasSize()
	if cols != 50 {
		t.Fatalf("expected 50 columns, got %d", cols)
	}
	if rows != 12 {
		t.Fatalf("expected 12 rows, got %d", rows)
	}
	if m.viewWidth() != 100 {
		t.Fatalf("expected view width 100, got %v", m.viewWidth())
	}
}

func TestCanvasSizeDefaultsBeforeResize(t *testing.T) {
	m := Model{}
	cols, rows := m.canvasSize()
	if cols != defaultWidth-2*margin || rows != maxRows {
		t.Fatalf("unexpected default canvas %dx%d", cols, rows)
	}
}

func TestPointerXMapsColumnsAcrossCanvas(t *testing.T) {
	m, _ := newTestModel(t, false)
	if got := m.pointerX(0); got != 0 {
		t.Fatalf("left margin should clamp to 0, got %v", got)
	}
	if got := m.pointerX(margin); got != 0 {
		t.Fatalf("first canvas column should map to 0, got %v", got)
	}
	if got := m.pointerX(margin + 49); got != 100 {
		t.Fatalf("last canvas column should map to 100, got %v", got)
	}
	if got := m.pointerX(500); got != 100 {
		t.Fatalf("columns past the canvas should clamp, got %v", got)
	}
}

func TestKeysQueueInputUntilFrame(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !m.pending.ToggleLoop || !m.pending.ToggleReverse {
		t.Fatalf("expected pending toggles, got %+v", m.pending)
	}

	m = frame(t, m)
	if !m.frame.View.Looping || !m.frame.View.Reversed {
		t.Fatalf("expected looping reversed view, got %+v", m.frame.View)
	}
	if m.pending != (overlay.Input{}) {
		t.Fatalf("expected pending input cleared, got %+v", m.pending)
	}
}

func TestDoublePressInOneFrameCancels(t *testing.T) {
	m, _ := newTestModel(t, false)
	r := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	m = step(t, m, r)
	m = step(t, m, r)
	m = frame(t, m)
	if m.frame.View.Reversed {
		t.Fatal("two presses before a frame should cancel")
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	m, a := newTestModel(t, false)
	m = frame(t, m)
	if m.frame.View.State != playback.Playing || a.paused {
		t.Fatalf("expected playing, got %v", m.frame.View.State)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = frame(t, m)
	if m.frame.View.State != playback.Paused || !a.paused {
		t.Fatalf("expected paused, got %v", m.frame.View.State)
	}
}

func TestMouseSetsLoopEdges(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = step(t, m, tea.MouseMsg{X: margin + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = frame(t, m)
	m = step(t, m, tea.MouseMsg{X: margin + 40, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m = frame(t, m)

	r := m.frame.Region
	wantStart := 10.0 / 49 * 100
	wantEnd := 40.0 / 49 * 100
	if r.Start != wantStart || r.End != wantEnd {
		t.Fatalf("expected [%v,%v], got [%v,%v]", wantStart, wantEnd, r.Start, r.End)
	}
}

func TestMouseReleaseIgnored(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = step(t, m, tea.MouseMsg{X: margin + 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.pending.LeftPressed {
		t.Fatal("release should not set the loop start")
	}
}

func TestResetLoopKey(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = step(t, m, tea.MouseMsg{X: margin + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = frame(t, m)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = frame(t, m)
	if m.frame.Region.Start != 0 || m.frame.Region.End != 100 {
		t.Fatalf("expected full region, got [%v,%v]", m.frame.Region.Start, m.frame.Region.End)
	}
}

func TestVolumeKeys(t *testing.T) {
	m, a := newTestModel(t, false)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if a.volume != 0.55 || m.volume != 0.55 {
		t.Fatalf("expected volume 0.55, got %v", a.volume)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.volume >= 0.5 {
		t.Fatalf("expected volume below 0.5, got %v", m.volume)
	}
}

func TestQuitClosesAudio(t *testing.T) {
	m, a := newTestModel(t, false)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !a.closed {
		t.Fatal("expected audio closed on quit")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if got := next.(Model).View(); got != "" {
		t.Fatalf("expected empty view after quit, got %q", got)
	}
}

func TestViewShowsTitleAndLoop(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = frame(t, m)
	view := m.View()
	for _, want := range []string{"wavloop", "Drum Break", "Someone", "loop 0:00.0 - 0:02.0", "vol 50%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestViewHidesLoopWhenDisabled(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = frame(t, m)
	if strings.Contains(m.View(), "loop 0:") {
		t.Fatal("loop range should be hidden while looping is off")
	}
}

func TestRenderLoopRange(t *testing.T) {
	m := mapper.Mapper{SampleLen: 20000, BucketSize: 1, Channels: 2, ViewWidth: 100}
	r := loop.New(100)
	r.SetStart(25)
	r.SetEnd(75)
	if got := renderLoopRange(m, r, 1000); got != "loop 0:02.5 - 0:07.5" {
		t.Fatalf("unexpected range %q", got)
	}

	r.SetEnd(25)
	if got := renderLoopRange(m, r, 1000); got != "loop point 0:02.5" {
		t.Fatalf("unexpected collapsed range %q", got)
	}

	if got := renderLoopRange(mapper.Mapper{}, loop.New(0), 1000); got != "loop point 0:00.0" {
		t.Fatalf("unexpected degenerate range %q", got)
	}
}

func TestLevelMeterSettlesOnTarget(t *testing.T) {
	l := newLevelMeter(framesPerSecond)
	for range 200 {
		l.step(0.5)
	}
	if l.pos < 0.49 || l.pos > 0.51 {
		t.Fatalf("expected meter near 0.5, got %v", l.pos)
	}
	if got := l.view(4); got != "▮▮▯▯" {
		t.Fatalf("unexpected meter view %q", got)
	}
}

func TestViewShowsCollapsedLoopPoint(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = step(t, m, tea.MouseMsg{X: margin + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = frame(t, m)
	m = step(t, m, tea.MouseMsg{X: margin + 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m = frame(t, m)

	if !m.frame.Region.Collapsed() {
		t.Fatalf("expected collapsed region, got %+v", m.frame.Region)
	}
	if !strings.Contains(m.View(), "loop point") {
		t.Fatalf("expected loop point label:\n%s", m.View())
	}
}
