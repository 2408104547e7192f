package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/olivier-w/wavloop/internal/player"
	"github.com/olivier-w/wavloop/internal/playback"
	"github.com/olivier-w/wavloop/internal/util"
)

const (
	margin       = 2
	minCols      = 16
	minRows      = 4
	maxRows      = 16
	defaultWidth = 80
	chromeRows   = 12
	meterWidth   = 12
	volumeStep   = 0.05
)

// Audio is the engine the model drives through the overlay, plus the
// volume and lifetime controls the overlay does not touch.
type Audio interface {
	playback.Engine
	Volume() float64
	AdjustVolume(delta float64)
	Close()
}

// Model is the Bubbletea model for the wavloop TUI.
type Model struct {
	overlay  *overlay.Overlay
	audio    Audio
	metadata player.Metadata
	keys     keyMap
	help     help.Model
	meter    levelMeter

	frame    overlay.Frame
	pending  overlay.Input
	volume   float64
	width    int
	height   int
	quitting bool
}

// New creates a Model for an overlay bound to audio.
func New(o *overlay.Overlay, audio Audio, meta player.Metadata) Model {
	h := help.New()
	h.ShortSeparator = "  "
	return Model{
		overlay:  o,
		audio:    audio,
		metadata: meta,
		keys:     newKeyMap(),
		help:     h,
		meter:    newLevelMeter(framesPerSecond),
		volume:   audio.Volume(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), tea.SetWindowTitle(windowTitle(m.metadata.Title, m.overlay.State() == playback.Paused)))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.pending.LeftPressed = true
		case tea.MouseButtonRight:
			m.pending.RightPressed = true
		default:
			return m, nil
		}
		m.pending.PointerX = m.pointerX(msg.X)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		wasPaused := m.frame.View.State == playback.Paused
		in := m.pending
		in.ViewWidth = m.viewWidth()
		m.frame = m.overlay.Update(in)
		m.pending = overlay.Input{}
		m.meter.step(float64(m.overlay.Level(m.frame.Report.Position)))
		m.volume = m.audio.Volume()

		cmds := []tea.Cmd{frameCmd()}
		if paused := m.frame.View.State == playback.Paused; paused != wasPaused {
			cmds = append(cmds, tea.SetWindowTitle(windowTitle(m.metadata.Title, paused)))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isQuit(msg):
		m.quitting = true
		m.audio.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Pause):
		m.pending.TogglePause = !m.pending.TogglePause
	case key.Matches(msg, m.keys.Reverse):
		m.pending.ToggleReverse = !m.pending.ToggleReverse
	case key.Matches(msg, m.keys.Loop):
		m.pending.ToggleLoop = !m.pending.ToggleLoop
	case key.Matches(msg, m.keys.ResetLoop):
		m.pending.ResetLoop = true
	case key.Matches(msg, m.keys.VolumeUp):
		m.audio.AdjustVolume(volumeStep)
		m.volume = m.audio.Volume()
	case key.Matches(msg, m.keys.VolumeDown):
		m.audio.AdjustVolume(-volumeStep)
		m.volume = m.audio.Volume()
	}
	return m, nil
}

// canvasSize returns the waveform canvas size in cells.
func (m Model) canvasSize() (cols, rows int) {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	cols = max(w-2*margin, minCols)
	rows = maxRows
	if m.height > 0 {
		rows = min(max(m.height-chromeRows, minRows), maxRows)
	}
	return cols, rows
}

// viewWidth is the screen-space width handed to the overlay: one unit per
// braille dot column.
func (m Model) viewWidth() float64 {
	cols, _ := m.canvasSize()
	return float64(cols * dotsPerCol)
}

// pointerX maps a terminal column to screen-space units across the canvas.
func (m Model) pointerX(col int) float64 {
	cols, _ := m.canvasSize()
	c := min(max(col-margin, 0), cols-1)
	if cols <= 1 {
		return 0
	}
	return float64(c) / float64(cols-1) * m.viewWidth()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cols, rows := m.canvasSize()
	cv := newCanvas(cols, rows)
	cv.draw(m.frame.Batches)

	buf := m.overlay.Buffer()
	elapsed := buf.FrameTime(m.frame.Report.Position)
	duration := m.overlay.Mapper().Duration(buf.SampleRate)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("wavloop") + "\n")
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render(m.metadata.Title) + "\n")
	if sub := m.metadata.Subtitle(); sub != "" {
		b.WriteString("  " + artistStyle.Render(sub) + "\n")
	}
	b.WriteString("\n")
	for _, line := range strings.Split(cv.String(), "\n") {
		b.WriteString(spaces(margin) + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + m.statusLine(elapsed, duration) + "\n")
	if loop := m.loopLine(); loop != "" {
		b.WriteString("  " + loop + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys) + "\n")
	b.WriteString("  " + helpStyle.Render(mouseHelp) + "\n")
	return b.String()
}

func (m Model) statusLine(elapsed, duration time.Duration) string {
	icon := "▶"
	if m.frame.View.State == playback.Paused {
		icon = "❚❚"
	}
	dir := ""
	if m.frame.View.Reversed {
		dir = "  ◀ rev"
	}
	left := fmt.Sprintf("%s  %s%s", icon, m.frame.View.State, dir)
	times := fmt.Sprintf("%s / %s", util.FormatPrecise(elapsed), util.FormatPrecise(duration))
	return fmt.Sprintf("%s  %s  %s  %s",
		statusStyle.Render(left),
		timeStyle.Render(times),
		meterStyle.Render(m.meter.view(meterWidth)),
		statusStyle.Render(renderVolumePercent(m.volume)))
}

func (m Model) loopLine() string {
	if !m.frame.View.Looping {
		return ""
	}
	return loopStyle.Render(renderLoopRange(m.overlay.Mapper(), m.frame.Region, m.overlay.Buffer().SampleRate))
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " - wavloop"
	}
	return "▶ " + title + " - wavloop"
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}
