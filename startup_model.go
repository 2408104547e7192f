package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavloop/internal/cli"
	"github.com/olivier-w/wavloop/internal/player"
	"github.com/olivier-w/wavloop/internal/ui"
)

type startupPhase uint8

const (
	phaseLoading startupPhase = iota
	phaseFailed
)

type startupResolvedMsg struct {
	model ui.Model
	err   error
}

type startupProgressMsg float64

// openFunc builds the playback model, reporting decode progress.
type openFunc func(path string, opts cli.Options, progress player.ProgressFunc) (ui.Model, error)

type startupModel struct {
	path       string
	opts       cli.Options
	open       openFunc
	phase      startupPhase
	err        error
	width      int
	height     int
	spinner    spinner.Model
	progress   progress.Model
	percent    float64
	hasPercent bool
	progressCh chan float64
}

func newStartupModel(path string, opts cli.Options, open openFunc) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#4FC3F7", "#0288D1"),
		progress.WithoutPercentage(),
	)

	return startupModel{
		path:       path,
		opts:       opts,
		open:       open,
		phase:      phaseLoading,
		spinner:    s,
		progress:   p,
		progressCh: make(chan float64, 16),
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForProgress(), m.openCmd())
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startupProgressMsg:
		m.hasPercent = true
		m.percent = float64(msg)
		return m, m.waitForProgress()

	case startupResolvedMsg:
		if msg.err != nil {
			m.phase = phaseFailed
			m.err = msg.err
			m.progressCh = nil
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseFailed || startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	return m, nil
}

func (m startupModel) openCmd() tea.Cmd {
	path, opts, open, ch := m.path, m.opts, m.open, m.progressCh
	return func() tea.Msg {
		defer close(ch)
		model, err := open(path, opts, func(f float64) {
			select {
			case ch <- f:
			default:
			}
		})
		return startupResolvedMsg{model: model, err: err}
	}
}

func (m startupModel) waitForProgress() tea.Cmd {
	if m.progressCh == nil {
		return nil
	}
	ch := m.progressCh
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return startupProgressMsg(f)
	}
}

// Err returns the load failure, if any.
func (m startupModel) Err() error {
	return m.err
}

func (m startupModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("wavloop"))
	b.WriteString("\n\n")

	if m.phase == phaseFailed {
		b.WriteString("  ")
		b.WriteString(startupErrorStyle.Render(m.err.Error()))
		b.WriteString("\n\n  ")
		b.WriteString(startupHelpStyle.Render("press any key to exit"))
		b.WriteString("\n")
		return b.String()
	}

	if m.hasPercent {
		b.WriteString("  ")
		b.WriteString(startupStatusStyle.Render("Decoding..."))
		b.WriteString("\n  ")
		b.WriteString(m.progress.ViewAs(m.percent))
		b.WriteString(fmt.Sprintf("  %.0f%%\n", m.percent*100))
	} else {
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(startupStatusStyle.Render("Opening..."))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
