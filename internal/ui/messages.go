package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const framesPerSecond = 30

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
