// Package desktop runs the waveform loop overlay in an ebiten window.
package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/olivier-w/wavloop/internal/playback"
	"github.com/olivier-w/wavloop/internal/render"
	"github.com/olivier-w/wavloop/internal/util"
)

const (
	WindowW    = 960
	WindowH    = 320
	minWindowW = 320
	minWindowH = 120
	volumeStep = 0.05
)

var bgColor = color.RGBA{0x12, 0x14, 0x1c, 0xff}

// Audio is the engine the window drives.
type Audio interface {
	playback.Engine
	Volume() float64
	AdjustVolume(delta float64)
	Close()
}

// Game implements ebiten.Game around one overlay.
type Game struct {
	overlay *overlay.Overlay
	audio   Audio
	title   string
	frame   overlay.Frame
	viewW   int
	viewH   int
}

// New returns a game for an overlay bound to audio.
func New(o *overlay.Overlay, audio Audio, title string) *Game {
	return &Game{
		overlay: o,
		audio:   audio,
		title:   title,
		viewW:   WindowW,
		viewH:   WindowH,
	}
}

func (g *Game) Update() error {
	return g.step(pollInput())
}

// step applies one tick of input. It returns ebiten.Termination on quit.
func (g *Game) step(s inputState) error {
	if s.quit {
		g.audio.Close()
		return ebiten.Termination
	}
	if s.volume != 0 {
		g.audio.AdjustVolume(s.volume)
	}
	g.frame = g.overlay.Update(s.toInput(g.viewW))
	return nil
}

func pollInput() inputState {
	mx, _ := ebiten.CursorPosition()
	s := inputState{
		left:    inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		right:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		cursorX: mx,
		reverse: inpututil.IsKeyJustPressed(ebiten.KeyR),
		pause:   inpututil.IsKeyJustPressed(ebiten.KeySpace),
		loop:    inpututil.IsKeyJustPressed(ebiten.KeyL),
		reset:   inpututil.IsKeyJustPressed(ebiten.KeyX),
		quit:    inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp), inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.volume = volumeStep
	case inpututil.IsKeyJustPressed(ebiten.KeyDown), inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.volume = -volumeStep
	}
	return s
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	drawBatches(screen, g.frame.Batches, g.viewW, g.viewH)
	ebitenutil.DebugPrint(screen, g.status())
}

func drawBatches(dst *ebiten.Image, batches []render.Batch, w, h int) {
	for _, b := range batches {
		switch b.Topology {
		case render.Lines:
			for i := 0; i+1 < len(b.Vertices); i += 2 {
				x0, y0 := toPixels(b.Vertices[i], w, h)
				x1, y1 := toPixels(b.Vertices[i+1], w, h)
				ebitenutil.DrawLine(dst, x0, y0, x1, y1, b.Color)
			}
		case render.Quads:
			for i := 0; i+3 < len(b.Vertices); i += 4 {
				x, y, rw, rh := quadRect(b.Vertices[i:i+4], w, h)
				ebitenutil.DrawRect(dst, x, y, rw, rh, b.Color)
			}
		}
	}
}

// status is the debug line drawn in the top-left corner.
func (g *Game) status() string {
	buf := g.overlay.Buffer()
	v := g.frame.View
	dir := "fwd"
	if v.Reversed {
		dir = "rev"
	}
	loop := "off"
	if v.Looping {
		loop = "on"
	}
	return fmt.Sprintf("%s  %s  %s / %s  %s  loop %s  vol %d%%",
		g.title, v.State,
		util.FormatPrecise(buf.FrameTime(g.frame.Report.Position)),
		util.FormatPrecise(buf.Duration()),
		dir, loop, int(g.audio.Volume()*100+0.5))
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(WindowW, WindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle(g.title + " - wavloop")
	return ebiten.RunGame(g)
}
