// Package render turns the waveform, cursor and loop region into draw
// batches. Each batch carries its own color so backends never depend on
// state left over from a previous batch.
package render

import (
	"image/color"

	"github.com/olivier-w/wavloop/internal/envelope"
	"github.com/olivier-w/wavloop/internal/loop"
	"github.com/olivier-w/wavloop/internal/mapper"
)

// Topology selects how a batch's vertices are assembled.
type Topology uint8

const (
	// Lines pairs consecutive vertices into segments.
	Lines Topology = iota
	// Quads groups consecutive vertices into four-corner rectangles.
	Quads
)

func (t Topology) String() string {
	switch t {
	case Quads:
		return "quads"
	default:
		return "lines"
	}
}

// Vec2 is a point in normalized orthographic space: x and y run from 0 to 1
// with the origin at the bottom left.
type Vec2 struct {
	X, Y float64
}

// Batch is one primitive submission.
type Batch struct {
	Topology Topology
	Color    color.NRGBA
	Vertices []Vec2
}

// Style holds colors and vertical placement.
type Style struct {
	Waveform color.NRGBA
	Tick     color.NRGBA
	Cursor   color.NRGBA
	Handle   color.NRGBA
	Dim      color.NRGBA

	// YScale multiplies envelope values into normalized height.
	YScale float64
	// TickHeight is the length of the time ticks drawn from the bottom edge.
	TickHeight float64
	// ConnectorY is the height of the bar joining the two loop handles.
	ConnectorY float64
}

// DefaultStyle returns the stock palette.
func DefaultStyle() Style {
	return Style{
		Waveform:   color.NRGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xff},
		Tick:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Cursor:     color.NRGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
		Handle:     color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
		Dim:        color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x80},
		YScale:     0.5,
		TickHeight: 0.05,
		ConnectorY: 0.5,
	}
}

// Scene is everything a frame depends on.
type Scene struct {
	Envelope  envelope.Envelope
	Mapper    mapper.Mapper
	Region    loop.Region
	PlayheadX float64
	OriginX   float64
	OriginY   float64
	Style     Style
}

// Frame returns the batches for one frame, back to front: dimming outside
// the loop, waveform and ticks, playhead, then loop handles.
func Frame(s Scene) []Batch {
	var out []Batch
	if s.Region.Enabled {
		out = append(out, dimming(s)...)
	}
	out = append(out, waveform(s)...)
	out = append(out, cursor(s))
	if s.Region.Enabled {
		out = append(out, handles(s))
	}
	return out
}

func (s Scene) nx(screenX float64) float64 {
	w := s.Mapper.ViewWidth
	if w <= 0 {
		return s.OriginX
	}
	return s.OriginX + screenX/w
}

func dimming(s Scene) []Batch {
	var out []Batch
	if s.Region.Start > 0 {
		out = append(out, quad(s.Style.Dim, s.nx(0), 0, s.nx(s.Region.Start), 1))
	}
	if s.Region.End < s.Mapper.ViewWidth {
		out = append(out, quad(s.Style.Dim, s.nx(s.Region.End), 0, s.nx(s.Mapper.ViewWidth), 1))
	}
	return out
}

func waveform(s Scene) []Batch {
	n := len(s.Envelope)
	if n == 0 {
		return nil
	}
	wave := Batch{Topology: Lines, Color: s.Style.Waveform, Vertices: make([]Vec2, 0, n*2)}
	ticks := Batch{Topology: Lines, Color: s.Style.Tick}
	every := s.Mapper.BucketSize
	if every < 1 {
		every = 1
	}

	emit := func(i int) {
		x := s.nx(s.Mapper.EnvelopeIndexToScreenX(i))
		amp := float64(s.Envelope[i]) * s.Style.YScale
		wave.Vertices = append(wave.Vertices,
			Vec2{X: x, Y: s.OriginY + amp},
			Vec2{X: x, Y: s.OriginY - amp},
		)
		if i%every == 0 {
			ticks.Vertices = append(ticks.Vertices,
				Vec2{X: x, Y: 0},
				Vec2{X: x, Y: s.Style.TickHeight},
			)
		}
	}
	if s.Region.Reversed {
		for i := n - 1; i >= 0; i-- {
			emit(i)
		}
	} else {
		for i := range n {
			emit(i)
		}
	}

	if len(ticks.Vertices) == 0 {
		return []Batch{wave}
	}
	return []Batch{wave, ticks}
}

func cursor(s Scene) Batch {
	x := s.nx(s.PlayheadX)
	return Batch{
		Topology: Lines,
		Color:    s.Style.Cursor,
		Vertices: []Vec2{{X: x, Y: 0}, {X: x, Y: 1}},
	}
}

func handles(s Scene) Batch {
	start, end := s.nx(s.Region.Start), s.nx(s.Region.End)
	y := s.Style.ConnectorY
	return Batch{
		Topology: Lines,
		Color:    s.Style.Handle,
		Vertices: []Vec2{
			{X: start, Y: 0}, {X: start, Y: 1},
			{X: end, Y: 0}, {X: end, Y: 1},
			{X: start, Y: y}, {X: end, Y: y},
		},
	}
}

func quad(c color.NRGBA, x0, y0, x1, y1 float64) Batch {
	return Batch{
		Topology: Quads,
		Color:    c,
		Vertices: []Vec2{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}},
	}
}
