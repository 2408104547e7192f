// Package playback keeps the audio engine inside the loop region and in the
// requested direction, once per frame.
package playback

import (
	"log"

	"github.com/olivier-w/wavloop/internal/loop"
	"github.com/olivier-w/wavloop/internal/mapper"
)

// Engine is the audio engine surface the controller drives. Positions are
// playback frames.
type Engine interface {
	Position() int
	Seek(frame int) error
	SetReversed(reversed bool)
	Pause()
	Resume()
}

// State is the transport state.
type State uint8

const (
	Playing State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "playing"
}

// Report describes what one Step observed and did.
type Report struct {
	Position  int
	PlayheadX float64
	Seeked    bool
	Target    int
}

// Controller owns the Playing/Paused state machine and the per-frame loop
// enforcement.
type Controller struct {
	engine Engine
	state  State
}

// New returns a controller in the given state. The engine is paused or
// resumed to match.
func New(engine Engine, state State) *Controller {
	c := &Controller{engine: engine, state: state}
	if state == Paused {
		engine.Pause()
	} else {
		engine.Resume()
	}
	return c
}

// State returns the current transport state.
func (c *Controller) State() State {
	return c.state
}

// TogglePause switches between Playing and Paused.
func (c *Controller) TogglePause() State {
	if c.state == Playing {
		c.state = Paused
		c.engine.Pause()
	} else {
		c.state = Playing
		c.engine.Resume()
	}
	return c.state
}

// Step runs one frame. The engine direction is set from the region every
// frame. When looping is enabled the position is read once and, if it has
// left the region, the engine is seeked once back to the wrap target: the
// start handle when playing forward, the end handle when reversed.
func (c *Controller) Step(r loop.Region, m mapper.Mapper) Report {
	c.engine.SetReversed(r.Reversed)

	pos := c.engine.Position()
	rep := Report{Position: pos, PlayheadX: m.PlaybackSampleToScreenX(pos)}
	if !r.Enabled {
		return rep
	}

	target, ok := WrapTarget(r, m, pos)
	if !ok {
		return rep
	}
	if err := c.engine.Seek(target); err != nil {
		log.Printf("playback: seek to frame %d: %v", target, err)
		return rep
	}
	rep.Seeked = true
	rep.Target = target
	rep.PlayheadX = m.PlaybackSampleToScreenX(target)
	return rep
}

// WrapTarget reports the frame playback must jump to, if any. Positions are
// compared as interleaved sample indices against the region edges. The edge
// in the direction of travel is inclusive and the edge playback wraps to is
// exclusive, so a position resting on its own wrap target stays put. A
// collapsed region wraps on every call.
func WrapTarget(r loop.Region, m mapper.Mapper, pos int) (int, bool) {
	idx := m.FrameToSampleIndex(pos)
	lo := m.ScreenXToSampleIndex(r.Start)
	hi := m.ScreenXToSampleIndex(r.End)

	if r.Reversed {
		if idx <= lo || idx > hi {
			return m.ScreenXToPlaybackSample(r.End), true
		}
		return 0, false
	}
	if idx >= hi || idx < lo {
		// Round up so the target frame starts inside the region.
		return m.SampleIndexToFrame(lo, true), true
	}
	return 0, false
}
