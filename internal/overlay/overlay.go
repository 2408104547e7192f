// Package overlay wires the envelope, loop region, playback controller and
// renderer into one per-frame update driven by the caller's frame loop.
package overlay

import (
	"errors"
	"fmt"

	"github.com/olivier-w/wavloop/internal/envelope"
	"github.com/olivier-w/wavloop/internal/loop"
	"github.com/olivier-w/wavloop/internal/mapper"
	"github.com/olivier-w/wavloop/internal/pcm"
	"github.com/olivier-w/wavloop/internal/playback"
	"github.com/olivier-w/wavloop/internal/render"
)

// ErrEmptyAsset is returned when there are no samples to draw.
var ErrEmptyAsset = errors.New("overlay: empty audio asset")

// Config holds the load-time settings.
type Config struct {
	// Resolution is the number of envelope buckets per second per channel.
	Resolution int
	Looping    bool
	Reversed   bool
	Paused     bool
	// Width is the initial view width in screen-space units.
	Width   float64
	OriginX float64
	OriginY float64
	Style   render.Style
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Resolution: envelope.DefaultResolution,
		OriginY:    0.5,
		Style:      render.DefaultStyle(),
	}
}

// Input is one frame's worth of input edges. PointerX is in screen-space
// units relative to the left edge of the waveform.
type Input struct {
	LeftPressed   bool
	RightPressed  bool
	PointerX      float64
	ToggleReverse bool
	TogglePause   bool
	ToggleLoop    bool
	// ResetLoop returns the loop region to the full width.
	ResetLoop bool
	// ViewWidth is the current display width. Zero keeps the last width.
	ViewWidth float64
}

// ViewState is the per-frame view the renderer and frontends read.
type ViewState struct {
	PlayheadX float64
	Looping   bool
	Reversed  bool
	OriginX   float64
	OriginY   float64
	Width     float64
	State     playback.State
}

// Frame is the result of one Update.
type Frame struct {
	Batches []render.Batch
	View    ViewState
	Region  loop.Region
	Report  playback.Report
}

// Overlay is the waveform loop overlay for one loaded asset.
type Overlay struct {
	buf     pcm.Buffer
	env     envelope.Envelope
	peak    float32
	bucket  int
	region  loop.Region
	ctrl    *playback.Controller
	style   render.Style
	originX float64
	originY float64
}

// New builds the envelope for buf and binds the overlay to engine.
func New(buf pcm.Buffer, engine playback.Engine, cfg Config) (*Overlay, error) {
	if buf.Empty() {
		return nil, ErrEmptyAsset
	}
	if engine == nil {
		return nil, fmt.Errorf("overlay: nil engine")
	}

	bucket := envelope.BucketSize(buf.SampleRate, cfg.Resolution)
	state := playback.Playing
	if cfg.Paused {
		state = playback.Paused
	}

	env := envelope.Build(buf.Samples, bucket)
	o := &Overlay{
		buf:     buf,
		env:     env,
		peak:    env.Peak(),
		bucket:  bucket,
		region:  loop.New(cfg.Width),
		ctrl:    playback.New(engine, state),
		style:   cfg.Style,
		originX: cfg.OriginX,
		originY: cfg.OriginY,
	}
	o.region.Enabled = cfg.Looping
	o.region.Reversed = cfg.Reversed
	return o, nil
}

// Update applies one frame of input, runs the playback controller and
// returns the draw batches for the frame.
func (o *Overlay) Update(in Input) Frame {
	if in.ViewWidth > 0 {
		o.region.Resize(in.ViewWidth)
	}
	if in.ToggleLoop {
		o.region.ToggleEnabled()
	}
	if in.ToggleReverse {
		o.region.ToggleReversed()
	}
	if in.ResetLoop {
		o.region.Reset(o.region.Width)
	}
	if o.region.Enabled {
		if in.LeftPressed {
			o.region.SetStart(in.PointerX)
		}
		if in.RightPressed {
			o.region.SetEnd(in.PointerX)
		}
	}
	if in.TogglePause {
		o.ctrl.TogglePause()
	}

	m := o.Mapper()
	rep := o.ctrl.Step(o.region, m)

	view := ViewState{
		PlayheadX: rep.PlayheadX,
		Looping:   o.region.Enabled,
		Reversed:  o.region.Reversed,
		OriginX:   o.originX,
		OriginY:   o.originY,
		Width:     o.region.Width,
		State:     o.ctrl.State(),
	}
	batches := render.Frame(render.Scene{
		Envelope:  o.env,
		Mapper:    m,
		Region:    o.region,
		PlayheadX: rep.PlayheadX,
		OriginX:   o.originX,
		OriginY:   o.originY,
		Style:     o.style,
	})
	return Frame{Batches: batches, View: view, Region: o.region, Report: rep}
}

// Mapper returns the coordinate mapper for the current view width.
func (o *Overlay) Mapper() mapper.Mapper {
	return mapper.Mapper{
		SampleLen:  o.buf.Len(),
		BucketSize: o.bucket,
		Channels:   o.buf.Channels,
		ViewWidth:  o.region.Width,
	}
}

// Level returns the envelope value under a playback frame, scaled so the
// loudest bucket of the asset reads 1.
func (o *Overlay) Level(frame int) float32 {
	if frame < 0 || o.peak <= 0 {
		return 0
	}
	return o.env.At(frame*o.buf.Channels/o.bucket) / o.peak
}

// Buffer returns the asset the overlay was built from.
func (o *Overlay) Buffer() pcm.Buffer { return o.buf }

// State returns the transport state.
func (o *Overlay) State() playback.State { return o.ctrl.State() }
