package main

import (
	"fmt"
	"log"

	"github.com/olivier-w/wavloop/internal/cli"
	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/olivier-w/wavloop/internal/player"
	"github.com/olivier-w/wavloop/internal/ui"
)

// openAsset decodes path, opens the audio device and builds the playback
// model. progress receives the decoded fraction.
func openAsset(path string, opts cli.Options, progress player.ProgressFunc) (ui.Model, error) {
	if err := cli.CheckPath(path); err != nil {
		return ui.Model{}, err
	}

	buf, err := player.Load(path, progress)
	if err != nil {
		return ui.Model{}, err
	}
	log.Printf("loaded %s: %d frames, %d ch, %d Hz", path, buf.Frames(), buf.Channels, buf.SampleRate)

	p, err := player.New(buf)
	if err != nil {
		return ui.Model{}, fmt.Errorf("error creating player: %w", err)
	}
	p.SetVolume(opts.Volume)

	o, err := overlay.New(buf, p, opts.OverlayConfig())
	if err != nil {
		p.Close()
		return ui.Model{}, err
	}
	return ui.New(o, p, player.ReadMetadata(path)), nil
}
