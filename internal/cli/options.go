// Package cli holds the command-line options shared by the terminal and
// desktop frontends.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavloop/internal/envelope"
	"github.com/olivier-w/wavloop/internal/media"
	"github.com/olivier-w/wavloop/internal/overlay"
	"github.com/spf13/pflag"
)

const defaultVolume = 0.8

var (
	ErrBadResolution = errors.New("resolution must be positive")
	ErrBadVolume     = errors.New("volume must be between 0 and 1")
)

// Options are the flags both frontends accept.
type Options struct {
	Resolution int
	Loop       bool
	Reverse    bool
	Paused     bool
	Volume     float64
	// Debug is a log file path. Empty discards logs.
	Debug string
}

// Bind registers the options on fs.
func (o *Options) Bind(fs *pflag.FlagSet) {
	fs.IntVarP(&o.Resolution, "resolution", "n", envelope.DefaultResolution,
		"Envelope buckets per second per channel")
	fs.BoolVarP(&o.Loop, "loop", "l", false,
		"Start with the loop region enabled")
	fs.BoolVarP(&o.Reverse, "reverse", "r", false,
		"Start playing backwards")
	fs.BoolVarP(&o.Paused, "paused", "p", false,
		"Start paused")
	fs.Float64Var(&o.Volume, "volume", defaultVolume,
		"Initial volume from 0 to 1")
	fs.StringVar(&o.Debug, "debug", "",
		"Write debug logs to the given file (empty disables)")
}

// Validate checks flag values that pflag cannot.
func (o Options) Validate() error {
	if o.Resolution <= 0 {
		return fmt.Errorf("%w: %d", ErrBadResolution, o.Resolution)
	}
	if o.Volume < 0 || o.Volume > 1 {
		return fmt.Errorf("%w: %v", ErrBadVolume, o.Volume)
	}
	return nil
}

// OverlayConfig converts the options to a load-time overlay config.
func (o Options) OverlayConfig() overlay.Config {
	cfg := overlay.DefaultConfig()
	cfg.Resolution = o.Resolution
	cfg.Looping = o.Loop
	cfg.Reversed = o.Reverse
	cfg.Paused = o.Paused
	return cfg
}

// SetupLogging points the standard logger at the debug file, or discards
// everything when no file was given. The returned closer is never nil.
func (o Options) SetupLogging() (io.Closer, error) {
	if o.Debug == "" {
		log.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(o.Debug, "debug")
	if err != nil {
		return nil, err
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("debug logging enabled: resolution=%d loop=%v reverse=%v", o.Resolution, o.Loop, o.Reverse)
	return f, nil
}

// CheckPath reports why path cannot be opened as an audio asset.
func CheckPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	return nil
}
