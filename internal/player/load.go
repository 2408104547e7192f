package player

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olivier-w/wavloop/internal/pcm"
)

// Load decodes the file at path fully into memory. progress, if non-nil,
// is called with the decoded fraction as decoding advances.
func Load(path string, progress ProgressFunc) (pcm.Buffer, error) {
	decode, err := decoderFor(filepath.Ext(path))
	if err != nil {
		return pcm.Buffer{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return pcm.Buffer{}, err
	}
	defer f.Close()

	buf, err := decode(f, progress)
	if err != nil {
		return pcm.Buffer{}, err
	}
	if buf.Empty() {
		return pcm.Buffer{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoSamples)
	}
	// Drop a trailing partial frame.
	buf.Samples = buf.Samples[:buf.Frames()*buf.Channels]
	return buf, nil
}
