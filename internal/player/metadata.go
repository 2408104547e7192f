package player

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds the track labels shown above the waveform.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// ReadMetadata reads ID3v2 tags from MP3 files and falls back to the file
// name for everything else.
func ReadMetadata(path string) Metadata {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if m, ok := readID3(path); ok {
			return m
		}
	}
	base := filepath.Base(path)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

func readID3(path string) (Metadata, bool) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}, false
	}
	defer tag.Close()
	m := Metadata{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}
	return m, m.Title != ""
}

// Subtitle joins artist and album for the header line.
func (m Metadata) Subtitle() string {
	switch {
	case m.Artist != "" && m.Album != "":
		return m.Artist + " - " + m.Album
	case m.Artist != "":
		return m.Artist
	default:
		return m.Album
	}
}
