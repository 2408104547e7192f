package media

import "testing"

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".Ogg"} {
		if !IsSupportedExt(ext) {
			t.Errorf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".aac", ".m4a", ".m3u", ""} {
		if IsSupportedExt(ext) {
			t.Errorf("expected %s to be unsupported", ext)
		}
	}
}
