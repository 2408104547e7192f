package player

import (
	"bytes"
	"io"
	"testing"
)

// lameHeader builds an ID3v2 header followed by an MPEG-1 layer III stereo
// frame carrying an Info tag with the given encoder delay and padding.
func lameHeader(delay, padding int, withID3 bool) []byte {
	var b bytes.Buffer
	if withID3 {
		b.Write([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0})
	}
	b.Write([]byte{0xFF, 0xFB, 0x90, 0x00})
	b.Write(make([]byte, 32))
	b.WriteString("Info")
	b.Write([]byte{0, 0, 0, 0})
	lame := make([]byte, 24)
	lame[21] = byte(delay >> 4)
	lame[22] = byte(delay&0x0f)<<4 | byte(padding>>8)
	lame[23] = byte(padding)
	b.Write(lame)
	b.Write(make([]byte, 256))
	return b.Bytes()
}

func TestReadMP3GaplessTrim(t *testing.T) {
	for _, withID3 := range []bool{true, false} {
		r := bytes.NewReader(lameHeader(576, 1600, withID3))
		start, end, err := readMP3GaplessTrim(r)
		if err != nil {
			t.Fatalf("readMP3GaplessTrim() error = %v", err)
		}
		if start != 1105 {
			t.Fatalf("start trim = %d, want 1105", start)
		}
		if end != 1071 {
			t.Fatalf("end trim = %d, want 1071", end)
		}
		if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
			t.Fatalf("read position = %d, want restored to 0", pos)
		}
	}
}

func TestReadMP3GaplessTrimAbsent(t *testing.T) {
	data := lameHeader(0, 0, true)
	start, end, err := readMP3GaplessTrim(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("readMP3GaplessTrim() error = %v", err)
	}
	if start != 0 || end != 0 {
		t.Fatalf("trim = (%d, %d), want (0, 0)", start, end)
	}

	start, end, err = readMP3GaplessTrim(bytes.NewReader(make([]byte, 64)))
	if err != nil || start != 0 || end != 0 {
		t.Fatalf("no sync: trim = (%d, %d, %v), want (0, 0, nil)", start, end, err)
	}
}

func TestLAMETrimClampsShortPadding(t *testing.T) {
	start, end, ok := lameTrim(lameHeader(576, 100, false))
	if !ok || start != 1105 || end != 0 {
		t.Fatalf("got (%d, %d, %v), want (1105, 0, true)", start, end, ok)
	}
}

func TestLAMETrimRejectsOtherLayers(t *testing.T) {
	frame := lameHeader(576, 1600, false)
	frame[1] = 0xFD // layer II
	if _, _, ok := lameTrim(frame); ok {
		t.Fatal("expected layer II frame to be rejected")
	}
	if _, _, ok := lameTrim(frame[:3]); ok {
		t.Fatal("expected short frame to be rejected")
	}
}

func TestID3SkipIncludesFooter(t *testing.T) {
	b := []byte{'I', 'D', '3', 4, 0, 0x10, 0, 0, 1, 0}
	if got := id3Skip(b); got != 10+128+10 {
		t.Fatalf("id3Skip = %d, want 148", got)
	}
	if got := id3Skip([]byte("RIFF....WAVE")); got != 0 {
		t.Fatalf("id3Skip without tag = %d, want 0", got)
	}
}

func TestTrimFrames(t *testing.T) {
	s := []float32{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}
	got := trimFrames(s, 2, 1, 2)
	if len(got) != 4 || got[0] != 1 || got[3] != 2 {
		t.Fatalf("trimFrames = %v", got)
	}
	if got := trimFrames(s, 2, 3, 2); len(got) != 0 {
		t.Fatalf("expected empty result when trim covers the asset, got %v", got)
	}
	if got := trimFrames(s, 2, 0, 0); len(got) != len(s) {
		t.Fatalf("expected no trim, got %v", got)
	}
}
