package player

import (
	"encoding/binary"
	"io"
)

// mp3DecoderDelaySamples is the fixed delay of the MP3 synthesis filter,
// added on top of the encoder delay from the LAME tag.
const mp3DecoderDelaySamples = 529

// lameWindow is how many bytes of the first frame are searched for the tag.
const lameWindow = 512

// readMP3GaplessTrim reads the LAME encoder delay and padding so loops over
// the whole file do not click on silence. Files without a LAME tag report
// no trim. The read position of f is restored.
func readMP3GaplessTrim(f io.ReadSeeker) (head, tail int64, err error) {
	saved, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_, _ = f.Seek(saved, io.SeekStart)
	}()

	prefix, err := readWindow(f, 0, 10)
	if err != nil {
		return 0, 0, err
	}
	frame, err := readWindow(f, id3Skip(prefix), lameWindow)
	if err != nil {
		return 0, 0, err
	}
	head, tail, _ = lameTrim(frame)
	return head, tail, nil
}

// readWindow reads up to n bytes at off. A short read is not an error.
func readWindow(f io.ReadSeeker, off int64, n int) ([]byte, error) {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	got, err := io.ReadFull(f, b)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return b[:got], err
}

// id3Skip returns the length of a leading ID3v2 tag, footer included.
func id3Skip(b []byte) int64 {
	if len(b) < 10 || string(b[:3]) != "ID3" {
		return 0
	}
	var size int64
	for _, c := range b[6:10] {
		size = size<<7 | int64(c&0x7f)
	}
	if b[5]&0x10 != 0 {
		size += 10
	}
	return 10 + size
}

// lameTrim parses the Xing/Info tag of a layer III frame and returns the
// samples to drop from each end. ok is false when the frame has no usable tag.
func lameTrim(frame []byte) (head, tail int64, ok bool) {
	if len(frame) < 4 {
		return 0, 0, false
	}
	h := binary.BigEndian.Uint32(frame)
	version, layer := h>>19&3, h>>17&3
	if h>>21 != 0x7ff || layer != 1 || version == 1 {
		return 0, 0, false
	}

	mpeg1, mono := version == 3, h>>6&3 == 3
	at := 4 + 17
	switch {
	case mpeg1 && !mono:
		at = 4 + 32
	case !mpeg1 && mono:
		at = 4 + 9
	}
	if h>>16&1 == 0 {
		at += 2 // CRC
	}

	if len(frame) < at+8 {
		return 0, 0, false
	}
	if id := string(frame[at : at+4]); id != "Xing" && id != "Info" {
		return 0, 0, false
	}
	flags := binary.BigEndian.Uint32(frame[at+4:])
	at += 8
	// Frame count, byte count, TOC and quality are each optional.
	for bit, n := range [...]int{4, 4, 100, 4} {
		if flags&(1<<bit) != 0 {
			at += n
		}
	}
	if len(frame) < at+24 {
		return 0, 0, false
	}

	// 12 bits of delay then 12 bits of padding.
	p := frame[at+21 : at+24]
	delay := int64(p[0])<<4 | int64(p[1]>>4)
	padding := int64(p[1]&0x0f)<<8 | int64(p[2])
	if delay == 0 && padding == 0 {
		return 0, 0, false
	}
	return delay + mp3DecoderDelaySamples, max(padding-mp3DecoderDelaySamples, 0), true
}

// trimFrames drops start frames from the front and end frames from the back
// of interleaved samples.
func trimFrames(samples []float32, channels int, start, end int64) []float32 {
	frames := int64(len(samples) / channels)
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	if start+end >= frames {
		return samples[:0]
	}
	return samples[start*int64(channels) : (frames-end)*int64(channels)]
}
