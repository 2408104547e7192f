package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/olivier-w/wavloop/internal/pcm"
)

// ProgressFunc receives decode progress in [0, 1]. It may be nil.
type ProgressFunc func(float64)

func (f ProgressFunc) report(done, total int64) {
	if f == nil || total <= 0 {
		return
	}
	v := float64(done) / float64(total)
	if v > 1 {
		v = 1
	}
	f(v)
}

// decodeFunc decodes a whole stream into interleaved float samples.
type decodeFunc func(r io.ReadSeeker, progress ProgressFunc) (pcm.Buffer, error)

// decoderFor picks a decoder by file extension.
func decoderFor(ext string) (decodeFunc, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return decodeMP3, nil
	case ".wav":
		return decodeWAV, nil
	case ".flac":
		return decodeFLAC, nil
	case ".ogg":
		return decodeOGG, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// countingReader wraps an io.Reader and reports bytes read.
type countingReader struct {
	reader   io.Reader
	pos      int64
	total    int64
	progress ProgressFunc
	mu       sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	pos := cr.pos
	cr.mu.Unlock()
	cr.progress.report(pos, cr.total)
	return n, err
}

// --- MP3 ---

func decodeMP3(r io.ReadSeeker, progress ProgressFunc) (pcm.Buffer, error) {
	start, end, err := readMP3GaplessTrim(r)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("reading MP3 gapless info: %w", err)
	}

	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("decoding MP3: %w", err)
	}

	// go-mp3 always yields 16-bit little-endian stereo.
	raw, err := io.ReadAll(&countingReader{reader: dec, total: dec.Length(), progress: progress})
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("decoding MP3: %w", err)
	}
	return pcm.Buffer{
		Samples:    trimFrames(s16leToFloat(raw), 2, start, end),
		Channels:   2,
		SampleRate: dec.SampleRate(),
	}, nil
}

func s16leToFloat(raw []byte) []float32 {
	out := make([]float32, len(raw)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768
	}
	return out
}

// --- WAV ---

const wavChunkFrames = 4096

func decodeWAV(r io.ReadSeeker, progress ProgressFunc) (pcm.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm.Buffer{}, ErrInvalidWAV
	}
	if dec.WavAudioFormat != 1 {
		return pcm.Buffer{}, fmt.Errorf("%w: WAV encoding %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return pcm.Buffer{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels < 1 || bitDepth < 8 {
		return pcm.Buffer{}, ErrInvalidWAV
	}
	totalSamples := dec.PCMLen() / int64(bitDepth/8)
	scale := float32(int64(1) << (bitDepth - 1))

	chunk := &audio.IntBuffer{
		Format:         dec.Format(),
		Data:           make([]int, wavChunkFrames*channels),
		SourceBitDepth: bitDepth,
	}
	samples := make([]float32, 0, totalSamples)
	for {
		n, err := dec.PCMBuffer(chunk)
		for _, v := range chunk.Data[:n] {
			if bitDepth == 8 {
				// 8-bit WAV is unsigned
				v -= 128
			}
			samples = append(samples, float32(v)/scale)
		}
		progress.report(int64(len(samples)), totalSamples)
		if err != nil && err != io.EOF {
			return pcm.Buffer{}, fmt.Errorf("reading WAV PCM data: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return pcm.Buffer{
		Samples:    samples,
		Channels:   channels,
		SampleRate: int(dec.SampleRate),
	}, nil
}

// --- FLAC ---

func decodeFLAC(r io.ReadSeeker, progress ProgressFunc) (pcm.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	totalFrames := int64(info.NSamples)
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	samples := make([]float32, 0, totalFrames*int64(channels))
	var done int64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm.Buffer{}, fmt.Errorf("decoding FLAC: %w", err)
		}

		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
		done += int64(n)
		progress.report(done, totalFrames)
	}

	return pcm.Buffer{
		Samples:    samples,
		Channels:   channels,
		SampleRate: int(info.SampleRate),
	}, nil
}

// --- OGG Vorbis ---

func decodeOGG(r io.ReadSeeker, progress ProgressFunc) (pcm.Buffer, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	total := reader.Length() * int64(channels)
	samples := make([]float32, 0, max(total, 0))
	chunk := make([]float32, 8192)
	for {
		n, err := reader.Read(chunk)
		samples = append(samples, chunk[:n]...)
		progress.report(int64(len(samples)), total)
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm.Buffer{}, fmt.Errorf("decoding OGG: %w", err)
		}
	}

	return pcm.Buffer{
		Samples:    samples,
		Channels:   channels,
		SampleRate: reader.SampleRate(),
	}, nil
}
