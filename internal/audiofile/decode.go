package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2/mp3"

	"github.com/cwbudde/algo-freeze/internal/player"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	mp3ChunkFrames = 4096
)

// Extensions lists the file extensions Decode accepts.
func Extensions() []string { return []string{".wav", ".mp3"} }

// Decode reads the file at path, choosing the decoder from its extension.
func Decode(path string) (*player.Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}

	if ext == ".mp3" {
		// mp3.Decode takes ownership and closes f.
		return DecodeMP3(path, f)
	}

	defer f.Close()

	return DecodeWAV(path, f)
}

// DecodeWAV decodes integer PCM WAV data. Samples are scaled to [-1, 1).
func DecodeWAV(name string, r io.ReadSeeker) (*player.Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("audiofile: %s: %w", name, err)
		}

		return nil, fmt.Errorf("%w: %s is not a readable WAV file", ErrUnsupportedFormat, name)
	}

	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: %s uses WAV format tag %d", ErrUnsupportedFormat, name, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", name, err)
	}

	chans := buf.Format.NumChannels
	bits := buf.SourceBitDepth
	frames := len(buf.Data) / chans

	offset := 0
	if bits == 8 {
		// 8-bit WAV is unsigned.
		offset = 128
	}

	scale := 1 / float64(int64(1)<<(bits-1))

	channels := make([][]float64, chans)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range chans {
			channels[ch][i] = float64(buf.Data[i*chans+ch]-offset) * scale
		}
	}

	return player.NewSource(name, channels, float64(buf.Format.SampleRate))
}

// DecodeMP3 decodes an MP3 stream to stereo. rc is closed when decoding
// finishes.
func DecodeMP3(name string, rc io.ReadCloser) (*player.Source, error) {
	stream, format, err := mp3.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", name, err)
	}
	defer stream.Close()

	left := make([]float64, 0, max(stream.Len(), 0))
	right := make([]float64, 0, max(stream.Len(), 0))
	chunk := make([][2]float64, mp3ChunkFrames)

	for {
		n, ok := stream.Stream(chunk)
		for _, frame := range chunk[:n] {
			left = append(left, frame[0])
			right = append(right, frame[1])
		}

		if !ok {
			break
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", name, err)
	}

	channels := [][]float64{left, right}
	if format.NumChannels == 1 {
		channels = channels[:1]
	}

	return player.NewSource(name, channels, float64(format.SampleRate))
}
