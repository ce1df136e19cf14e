package audio

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

var (
	// ErrNoClips is returned when there is nothing to concatenate.
	ErrNoClips = errors.New("no audio clips")
	// ErrInvalidClip is returned for bytes that are not a readable WAV file.
	ErrInvalidClip = errors.New("invalid WAV clip")
	// ErrFormatMismatch is returned when clips differ in rate, channels or depth.
	ErrFormatMismatch = errors.New("audio clips have different formats")
)

type format struct {
	sampleRate int
	channels   int
	bitDepth   int
}

func (f format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit", f.sampleRate, f.channels, f.bitDepth)
}

// Concat decodes each clip, joins them in order with silence between
// consecutive clips and encodes the result once. All clips must share a
// format; a single clip is re-encoded unchanged.
func Concat(clips [][]byte, silence time.Duration) ([]byte, error) {
	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	var (
		out    *goaudio.IntBuffer
		target format
	)
	for i, clip := range clips {
		buf, f, err := decode(clip)
		if err != nil {
			return nil, fmt.Errorf("clip %d: %w", i, err)
		}
		if i == 0 {
			target = f
			out = &goaudio.IntBuffer{
				Format:         &goaudio.Format{NumChannels: f.channels, SampleRate: f.sampleRate},
				SourceBitDepth: f.bitDepth,
			}
		} else {
			if f != target {
				return nil, fmt.Errorf("%w: clip %d is %s, expected %s", ErrFormatMismatch, i, f, target)
			}
			out.Data = append(out.Data, make([]int, silenceSamples(target, silence))...)
		}
		out.Data = append(out.Data, buf.Data...)
	}

	return encode(out, target)
}

func silenceSamples(f format, d time.Duration) int {
	if d <= 0 {
		return 0
	}
	frames := int(int64(f.sampleRate) * int64(d) / int64(time.Second))
	return frames * f.channels
}

func decode(clip []byte) (*goaudio.IntBuffer, format, error) {
	d := wav.NewDecoder(bytes.NewReader(clip))
	if !d.IsValidFile() {
		return nil, format{}, ErrInvalidClip
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, format{}, fmt.Errorf("%w: %v", ErrInvalidClip, err)
	}
	return buf, format{
		sampleRate: int(d.SampleRate),
		channels:   int(d.NumChans),
		bitDepth:   int(d.BitDepth),
	}, nil
}

func encode(buf *goaudio.IntBuffer, f format) ([]byte, error) {
	var ws writeSeeker
	e := wav.NewEncoder(&ws, f.sampleRate, f.bitDepth, f.channels, wavFormatPCM)
	if err := e.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode audio: %w", err)
	}
	if err := e.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize audio: %w", err)
	}
	return ws.Bytes(), nil
}
