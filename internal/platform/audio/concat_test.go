package audio

import (
	"bytes"
	"io"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeClip(t *testing.T, sampleRate, channels int, samples ...int) []byte {
	t.Helper()
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	out, err := encode(buf, format{sampleRate: sampleRate, channels: channels, bitDepth: 16})
	require.NoError(t, err)
	return out
}

func decodeAll(t *testing.T, clip []byte) (*goaudio.IntBuffer, *wav.Decoder) {
	t.Helper()
	d := wav.NewDecoder(bytes.NewReader(clip))
	require.True(t, d.IsValidFile())
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)
	return buf, d
}

func TestConcat_InsertsSilenceBetweenClips(t *testing.T) {
	t.Parallel()

	a := makeClip(t, 1000, 1, 100, 200, 300)
	b := makeClip(t, 1000, 1, -5, -6)

	joined, err := Concat([][]byte{a, b}, 4*time.Millisecond)
	require.NoError(t, err)

	buf, d := decodeAll(t, joined)
	assert.EqualValues(t, 1000, d.SampleRate)
	assert.EqualValues(t, 1, d.NumChans)
	assert.EqualValues(t, 16, d.BitDepth)
	assert.Equal(t, []int{100, 200, 300, 0, 0, 0, 0, -5, -6}, buf.Data)
}

func TestConcat_StereoSilenceCoversAllChannels(t *testing.T) {
	t.Parallel()

	a := makeClip(t, 1000, 2, 1, 2)
	b := makeClip(t, 1000, 2, 3, 4)

	joined, err := Concat([][]byte{a, b}, 2*time.Millisecond)
	require.NoError(t, err)

	buf, _ := decodeAll(t, joined)
	assert.Equal(t, []int{1, 2, 0, 0, 0, 0, 3, 4}, buf.Data)
}

func TestConcat_SingleClip(t *testing.T) {
	t.Parallel()

	a := makeClip(t, 8000, 1, 7, 8, 9)
	joined, err := Concat([][]byte{a}, time.Second)
	require.NoError(t, err)

	buf, _ := decodeAll(t, joined)
	assert.Equal(t, []int{7, 8, 9}, buf.Data)
}

func TestConcat_Errors(t *testing.T) {
	t.Parallel()

	_, err := Concat(nil, time.Second)
	assert.ErrorIs(t, err, ErrNoClips)

	_, err = Concat([][]byte{[]byte("ID3 not a wav")}, time.Second)
	assert.ErrorIs(t, err, ErrInvalidClip)

	_, err = Concat([][]byte{makeClip(t, 8000, 1, 1), makeClip(t, 16000, 1, 1)}, time.Second)
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestWriteSeeker(t *testing.T) {
	t.Parallel()

	var ws writeSeeker
	_, _ = ws.Write([]byte("abcdef"))
	pos, err := ws.Seek(1, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pos)
	_, _ = ws.Write([]byte("XY"))
	_, _ = ws.Seek(0, io.SeekEnd)
	_, _ = ws.Write([]byte("!"))
	assert.Equal(t, "aXYdef!", string(ws.Bytes()))

	_, err = ws.Seek(-100, io.SeekCurrent)
	assert.Error(t, err)
}
