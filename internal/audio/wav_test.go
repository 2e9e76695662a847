package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a mono 16-bit WAV file with the given samples.
func writeWAV(t *testing.T, path string, sampleRate int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestDecodeWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 16000, []int{0, 16384, -16384, 32767})

	samples, rate, err := DecodeWAVFile(path)
	require.NoError(t, err)

	assert.Equal(t, 16000, rate)
	require.Len(t, samples, 4)
	assert.InDelta(t, 0.0, samples[0], 1e-6)
	assert.InDelta(t, 0.5, samples[1], 1e-4)
	assert.InDelta(t, -0.5, samples[2], 1e-4)
	assert.InDelta(t, 1.0, samples[3], 1e-3)
}

func TestDecodeWAVFileMissing(t *testing.T) {
	_, _, err := DecodeWAVFile(filepath.Join(t.TempDir(), "nope.wav"))
	require.Error(t, err)
}

func TestDecodeWAVFileNotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o644))

	_, _, err := DecodeWAVFile(path)
	require.Error(t, err)
}

func TestResampleLinear(t *testing.T) {
	t.Run("same rate copies", func(t *testing.T) {
		in := []float32{0.1, 0.2, 0.3}
		out := ResampleLinear(in, 16000, 16000)
		assert.Equal(t, in, out)
		out[0] = 9 // must not alias the input
		assert.InDelta(t, 0.1, in[0], 1e-6)
	})

	t.Run("downsample halves length", func(t *testing.T) {
		in := make([]float32, 800)
		for i := range in {
			in[i] = float32(math.Sin(float64(i) / 10))
		}
		out := ResampleLinear(in, 32000, 16000)
		assert.Len(t, out, 400)
	})

	t.Run("upsample doubles length", func(t *testing.T) {
		in := []float32{0, 1, 0, -1}
		out := ResampleLinear(in, 8000, 16000)
		assert.Len(t, out, 8)
		// interpolated midpoint between 0 and 1
		assert.InDelta(t, 0.5, out[1], 1e-6)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ResampleLinear(nil, 8000, 16000))
	})
}
