package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMonoWAV hand-assembles a minimal 16-bit PCM mono WAV container
// carrying a pure sine tone, avoiding a dependency on any particular
// encoder API for this test's input fixture.
func buildMonoWAV(t *testing.T, sampleRate int, freqHz float64, seconds float64) []byte {
	t.Helper()

	numSamples := int(float64(sampleRate) * seconds)
	data := make([]byte, numSamples*2)
	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(sampleRate)
		sample := int16(0.8 * math.MaxInt16 * math.Sin(2*math.Pi*freqHz*t))
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}

	var buf bytes.Buffer
	dataSize := len(data)
	riffSize := 36 + dataSize

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(riffSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // audio format: PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // num channels
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * 1 * 16 / 8
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	blockAlign := 1 * 16 / 8
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(data)

	return buf.Bytes()
}

func TestReferenceDecoder_ProducesPeaksAndDuration(t *testing.T) {
	wavBytes := buildMonoWAV(t, 8000, 1000, 1.0)

	dec := NewReferenceDecoder(DefaultReferenceConfig())
	fp, err := dec.GenerateFingerprint(context.Background(), wavBytes)

	require.NoError(t, err)
	require.NotNil(t, fp)
	assert.NotEmpty(t, fp.Peaks)
	assert.InDelta(t, 1.0, fp.Metadata.Duration, 0.05)
}

func TestReferenceDecoder_TooShortIsAnError(t *testing.T) {
	wavBytes := buildMonoWAV(t, 8000, 1000, 0.01)

	dec := NewReferenceDecoder(DefaultReferenceConfig())
	_, err := dec.GenerateFingerprint(context.Background(), wavBytes)

	assert.Error(t, err)
}
