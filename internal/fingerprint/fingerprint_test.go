package fingerprint

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Length(t *testing.T) {
	fp := Fingerprint{
		Peaks: []Peak{
			{Frequency: 440, Time: 1, Magnitude: 2},
			{Frequency: 8000, Time: 3, Magnitude: 5},
		},
		Metadata: Metadata{Duration: 4},
	}

	for _, d := range []int{33, 40, 128, 1024} {
		emb := Project(fp, d)
		assert.Len(t, emb, d)
	}
}

func TestProject_EmptyPeaksIsZeroVector(t *testing.T) {
	fp := Fingerprint{Peaks: nil, Metadata: Metadata{Duration: 5}}

	emb := Project(fp, 33)

	require.Len(t, emb, 33)
	for i, v := range emb {
		assert.Equalf(t, 0.0, v, "component %d should be zero", i)
	}
}

func TestProject_SinglePeakExactBins(t *testing.T) {
	fp := Fingerprint{
		Peaks: []Peak{
			{Frequency: 10000, Time: 2.5, Magnitude: 4.0},
		},
		Metadata: Metadata{Duration: 5},
	}

	emb := Project(fp, 35)
	require.Len(t, emb, 35)

	for i := 0; i < FrequencyBins; i++ {
		want := 0.0
		if i == 10 {
			want = 1.0
		}
		assert.Equalf(t, want, emb[i], "freq bin %d", i)
	}

	for i := 0; i < TimeBins; i++ {
		want := 0.0
		if i == 5 {
			want = 1.0
		}
		assert.Equalf(t, want, emb[FrequencyBins+i], "time bin %d", i)
	}

	assert.Equal(t, []float64{4, 4, 4}, []float64(emb[30:33]))
	assert.Equal(t, []float64{0, 0}, []float64(emb[33:35]))
}

func TestProject_NonEmptyPeaksHistogramsPeakAtOne(t *testing.T) {
	fp := Fingerprint{
		Peaks: []Peak{
			{Frequency: 100, Time: 0.1, Magnitude: 1},
			{Frequency: 19500, Time: 4.9, Magnitude: 3},
		},
		Metadata: Metadata{Duration: 5},
	}

	emb := Project(fp, 33)

	freqMax := 0.0
	for _, v := range emb[0:FrequencyBins] {
		if v > freqMax {
			freqMax = v
		}
	}
	assert.Equal(t, 1.0, freqMax)

	timeMax := 0.0
	for _, v := range emb[FrequencyBins : FrequencyBins+TimeBins] {
		if v > timeMax {
			timeMax = v
		}
	}
	assert.Equal(t, 1.0, timeMax)
}

func TestProject_MissingOrNonPositiveDurationDefaultsToOne(t *testing.T) {
	peaks := []Peak{{Frequency: 1000, Time: 0.5, Magnitude: 1}}

	withZero := Project(Fingerprint{Peaks: peaks, Metadata: Metadata{Duration: 0}}, 33)
	withDefault := Project(Fingerprint{Peaks: peaks, Metadata: Metadata{Duration: 1}}, 33)

	assert.Equal(t, withDefault, withZero)
}

func TestProject_OrderIndependence(t *testing.T) {
	peaks := []Peak{
		{Frequency: 100, Time: 0.1, Magnitude: 1},
		{Frequency: 5000, Time: 2.0, Magnitude: 7},
		{Frequency: 19000, Time: 4.5, Magnitude: 2.5},
		{Frequency: 300, Time: 1.2, Magnitude: 9},
	}
	fp := Fingerprint{Peaks: peaks, Metadata: Metadata{Duration: 5}}
	base := Project(fp, 33)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]Peak(nil), peaks...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := Project(Fingerprint{Peaks: shuffled, Metadata: fp.Metadata}, 33)
		assert.Equal(t, base, got)
	}
}

func TestProject_TruncatesShortD(t *testing.T) {
	fp := Fingerprint{
		Peaks:    []Peak{{Frequency: 1000, Time: 1, Magnitude: 1}},
		Metadata: Metadata{Duration: 2},
	}

	emb := Project(fp, 5)
	assert.Len(t, emb, 5)
}

func TestProject_ZeroDimension(t *testing.T) {
	emb := Project(Fingerprint{}, 0)
	assert.Empty(t, emb)
}
