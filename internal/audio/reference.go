package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/Vishal4742/sonica/internal/fingerprint"
	wavpkg "github.com/go-audio/wav"
)

// ReferenceConfig tunes the reference decoder's spectrogram and
// peak-picking behaviour.
type ReferenceConfig struct {
	FFTSize      int // window size in samples (default 1024)
	HopSize      int // hop between windows in samples (default 512)
	FreqBands    int // number of frequency bands peaks are picked from (default 6)
	PeaksPerBand int // max peaks kept per band per frame (default 3)
}

// DefaultReferenceConfig returns sensible defaults for short speech/music
// clips at typical sample rates.
func DefaultReferenceConfig() ReferenceConfig {
	return ReferenceConfig{FFTSize: 1024, HopSize: 512, FreqBands: 6, PeaksPerBand: 3}
}

// ReferenceDecoder is a development/test-only Decoder: it reads PCM
// samples out of a WAV container, builds a Hann-windowed FFT spectrogram,
// and picks local-maxima peaks per frequency band per frame, converting
// bin/frame indices to real Hz/seconds using the file's own sample rate.
// It is explicitly NOT meant to be the production decoder — no MP3/AAC
// support, no noise floor tuning, no cross-codec robustness.
type ReferenceDecoder struct {
	cfg ReferenceConfig
}

// NewReferenceDecoder constructs a ReferenceDecoder with the given config.
func NewReferenceDecoder(cfg ReferenceConfig) *ReferenceDecoder {
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = DefaultReferenceConfig().FFTSize
	}
	if cfg.HopSize <= 0 {
		cfg.HopSize = DefaultReferenceConfig().HopSize
	}
	if cfg.FreqBands <= 0 {
		cfg.FreqBands = DefaultReferenceConfig().FreqBands
	}
	if cfg.PeaksPerBand <= 0 {
		cfg.PeaksPerBand = DefaultReferenceConfig().PeaksPerBand
	}
	return &ReferenceDecoder{cfg: cfg}
}

// GenerateFingerprint implements Decoder for WAV-encoded audioBytes.
func (d *ReferenceDecoder) GenerateFingerprint(ctx context.Context, audioBytes []byte) (*fingerprint.Fingerprint, error) {
	samples, sampleRate, err := decodeWAV(audioBytes)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if len(samples) < d.cfg.FFTSize {
		return nil, fmt.Errorf("audio too short for fingerprinting (need at least %d samples, got %d)", d.cfg.FFTSize, len(samples))
	}

	spectrogram := d.computeSpectrogram(samples)
	peaks := d.findPeaks(spectrogram, sampleRate)

	duration := float64(len(samples)) / float64(sampleRate)

	return &fingerprint.Fingerprint{
		Peaks:    peaks,
		Metadata: fingerprint.Metadata{Duration: duration},
	}, nil
}

func decodeWAV(audioBytes []byte) ([]float64, int, error) {
	dec := wavpkg.NewDecoder(bytes.NewReader(audioBytes))
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read PCM buffer: %w", err)
	}

	samples := make([]float64, len(buf.Data))
	maxVal := float64(int(1) << (buf.SourceBitDepth - 1))
	for i, s := range buf.Data {
		samples[i] = float64(s) / maxVal
	}

	return samples, buf.Format.SampleRate, nil
}

func (d *ReferenceDecoder) computeSpectrogram(samples []float64) [][]float64 {
	numFrames := (len(samples)-d.cfg.FFTSize)/d.cfg.HopSize + 1
	if numFrames <= 0 {
		numFrames = 1
	}

	window := hannWindow(d.cfg.FFTSize)
	spectrogram := make([][]float64, 0, numFrames)

	for frame := 0; frame < numFrames; frame++ {
		start := frame * d.cfg.HopSize
		end := start + d.cfg.FFTSize
		if end > len(samples) {
			break
		}

		windowed := make([]complex128, d.cfg.FFTSize)
		for i := 0; i < d.cfg.FFTSize; i++ {
			windowed[i] = complex(samples[start+i]*window[i], 0)
		}

		spectrum := fft(windowed)
		numBins := d.cfg.FFTSize / 2
		magnitudes := make([]float64, numBins)
		for i := 0; i < numBins; i++ {
			magnitudes[i] = cmplx.Abs(spectrum[i])
		}
		spectrogram = append(spectrogram, magnitudes)
	}

	return spectrogram
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

// fft computes the Cooley-Tukey FFT, zero-padding to the next power of
// two when needed.
func fft(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		return x
	}

	if n&(n-1) != 0 {
		next := 1
		for next < n {
			next <<= 1
		}
		padded := make([]complex128, next)
		copy(padded, x)
		x = padded
		n = next
	}

	result := make([]complex128, n)
	bits := int(math.Log2(float64(n)))
	for i := 0; i < n; i++ {
		result[reverseBits(i, bits)] = x[i]
	}

	for s := 1; s <= bits; s++ {
		m := 1 << s
		wm := cmplx.Exp(complex(0, -2*math.Pi/float64(m)))
		for k := 0; k < n; k += m {
			w := complex(1.0, 0.0)
			for j := 0; j < m/2; j++ {
				t := w * result[k+j+m/2]
				u := result[k+j]
				result[k+j] = u + t
				result[k+j+m/2] = u - t
				w *= wm
			}
		}
	}

	return result
}

func reverseBits(num, bits int) int {
	result := 0
	for i := 0; i < bits; i++ {
		result = (result << 1) | (num & 1)
		num >>= 1
	}
	return result
}

// findPeaks picks local-maxima magnitudes per frequency band per frame
// and converts bin/frame indices to Hz/seconds.
func (d *ReferenceDecoder) findPeaks(spectrogram [][]float64, sampleRate int) []fingerprint.Peak {
	if len(spectrogram) == 0 {
		return nil
	}

	numBins := len(spectrogram[0])
	bandSize := numBins / d.cfg.FreqBands
	if bandSize < 1 {
		bandSize = 1
	}

	hopDuration := float64(d.cfg.HopSize) / float64(sampleRate)
	binHz := float64(sampleRate) / float64(d.cfg.FFTSize)

	var peaks []fingerprint.Peak
	for frameIdx, magnitudes := range spectrogram {
		for band := 0; band < d.cfg.FreqBands; band++ {
			start := band * bandSize
			end := start + bandSize
			if end > numBins {
				end = numBins
			}
			peaks = append(peaks, d.bandPeaks(magnitudes, start, end, frameIdx, hopDuration, binHz)...)
		}
	}

	return peaks
}

func (d *ReferenceDecoder) bandPeaks(magnitudes []float64, start, end, frameIdx int, hopDuration, binHz float64) []fingerprint.Peak {
	type candidate struct {
		bin int
		mag float64
	}
	var candidates []candidate

	for bin := start + 1; bin < end-1; bin++ {
		if magnitudes[bin] > magnitudes[bin-1] && magnitudes[bin] > magnitudes[bin+1] {
			candidates = append(candidates, candidate{bin: bin, mag: magnitudes[bin]})
		}
	}

	// Selection sort for the top PeaksPerBand — band windows are tiny
	// (numBins/FreqBands), so this never outgrows a full sort's benefit.
	limit := d.cfg.PeaksPerBand
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for i := 0; i < limit; i++ {
		maxIdx := i
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].mag > candidates[maxIdx].mag {
				maxIdx = j
			}
		}
		candidates[i], candidates[maxIdx] = candidates[maxIdx], candidates[i]
	}

	peaks := make([]fingerprint.Peak, limit)
	for i := 0; i < limit; i++ {
		peaks[i] = fingerprint.Peak{
			Frequency: float64(candidates[i].bin) * binHz,
			Time:      float64(frameIdx) * hopDuration,
			Magnitude: candidates[i].mag,
		}
	}
	return peaks
}
