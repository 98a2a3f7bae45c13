// Package testsignal generates deterministic synthetic PCM for tests and
// benchmarks. Samples are interleaved float32 at nominal full scale 1.0.
package testsignal

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// Signal kinds.
const (
	Silence      = "silence"
	Sine         = "sine"
	Noise        = "noise"
	AMMultisine  = "am_multisine"
	ChirpSweep   = "chirp_sweep"
	ImpulseTrain = "impulse_train"
	SpeechLike   = "speech_like"
)

var kinds = []string{Silence, Sine, Noise, AMMultisine, ChirpSweep, ImpulseTrain, SpeechLike}

// Kinds returns the names accepted by Generate.
func Kinds() []string {
	out := make([]string, len(kinds))
	copy(out, kinds)
	return out
}

// Generate returns samples interleaved samples of the named signal.
func Generate(kind string, sampleRate, samples, channels int) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("invalid sample count: %d", samples)
	}
	if samples%channels != 0 {
		return nil, fmt.Errorf("sample count %d must be divisible by channels %d", samples, channels)
	}

	switch kind {
	case Silence:
		return make([]float32, samples), nil
	case Sine:
		return SineWave(sampleRate, samples, channels, 997, 0.5), nil
	case Noise:
		return generateNoise(samples, channels, 0.1), nil
	case AMMultisine:
		return generateAMMultisine(sampleRate, samples, channels), nil
	case ChirpSweep:
		return generateChirpSweep(sampleRate, samples, channels), nil
	case ImpulseTrain:
		return generateImpulseTrain(sampleRate, samples, channels), nil
	case SpeechLike:
		return generateSpeechLike(sampleRate, samples, channels), nil
	default:
		return nil, fmt.Errorf("unknown signal kind %q", kind)
	}
}

// HashFloat32LE returns the SHA-256 of samples in little-endian IEEE form.
func HashFloat32LE(samples []float32) string {
	h := sha256.New()
	var b [4]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(s))
		_, _ = h.Write(b[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SineWave returns a sine of freq Hz and peak amp. Channel c is phase
// shifted by c quarter periods.
func SineWave(sampleRate, samples, channels int, freq, amp float64) []float32 {
	signal := make([]float32, samples)
	for i := range signal {
		ch := i % channels
		n := i / channels
		phase := 2*math.Pi*freq*float64(n)/float64(sampleRate) + math.Pi/2*float64(ch)
		signal[i] = float32(amp * math.Sin(phase))
	}
	return signal
}

// generateNoise returns white noise with standard deviation sigma.
func generateNoise(samples, channels int, sigma float64) []float32 {
	signal := make([]float32, samples)
	for i := range signal {
		// Sum of four uniforms approximates a Gaussian.
		var v float64
		for j := 0; j < 4; j++ {
			v += deterministicNoise(i/channels, i%channels, 31+j)
		}
		signal[i] = float32(clipSample(sigma * v * math.Sqrt(3.0/4.0)))
	}
	return signal
}

func generateAMMultisine(sampleRate, samples, channels int) []float32 {
	signal := make([]float32, samples)
	freqs := []float64{440, 1000, 2000}
	amp := 0.3
	modFreqs := []float64{1.3, 2.7, 0.9}
	onsetSamples := int(0.010 * float64(sampleRate))
	for i := 0; i < samples; i++ {
		ch := i % channels
		sampleIdx := i / channels
		t := float64(sampleIdx) / float64(sampleRate)
		var val float64
		for fi, freq := range freqs {
			f := freq * (1 + 0.01*float64(ch))
			modDepth := 0.5 + 0.5*math.Sin(2*math.Pi*modFreqs[fi]*t)
			val += amp * modDepth * math.Sin(2*math.Pi*f*t)
		}
		if sampleIdx < onsetSamples {
			frac := float64(sampleIdx) / float64(onsetSamples)
			val *= frac * frac * frac
		}
		signal[i] = float32(clipSample(val))
	}
	return signal
}

func generateChirpSweep(sampleRate, samples, channels int) []float32 {
	signal := make([]float32, samples)
	duration := float64(samples/channels) / float64(sampleRate)
	f0 := 60.0
	f1 := min(12000.0, 0.45*float64(sampleRate))
	k := math.Log(f1/f0) / duration
	for i := 0; i < samples; i++ {
		ch := i % channels
		sampleIdx := i / channels
		t := float64(sampleIdx) / float64(sampleRate)
		channelScale := 1.0 + 0.006*float64(ch)
		phase := 2 * math.Pi * f0 * (math.Exp(k*t) - 1) / k
		env := 0.2 + 0.8*(0.5+0.5*math.Sin(2*math.Pi*0.41*t+0.3*float64(ch)))
		val := 0.85 * env * math.Sin(channelScale*phase)
		if sampleIdx < int(0.005*float64(sampleRate)) {
			val *= float64(sampleIdx) / (0.005 * float64(sampleRate))
		}
		signal[i] = float32(clipSample(val))
	}
	return signal
}

func generateImpulseTrain(sampleRate, samples, channels int) []float32 {
	signal := make([]float32, samples)
	period := max(int(0.035*float64(sampleRate)), 4)
	ringLen := int(0.015 * float64(sampleRate))
	decayT := 0.0035 * float64(sampleRate)
	for i := 0; i < samples; i++ {
		ch := i % channels
		sampleIdx := i / channels
		t := float64(sampleIdx) / float64(sampleRate)
		pos := sampleIdx % period
		val := 0.0
		if pos == 0 {
			val = 0.92
		}
		if pos < ringLen {
			ring := math.Exp(-float64(pos)/decayT) * math.Sin(2*math.Pi*(540+80*float64(ch))*float64(pos)/float64(sampleRate))
			val += 0.75 * ring
		}
		val += 0.02 * deterministicNoise(sampleIdx, ch, 17)
		env := 0.6 + 0.4*math.Sin(2*math.Pi*0.19*t+0.4*float64(ch))
		signal[i] = float32(clipSample(val * env))
	}
	return signal
}

func generateSpeechLike(sampleRate, samples, channels int) []float32 {
	signal := make([]float32, samples)
	phase := make([]float64, channels)
	prevNoise := make([]float64, channels)
	hiss := min(3200.0, 0.4*float64(sampleRate))
	for i := 0; i < samples; i++ {
		ch := i % channels
		sampleIdx := i / channels
		t := float64(sampleIdx) / float64(sampleRate)

		pitchHz := 95.0 + 28.0*math.Sin(2*math.Pi*0.63*t) + 16.0*math.Sin(2*math.Pi*0.17*t)
		pitchHz *= 1.0 + 0.01*float64(ch)
		phase[ch] += 2 * math.Pi * pitchHz / float64(sampleRate)
		if phase[ch] > 2*math.Pi {
			phase[ch] -= 2 * math.Pi
		}
		voiced := math.Sin(phase[ch]) + 0.35*math.Sin(2*phase[ch]) + 0.2*math.Sin(3*phase[ch])

		voicing := 0.5 + 0.5*math.Sin(2*math.Pi*0.78*t+0.25)
		syllable := 0.25 + 0.75*math.Pow(0.5+0.5*math.Sin(2*math.Pi*3.2*t), 2)

		noise := deterministicNoise(sampleIdx, ch, 71)
		high := noise - 0.86*prevNoise[ch]
		prevNoise[ch] = noise
		mix := voicing*voiced + (1.0-voicing)*(0.38*high+0.22*math.Sin(2*math.Pi*hiss*t))

		signal[i] = float32(clipSample(0.82 * syllable * mix))
	}
	return signal
}

// deterministicNoise returns a uniform value in [-1, 1] from an xorshift
// of the sample position.
func deterministicNoise(sampleIdx, channel, salt int) float64 {
	x := uint32(sampleIdx*1664525 + channel*1013904223 + salt*2246822519)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return float64(int32(x)) / 2147483647.0
}

func clipSample(v float64) float64 {
	return min(max(v, -0.98), 0.98)
}

// SNR returns the signal-to-noise ratio in dB of got against want,
// comparing got[i+delay] with want[i] from sample skip on.
func SNR(want, got []float32, delay, skip int) float64 {
	var sig, noise float64
	for i := skip; i+delay < len(got) && i < len(want); i++ {
		d := float64(got[i+delay]) - float64(want[i])
		sig += float64(want[i]) * float64(want[i])
		noise += d * d
	}
	if noise == 0 {
		return math.Inf(1)
	}
	if sig == 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(sig/noise)
}
