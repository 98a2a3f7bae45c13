// Package tables holds the immutable configuration tables of the codec:
// supported frame durations and sample rates, frame sample counts, frame
// byte limits and the spectral band layout.
package tables

import "sort"

// Frame durations in microseconds.
const (
	Duration2500us  = 2500
	Duration5000us  = 5000
	Duration7500us  = 7500
	Duration10000us = 10000
)

// Frame byte limits per channel.
const (
	MinFrameBytes   = 20
	MaxFrameBytes   = 400
	MaxHRFrameBytes = 625

	// minHRBitrate is the lowest bitrate accepted in high-resolution mode.
	minHRBitrate = 124000
)

// NumBands is the number of scale-factor bands of the spectral envelope.
const NumBands = 16

// Config identifies one tabulated (mode, duration, rate) combination.
type Config struct {
	HighResolution bool
	DurationUs     int
	SampleRate     int
	FrameSamples   int
}

var (
	durations   = []int{Duration2500us, Duration5000us, Duration7500us, Duration10000us}
	hrDurations = []int{Duration2500us, Duration5000us, Duration10000us}
	rates       = []int{8000, 16000, 24000, 32000, 48000}
	hrRates     = []int{48000, 96000}

	configs = buildConfigs()
)

func buildConfigs() []Config {
	var out []Config
	for _, dt := range durations {
		for _, sr := range rates {
			out = append(out, Config{DurationUs: dt, SampleRate: sr, FrameSamples: sr / 1000 * dt / 1000})
		}
	}
	for _, dt := range hrDurations {
		for _, sr := range hrRates {
			out = append(out, Config{HighResolution: true, DurationUs: dt, SampleRate: sr, FrameSamples: sr / 1000 * dt / 1000})
		}
	}
	return out
}

// Configs returns every supported combination. The returned slice is a copy.
func Configs() []Config {
	return append([]Config(nil), configs...)
}

// Lookup returns the tabulated entry for the given combination.
func Lookup(hr bool, durationUs, sampleRate int) (Config, bool) {
	for _, c := range configs {
		if c.HighResolution == hr && c.DurationUs == durationUs && c.SampleRate == sampleRate {
			return c, true
		}
	}
	return Config{}, false
}

// ValidDuration reports whether durationUs is a frame duration of the mode.
func ValidDuration(hr bool, durationUs int) bool {
	if hr {
		return contains(hrDurations, durationUs)
	}
	return contains(durations, durationUs)
}

// ValidRate reports whether sampleRate is a sample rate of the mode.
func ValidRate(hr bool, sampleRate int) bool {
	if hr {
		return contains(hrRates, sampleRate)
	}
	return contains(rates, sampleRate)
}

// Rates returns the sample rates of the mode in ascending order.
func Rates(hr bool) []int {
	if hr {
		return append([]int(nil), hrRates...)
	}
	return append([]int(nil), rates...)
}

// Durations returns the frame durations of the mode in ascending order.
func Durations(hr bool) []int {
	if hr {
		return append([]int(nil), hrDurations...)
	}
	return append([]int(nil), durations...)
}

func contains(list []int, v int) bool {
	i := sort.SearchInts(list, v)
	return i < len(list) && list[i] == v
}

// FrameBytesLimits returns the inclusive byte range of one channel frame.
func FrameBytesLimits(hr bool, durationUs int) (lo, hi int) {
	if hr {
		return minHRBitrate * durationUs / 8000000, MaxHRFrameBytes
	}
	return MinFrameBytes, MaxFrameBytes
}

// FrameBytes converts a bitrate into a per-channel frame size, clamped to
// the limits of the mode.
func FrameBytes(hr bool, durationUs, bitrate int) int {
	lo, hi := FrameBytesLimits(hr, durationUs)
	n := int(int64(bitrate) * int64(durationUs) / 8000000)
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Bitrate returns the smallest bitrate that FrameBytes maps to nbytes.
func Bitrate(durationUs, nbytes int) int {
	if durationUs <= 0 {
		return 0
	}
	d := int64(durationUs)
	return int((int64(nbytes)*8000000 + d - 1) / d)
}

// bandQ10 is the upper edge of each band as a fraction of the spectrum in
// Q10. Bands widen towards high frequencies.
var bandQ10 = [NumBands + 1]int{
	0, 16, 45, 83, 128, 179, 235, 296, 362, 432, 506, 584, 665, 750, 838, 930, 1024,
}

// BandEdges returns the NumBands+1 band boundaries for a spectrum of n
// coefficients. Every band holds at least one coefficient.
func BandEdges(n int) []int {
	e := make([]int, NumBands+1)
	for b := 1; b < NumBands; b++ {
		v := (n*bandQ10[b] + 512) >> 10
		if v < e[b-1]+1 {
			v = e[b-1] + 1
		}
		e[b] = v
	}
	e[NumBands] = n
	return e
}
