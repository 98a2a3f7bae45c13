package quant

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/thesyncim/lc3/internal/spectrum"
)

// Global gain.
const (
	GainBits   = 8
	MaxGain    = 1<<GainBits - 1
	searchIter = GainBits

	// rounding offset of the dead-zone quantizer
	roundOffset = 0.375
)

var stepTable [MaxGain + 1]float32

func init() {
	for gi := range stepTable {
		stepTable[gi] = float32(math.Exp2(float64(gi)/16 - 6))
	}
}

// Step returns the quantizer step of gain index gi (1.5 dB per index).
func Step(gi int) float32 { return stepTable[min(max(gi, 0), MaxGain)] }

// Quantize maps shaped coefficients to levels with step Step(gi). It
// returns the number of coded tuples and whether any level saturated at
// spectrum.MaxMagnitude.
func Quantize(levels []int32, shaped []float32, gi int) (lastnz int, saturated bool) {
	inv := 1 / Step(gi)
	for k, x := range shaped {
		m := math32.Floor(math32.Abs(x)*inv + roundOffset)
		var l int32
		if m >= spectrum.MaxMagnitude {
			l = spectrum.MaxMagnitude
			saturated = saturated || m > spectrum.MaxMagnitude
		} else {
			l = int32(m)
		}
		if x < 0 {
			l = -l
		}
		levels[k] = l
		if l != 0 {
			lastnz = k/2 + 1
		}
	}
	return lastnz, saturated
}

// SearchGain returns the smallest gain index whose levels fit budget bits
// by the estimator without saturating. The search halves [0, MaxGain] a
// fixed number of times; levels holds scratch output.
func SearchGain(levels []int32, shaped []float32, budget int) int {
	lo, hi := 0, MaxGain
	for i := 0; i < searchIter; i++ {
		mid := (lo + hi) / 2
		if Fits(levels, shaped, mid, budget) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Fits reports whether gain index gi yields levels within budget bits.
func Fits(levels []int32, shaped []float32, gi, budget int) bool {
	lastnz, sat := Quantize(levels, shaped, gi)
	return !sat && spectrum.EstimateBits(levels, lastnz) <= budget
}

// Dequantize writes levels * Step(gi) to coeffs.
func Dequantize(coeffs []float32, levels []int32, gi int) {
	st := Step(gi)
	for k, l := range levels {
		coeffs[k] = float32(l) * st
	}
}
