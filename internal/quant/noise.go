package quant

import "github.com/chewxy/math32"

// NoiseBits is the size of the coded noise level.
const NoiseBits = 3

const maxNoise = 1<<NoiseBits - 1

// noiseStart returns the first line eligible for noise filling.
func noiseStart(n int) int { return n / 16 }

// isolated reports whether levels[k-2..k+2] are all zero.
func isolated(levels []int32, k int) bool {
	lo, hi := max(k-2, 0), min(k+3, len(levels))
	for j := lo; j < hi; j++ {
		if levels[j] != 0 {
			return false
		}
	}
	return true
}

// NoiseLevel measures the mean magnitude, in steps, of the shaped lines
// that quantized to zero inside the coded range, and codes it in 3 bits.
// Level 0 is the loudest fill.
func NoiseLevel(shaped []float32, levels []int32, gi, lastnz int) int {
	inv := 1 / Step(gi)
	end := min(2*lastnz, len(levels))
	var acc float32
	cnt := 0
	for k := noiseStart(len(levels)); k < end; k++ {
		if isolated(levels, k) {
			acc += math32.Abs(shaped[k]) * inv
			cnt++
		}
	}
	if cnt == 0 {
		return maxNoise
	}
	v := int(math32.Floor(8 - 16*acc/float32(cnt) + 0.5))
	return min(max(v, 0), maxNoise)
}

// NoiseFill writes pseudo-random +-(8-nf)/16 * Step(gi) into the lines of
// coeffs that NoiseLevel measured. The sign sequence is seeded from the
// levels, so encoder and decoder agree without side information.
func NoiseFill(coeffs []float32, levels []int32, gi, nf, lastnz int) {
	nf = min(max(nf, 0), maxNoise)
	amp := float32(8-nf) / 16 * Step(gi)
	end := min(2*lastnz, len(levels))
	var seed uint32
	for k, l := range levels {
		if l < 0 {
			l = -l
		}
		seed += uint32(l) * uint32(k)
	}
	seed &= 0xFFFF
	for k := noiseStart(len(levels)); k < end; k++ {
		if !isolated(levels, k) {
			continue
		}
		seed = (13849 + seed*31821) & 0xFFFF
		if seed < 0x8000 {
			coeffs[k] = amp
		} else {
			coeffs[k] = -amp
		}
	}
}
