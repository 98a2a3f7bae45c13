// Package quant maps MDCT coefficients to integer levels and back: the
// band energy envelope, spectral shaping, the global gain search that fits
// a frame into its bit budget, and noise filling of empty regions.
package quant

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/thesyncim/lc3/internal/tables"
)

// Envelope coding: a 6-bit first scale factor, then NumBands-1 deltas of
// DeltaBits each in [MinDelta, MaxDelta]. One step is 3 dB.
const (
	MaxScaleFactor = 63
	FirstBits      = 6
	DeltaBits      = 4
	MinDelta       = -8
	MaxDelta       = 7

	// EnvelopeBits is the size of a coded envelope.
	EnvelopeBits = FirstBits + (tables.NumBands-1)*DeltaBits

	// sfOffset is the scale factor of a band with unit RMS.
	sfOffset = 8

	// shapeAlpha is the fraction of the envelope removed by shaping; the
	// quantization noise follows the remainder.
	shapeAlpha = 0.7
)

// Envelope is the quantized scale factor of each band.
type Envelope [tables.NumBands]int

var (
	shapeGain    [MaxScaleFactor + 1]float32
	shapeGainInv [MaxScaleFactor + 1]float32
)

func init() {
	for q := range shapeGain {
		g := math.Exp2(-shapeAlpha * float64(q-sfOffset) / 2)
		shapeGain[q] = float32(g)
		shapeGainInv[q] = float32(1 / g)
	}
}

// ShapeGain returns the shaping gain of a band with scale factor q.
func ShapeGain(q int) float32 { return shapeGain[clampSF(q)] }

func clampSF(q int) int {
	return min(max(q, 0), MaxScaleFactor)
}

// bandScaleFactor returns round(2*log2(rms)) + sfOffset, clamped.
func bandScaleFactor(x []float32) int {
	var e float32
	for _, v := range x {
		e += v * v
	}
	if e <= 0 {
		return 0
	}
	r := math32.Sqrt(e / float32(len(x)))
	v := math32.Floor(2*math32.Log2(r) + 0.5)
	if v < -sfOffset {
		return 0
	}
	return clampSF(int(v) + sfOffset)
}

// ComputeEnvelope measures the band scale factors of coeffs and quantizes
// them in closed loop so every delta is codable.
func ComputeEnvelope(coeffs []float32, edges []int) Envelope {
	var raw, q Envelope
	for b := 0; b < tables.NumBands; b++ {
		raw[b] = bandScaleFactor(coeffs[edges[b]:edges[b+1]])
	}
	q[0] = raw[0]
	for b := 1; b < tables.NumBands; b++ {
		d := min(max(raw[b]-q[b-1], MinDelta), MaxDelta)
		q[b] = clampSF(q[b-1] + d)
	}
	return q
}

// Deltas returns the coded form of the envelope: deltas offset into
// [0, 2^DeltaBits).
func (e *Envelope) Deltas() [tables.NumBands - 1]uint32 {
	var d [tables.NumBands - 1]uint32
	for b := 1; b < tables.NumBands; b++ {
		d[b-1] = uint32(e[b] - e[b-1] - MinDelta)
	}
	return d
}

// EnvelopeFromCoded rebuilds an envelope from its coded fields. Values
// from a corrupt frame are clamped into range.
func EnvelopeFromCoded(first uint32, deltas [tables.NumBands - 1]uint32) Envelope {
	var e Envelope
	e[0] = clampSF(int(first))
	for b := 1; b < tables.NumBands; b++ {
		e[b] = clampSF(e[b-1] + int(deltas[b-1]) + MinDelta)
	}
	return e
}

// Shape scales coeffs by the band shaping gains of env into dst.
func Shape(dst, coeffs []float32, env *Envelope, edges []int) {
	for b := 0; b < tables.NumBands; b++ {
		g := shapeGain[env[b]]
		for k := edges[b]; k < edges[b+1]; k++ {
			dst[k] = coeffs[k] * g
		}
	}
}

// Unshape undoes Shape in place.
func Unshape(coeffs []float32, env *Envelope, edges []int) {
	for b := 0; b < tables.NumBands; b++ {
		g := shapeGainInv[env[b]]
		for k := edges[b]; k < edges[b+1]; k++ {
			coeffs[k] *= g
		}
	}
}
