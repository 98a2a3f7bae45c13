// Package spectrum entropy codes quantized spectral levels as context
// modelled 2-tuples over the range coder, and estimates their bit cost.
//
// Tuple k holds levels 2k and 2k+1. Only the first lastnz tuples are coded;
// the rest of the spectrum is zero. Magnitudes above 3 are split into LSB
// planes sent as raw bits after escape symbols; signs are raw bits.
package spectrum

import "github.com/thesyncim/lc3/internal/rangecoding"

func abs32(v int32) int {
	if v < 0 {
		return int(-v)
	}
	return int(v)
}

// LastNonZero returns the number of tuples up to and including the last
// one holding a non-zero level.
func LastNonZero(levels []int32) int {
	for k := len(levels)/2 - 1; k >= 0; k-- {
		if levels[2*k] != 0 || levels[2*k+1] != 0 {
			return k + 1
		}
	}
	return 0
}

// EstimateBits returns the number of bits Encode would produce for the
// first lastnz tuples, rounded up. Magnitudes must not exceed MaxMagnitude.
func EstimateBits(levels []int32, lastnz int) int {
	n := len(levels)
	bits := 0
	m1, m2 := 0, 0
	for k := 0; k < lastnz; k++ {
		a, b := abs32(levels[2*k]), abs32(levels[2*k+1])
		c := context(k, m1, m2, n)
		lev := 0
		for a>>lev > 3 || b>>lev > 3 {
			bits += int(models[pick(c, lev)].cost[Escape]) + 2*256
			lev++
		}
		bits += int(models[pick(c, lev)].cost[a>>lev+4*(b>>lev)])
		if a != 0 {
			bits += 256
		}
		if b != 0 {
			bits += 256
		}
		m2, m1 = m1, a+b
	}
	return (bits + 255) >> 8
}

func pick(c, lev int) int {
	if lev == 0 {
		return c
	}
	return escapeCtx
}

// Encode writes the first lastnz tuples of levels.
func Encode(enc *rangecoding.Encoder, levels []int32, lastnz int) {
	n := len(levels)
	m1, m2 := 0, 0
	for k := 0; k < lastnz; k++ {
		la, lb := levels[2*k], levels[2*k+1]
		a, b := abs32(la), abs32(lb)
		c := context(k, m1, m2, n)
		lev := 0
		for a>>lev > 3 || b>>lev > 3 {
			enc.EncodeSymbol(Escape, models[pick(c, lev)].cdf[:])
			enc.EncodeRawBits(uint32(a>>lev&1), 1)
			enc.EncodeRawBits(uint32(b>>lev&1), 1)
			lev++
		}
		enc.EncodeSymbol(a>>lev+4*(b>>lev), models[pick(c, lev)].cdf[:])
		if a != 0 {
			enc.EncodeRawBits(sign(la), 1)
		}
		if b != 0 {
			enc.EncodeRawBits(sign(lb), 1)
		}
		m2, m1 = m1, a+b
	}
}

func sign(v int32) uint32 {
	if v < 0 {
		return 1
	}
	return 0
}

// Decode reads lastnz tuples into levels and zeroes the remainder. It
// reports false when the decoder ran past the end of its buffer, in which
// case the levels are unreliable.
func Decode(dec *rangecoding.Decoder, levels []int32, lastnz int) bool {
	n := len(levels)
	lastnz = min(lastnz, n/2)
	m1, m2 := 0, 0
	for k := 0; k < lastnz; k++ {
		c := context(k, m1, m2, n)
		lev := 0
		la, lb := 0, 0
		var s int
		for {
			s = dec.DecodeSymbol(models[pick(c, lev)].cdf[:])
			if s != Escape || lev >= MaxPlanes {
				break
			}
			la |= int(dec.DecodeRawBits(1)) << lev
			lb |= int(dec.DecodeRawBits(1)) << lev
			lev++
		}
		if s == Escape {
			s = 15
		}
		a := (s&3)<<lev | la
		b := (s>>2)<<lev | lb
		va, vb := int32(a), int32(b)
		if a != 0 && dec.DecodeRawBits(1) != 0 {
			va = -va
		}
		if b != 0 && dec.DecodeRawBits(1) != 0 {
			vb = -vb
		}
		levels[2*k], levels[2*k+1] = va, vb
		m2, m1 = m1, a+b
	}
	clear(levels[2*lastnz:])
	return !dec.Overrun()
}
