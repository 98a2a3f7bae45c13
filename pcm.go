// pcm.go converts PCM blocks to and from the codec's internal samples.

package lc3

import (
	"encoding/binary"
	"math"
)

// PCMFormat is the sample format of PCM blocks. All formats are little
// endian.
type PCMFormat int

const (
	// PCMFormatS16 is signed 16-bit.
	PCMFormatS16 PCMFormat = iota

	// PCMFormatS24 is signed 24-bit in the low bits of a 32-bit container.
	PCMFormatS24

	// PCMFormatS24Packed is signed 24-bit packed in 3 bytes.
	PCMFormatS24Packed

	// PCMFormatFloat is 32-bit IEEE float with nominal range [-1, 1].
	PCMFormatFloat
)

// String returns the conventional name of the format.
func (f PCMFormat) String() string {
	switch f {
	case PCMFormatS16:
		return "S16_LE"
	case PCMFormatS24:
		return "S24_LE"
	case PCMFormatS24Packed:
		return "S24_3LE"
	case PCMFormatFloat:
		return "FLOAT_LE"
	default:
		return "unknown"
	}
}

// BytesPerSample returns the size of one sample, or 0 for an unknown format.
func (f PCMFormat) BytesPerSample() int {
	switch f {
	case PCMFormatS16:
		return 2
	case PCMFormatS24, PCMFormatFloat:
		return 4
	case PCMFormatS24Packed:
		return 3
	default:
		return 0
	}
}

func (f PCMFormat) valid() bool { return f.BytesPerSample() != 0 }

// The codec works on samples at 16-bit scale.
const (
	s24Scale   = 1.0 / 256
	floatScale = 32768
)

// load deinterleaves channel ch of the PCM block src into dst.
func (f PCMFormat) load(dst []float32, src []byte, ch, stride int) {
	size := f.BytesPerSample()
	off := ch * size
	step := stride * size
	for i := range dst {
		b := src[off:]
		switch f {
		case PCMFormatS16:
			dst[i] = float32(int16(binary.LittleEndian.Uint16(b)))
		case PCMFormatS24:
			v := int32(binary.LittleEndian.Uint32(b)<<8) >> 8
			dst[i] = float32(v) * s24Scale
		case PCMFormatS24Packed:
			v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
			dst[i] = float32(v) * s24Scale
		case PCMFormatFloat:
			v := math.Float32frombits(binary.LittleEndian.Uint32(b))
			dst[i] = sanitize(v) * floatScale
		}
		off += step
	}
}

// sanitize clamps float input to the nominal range and maps NaN to zero.
func sanitize(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

// store interleaves src into channel ch of the PCM block dst, rounding and
// saturating integer formats. Float output is not clipped.
func (f PCMFormat) store(dst []byte, src []float32, ch, stride int) {
	size := f.BytesPerSample()
	off := ch * size
	step := stride * size
	for _, v := range src {
		b := dst[off:]
		switch f {
		case PCMFormatS16:
			binary.LittleEndian.PutUint16(b, uint16(toInt16(v)))
		case PCMFormatS24:
			binary.LittleEndian.PutUint32(b, uint32(toInt24(v)))
		case PCMFormatS24Packed:
			s := toInt24(v)
			b[0], b[1], b[2] = byte(s), byte(s>>8), byte(s>>16)
		case PCMFormatFloat:
			binary.LittleEndian.PutUint32(b, math.Float32bits(v/floatScale))
		}
		off += step
	}
}

func toInt16(v float32) int16 {
	r := math.RoundToEven(float64(v))
	if r > math.MaxInt16 {
		return math.MaxInt16
	}
	if r < math.MinInt16 {
		return math.MinInt16
	}
	return int16(r)
}

const (
	maxInt24 = 1<<23 - 1
	minInt24 = -1 << 23
)

func toInt24(v float32) int32 {
	r := math.RoundToEven(float64(v) * 256)
	if r > maxInt24 {
		return maxInt24
	}
	if r < minInt24 {
		return minInt24
	}
	return int32(r)
}
