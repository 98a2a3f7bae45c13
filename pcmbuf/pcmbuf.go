// Package pcmbuf converts between lc3 PCM blocks and typed sample slices
// or github.com/go-audio/audio buffers.
package pcmbuf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/audio"

	"github.com/thesyncim/lc3"
)

// PutInt16 writes src as S16_LE samples into dst.
func PutInt16(dst []byte, src []int16) {
	for i, v := range src {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(v))
	}
}

// Int16 reads S16_LE samples from src into dst.
func Int16(dst []int16, src []byte) {
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(src[2*i:]))
	}
}

// PutInt32 writes src as S24_LE samples (24 bits in 32) into dst. Values
// are truncated to 24 bits.
func PutInt32(dst []byte, src []int32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], uint32(v<<8>>8))
	}
}

// Int32 reads S24_LE samples from src into dst, sign extending bit 23.
func Int32(dst []int32, src []byte) {
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(src[4*i:])<<8) >> 8
	}
}

// PutFloat32 writes src as FLOAT_LE samples into dst.
func PutFloat32(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}

// Float32 reads FLOAT_LE samples from src into dst.
func Float32(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}

// Config returns a session for PCM blocks described by f.
func Config(f *audio.Format, frameDurationUs, bitrate int, format lc3.PCMFormat) lc3.SessionConfig {
	return lc3.SessionConfig{
		FrameDuration: frameDurationUs,
		SampleRate:    f.SampleRate,
		Format:        format,
		Channels:      f.NumChannels,
		Bitrate:       bitrate,
	}
}

// bitDepth is the integer depth of a format; float is carried at 24 bits.
func bitDepth(format lc3.PCMFormat) (int, error) {
	switch format {
	case lc3.PCMFormatS16:
		return 16, nil
	case lc3.PCMFormatS24, lc3.PCMFormatS24Packed, lc3.PCMFormatFloat:
		return 24, nil
	}
	return 0, fmt.Errorf("pcmbuf: %w: %d", lc3.ErrInvalidFormat, int(format))
}

// FromIntBuffer encodes buf as a PCM block of format. Samples are rescaled
// from buf.SourceBitDepth (16 when unset) and saturated.
func FromIntBuffer(buf *audio.IntBuffer, format lc3.PCMFormat) ([]byte, error) {
	depth, err := bitDepth(format)
	if err != nil {
		return nil, err
	}
	src := buf.SourceBitDepth
	if src == 0 {
		src = 16
	}
	out := make([]byte, len(buf.Data)*format.BytesPerSample())
	for i, v := range buf.Data {
		putSample(out, i, format, rescale(v, src, depth))
	}
	return out, nil
}

func rescale(v, from, to int) int {
	if from < to {
		v <<= to - from
	} else {
		v >>= from - to
	}
	lim := 1 << (to - 1)
	return min(max(v, -lim), lim-1)
}

// putSample stores integer sample v, at the depth of format, as sample i.
func putSample(out []byte, i int, format lc3.PCMFormat, v int) {
	switch format {
	case lc3.PCMFormatS16:
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(v)))
	case lc3.PCMFormatS24:
		binary.LittleEndian.PutUint32(out[4*i:], uint32(int32(v)))
	case lc3.PCMFormatS24Packed:
		out[3*i], out[3*i+1], out[3*i+2] = byte(v), byte(v>>8), byte(v>>16)
	case lc3.PCMFormatFloat:
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(v)/(1<<23)))
	}
}

// sample loads sample i of format at the depth of format.
func sample(pcm []byte, i int, format lc3.PCMFormat) int {
	switch format {
	case lc3.PCMFormatS16:
		return int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	case lc3.PCMFormatS24:
		return int(int32(binary.LittleEndian.Uint32(pcm[4*i:])<<8) >> 8)
	case lc3.PCMFormatS24Packed:
		return int(int32(uint32(pcm[3*i])<<8|uint32(pcm[3*i+1])<<16|uint32(pcm[3*i+2])<<24) >> 8)
	default:
		f := float64(math.Float32frombits(binary.LittleEndian.Uint32(pcm[4*i:])))
		if math.IsNaN(f) {
			return 0
		}
		return int(math.Max(-(1 << 23), math.Min(1<<23-1, math.RoundToEven(f*(1<<23)))))
	}
}

func samples(pcm []byte, format lc3.PCMFormat, channels int) (int, error) {
	size := format.BytesPerSample()
	if size == 0 {
		return 0, fmt.Errorf("pcmbuf: %w: %d", lc3.ErrInvalidFormat, int(format))
	}
	if channels <= 0 || len(pcm)%(size*channels) != 0 {
		return 0, fmt.Errorf("pcmbuf: %w: %d bytes for %d channels of %v", lc3.ErrBufferSize, len(pcm), channels, format)
	}
	return len(pcm) / size, nil
}

// ToIntBuffer decodes an interleaved PCM block into a go-audio buffer with
// SourceBitDepth set to the depth of format.
func ToIntBuffer(pcm []byte, format lc3.PCMFormat, channels, sampleRate int) (*audio.IntBuffer, error) {
	n, err := samples(pcm, format, channels)
	if err != nil {
		return nil, err
	}
	depth, _ := bitDepth(format)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, n),
		SourceBitDepth: depth,
	}
	for i := range buf.Data {
		buf.Data[i] = sample(pcm, i, format)
	}
	return buf, nil
}

// FromFloat32Buffer encodes buf, nominal range [-1, 1], as a PCM block of
// format.
func FromFloat32Buffer(buf *audio.Float32Buffer, format lc3.PCMFormat) ([]byte, error) {
	depth, err := bitDepth(format)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(buf.Data)*format.BytesPerSample())
	if format == lc3.PCMFormatFloat {
		PutFloat32(out, buf.Data)
		return out, nil
	}
	lim := float64(int(1) << (depth - 1))
	for i, v := range buf.Data {
		s := math.RoundToEven(float64(v) * lim)
		putSample(out, i, format, int(math.Max(-lim, math.Min(lim-1, s))))
	}
	return out, nil
}

// ToFloat32Buffer decodes an interleaved PCM block into a go-audio float
// buffer with nominal range [-1, 1].
func ToFloat32Buffer(pcm []byte, format lc3.PCMFormat, channels, sampleRate int) (*audio.Float32Buffer, error) {
	n, err := samples(pcm, format, channels)
	if err != nil {
		return nil, err
	}
	depth, _ := bitDepth(format)
	buf := &audio.Float32Buffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]float32, n),
		SourceBitDepth: depth,
	}
	if format == lc3.PCMFormatFloat {
		Float32(buf.Data, pcm)
		return buf, nil
	}
	scale := 1 / float32(int(1)<<(depth-1))
	for i := range buf.Data {
		buf.Data[i] = float32(sample(pcm, i, format)) * scale
	}
	return buf, nil
}
