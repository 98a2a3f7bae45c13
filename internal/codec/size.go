package codec

import (
	"github.com/thesyncim/lc3/internal/mdct"
	"github.com/thesyncim/lc3/internal/tables"
)

const (
	f32Bytes   = 4
	int32Bytes = 4
	intBytes   = 8
)

// EncoderStateSize returns the bytes of working memory an Encoder of n
// coded coefficients and ns PCM samples allocates.
func EncoderStateSize(n, ns int) int {
	return ns/2*f32Bytes + // analysis history
		ns*f32Bytes + // wide spectrum
		2*n*f32Bytes + // coefficients, shaped
		n*int32Bytes + // levels
		(tables.NumBands+1)*intBytes +
		mdct.ScratchBytes(ns)
}

// DecoderStateSize returns the bytes of working memory a Decoder of n
// coded coefficients and ns PCM samples allocates.
func DecoderStateSize(n, ns int) int {
	return ns/2*f32Bytes + // overlap history
		ns*f32Bytes + // wide spectrum
		n*int32Bytes + // levels
		n*f32Bytes + // last good spectrum
		(tables.NumBands+1)*intBytes +
		mdct.ScratchBytes(ns)
}
