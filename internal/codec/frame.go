// Package codec implements the single-channel encoder and decoder engines.
//
// A frame is laid out as side information written MSB-first at the head,
// followed by the range coded spectrum filling the rest of the frame:
//
//	lastnz   bits.Len(n/2) bits  number of coded 2-tuples
//	gain     8 bits              global gain index
//	noise    3 bits              noise fill level
//	envelope 6 + 15*4 bits       first scale factor, then deltas
//
// The side information is padded to a whole byte.
package codec

import (
	"math/bits"

	"github.com/thesyncim/lc3/internal/bitstream"
	"github.com/thesyncim/lc3/internal/quant"
	"github.com/thesyncim/lc3/internal/tables"
)

// sideInfo is the decoded head of a frame.
type sideInfo struct {
	lastnz int
	gain   int
	noise  int
	env    quant.Envelope
}

// layout holds the per-configuration frame geometry.
type layout struct {
	n          int // coefficients coded
	nbytes     int // frame size
	lastnzBits int
	sideBytes  int
}

func newLayout(n, nbytes int) layout {
	l := layout{n: n, nbytes: nbytes, lastnzBits: bits.Len(uint(n / 2))}
	sideBits := l.lastnzBits + quant.GainBits + quant.NoiseBits + quant.EnvelopeBits
	l.sideBytes = (sideBits + 7) / 8
	return l
}

// payloadBytes is the space left for the range coder.
func (l layout) payloadBytes() int { return l.nbytes - l.sideBytes }

// budget is the spectral bit budget handed to rate control. The margin
// absorbs the difference between the cost tables and the coder.
func (l layout) budget() int {
	return 8*l.payloadBytes() - 16 - l.n/64
}

// must panics on a side-information error. The layout is sized from the
// configuration, so a failure is a programming error.
func must(err error) {
	if err != nil {
		panic("codec: " + err.Error())
	}
}

func (l layout) writeSide(w *bitstream.Writer, si *sideInfo) {
	must(w.WriteBits(uint32(si.lastnz), l.lastnzBits))
	must(w.WriteBits(uint32(si.gain), quant.GainBits))
	must(w.WriteBits(uint32(si.noise), quant.NoiseBits))
	must(w.WriteBits(uint32(si.env[0]), quant.FirstBits))
	for _, d := range si.env.Deltas() {
		must(w.WriteBits(d, quant.DeltaBits))
	}
}

// readSide parses the frame head. Out-of-range fields from a corrupt frame
// are clamped.
func (l layout) readSide(r *bitstream.Reader) sideInfo {
	read := func(width int) uint32 {
		v, err := r.ReadBits(width)
		must(err)
		return v
	}
	var si sideInfo
	si.lastnz = min(int(read(l.lastnzBits)), l.n/2)
	si.gain = int(read(quant.GainBits))
	si.noise = int(read(quant.NoiseBits))
	first := read(quant.FirstBits)
	var deltas [tables.NumBands - 1]uint32
	for i := range deltas {
		deltas[i] = read(quant.DeltaBits)
	}
	si.env = quant.EnvelopeFromCoded(first, deltas)
	return si
}
