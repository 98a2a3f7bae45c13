package codec

import (
	"math"

	"github.com/thesyncim/lc3/internal/bitstream"
	"github.com/thesyncim/lc3/internal/mdct"
	"github.com/thesyncim/lc3/internal/plc"
	"github.com/thesyncim/lc3/internal/quant"
	"github.com/thesyncim/lc3/internal/rangecoding"
	"github.com/thesyncim/lc3/internal/spectrum"
	"github.com/thesyncim/lc3/internal/tables"
)

// Decoder decodes one channel. It is not safe for concurrent use.
type Decoder struct {
	layout
	ns     int
	scale  float32
	edges  []int
	mdct   *mdct.Transform
	hist   []float32
	wide   []float32 // ns coefficients at the PCM rate
	levels []int32
	side   bitstream.Reader
	rc     rangecoding.Decoder
	plc    *plc.State
}

// NewDecoder returns a decoder for frames of nbytes carrying n
// coefficients, rendering ns PCM samples per frame. ns >= n.
func NewDecoder(n, ns, nbytes, durationUs int) (*Decoder, error) {
	if n <= 0 || ns < n || nbytes <= 0 || durationUs <= 0 {
		return nil, ErrGeometry
	}
	l := newLayout(n, nbytes)
	if l.payloadBytes() < 2 {
		return nil, ErrGeometry
	}
	tr, err := mdct.New(ns)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		layout: l,
		ns:     ns,
		scale:  float32(math.Sqrt(float64(ns) / float64(n))),
		edges:  tables.BandEdges(n),
		mdct:   tr,
		hist:   make([]float32, tr.HistorySize()),
		wide:   make([]float32, ns),
		levels: make([]int32, n),
		plc:    plc.NewState(n, durationUs),
	}, nil
}

// FrameBytes returns the size of an encoded frame.
func (d *Decoder) FrameBytes() int { return d.nbytes }

// FrameSamples returns the PCM samples produced per frame.
func (d *Decoder) FrameSamples() int { return d.ns }

// Delay returns the algorithmic delay in PCM samples.
func (d *Decoder) Delay() int { return d.mdct.Delay() }

// Concealment exposes the loss concealment state.
func (d *Decoder) Concealment() *plc.State { return d.plc }

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() {
	clear(d.hist)
	d.plc.Reset()
}

// Decode renders one frame of PCM (FrameSamples samples) into pcm. A nil
// frame, a frame of the wrong size, or one whose spectrum overruns the
// frame is concealed. It reports whether concealment was used.
func (d *Decoder) Decode(pcm []float32, frame []byte) (concealed bool) {
	if len(frame) != d.nbytes || !d.decodeSpectrum(frame) {
		return d.conceal(pcm)
	}
	coeffs := d.wide[:d.n]
	d.plc.Good(coeffs)
	d.synthesize(pcm)
	d.plc.Observe(pcm)
	return false
}

// decodeSpectrum parses frame into the first n entries of d.wide.
func (d *Decoder) decodeSpectrum(frame []byte) bool {
	d.side.Init(frame[:d.sideBytes])
	si := d.readSide(&d.side)

	d.rc.Init(frame[d.sideBytes:])
	if !spectrum.Decode(&d.rc, d.levels, si.lastnz) {
		return false
	}
	coeffs := d.wide[:d.n]
	quant.Dequantize(coeffs, d.levels, si.gain)
	quant.NoiseFill(coeffs, d.levels, si.gain, si.noise, si.lastnz)
	quant.Unshape(coeffs, &si.env, d.edges)
	return true
}

func (d *Decoder) conceal(pcm []float32) bool {
	if !d.plc.Conceal(d.wide[:d.n]) {
		// Nothing to replay, or the fade ran out: go silent.
		clear(pcm)
		clear(d.hist)
		d.plc.Observe(pcm)
		return true
	}
	d.synthesize(pcm)
	d.plc.LimitEnergy(pcm)
	return true
}

// synthesize runs the inverse transform on the n decoded coefficients,
// band-limited within the PCM-rate spectrum.
func (d *Decoder) synthesize(pcm []float32) {
	if d.ns != d.n {
		for k := 0; k < d.n; k++ {
			d.wide[k] *= d.scale
		}
		clear(d.wide[d.n:])
	}
	d.mdct.Synthesize(pcm, d.wide, d.hist)
}
