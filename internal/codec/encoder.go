package codec

import (
	"errors"
	"math"

	"github.com/thesyncim/lc3/internal/bitstream"
	"github.com/thesyncim/lc3/internal/mdct"
	"github.com/thesyncim/lc3/internal/quant"
	"github.com/thesyncim/lc3/internal/rangecoding"
	"github.com/thesyncim/lc3/internal/spectrum"
	"github.com/thesyncim/lc3/internal/tables"
)

// ErrGeometry is returned for inconsistent frame geometry.
var ErrGeometry = errors.New("codec: invalid frame geometry")

// Stats describes the last encoded frame.
type Stats struct {
	Gain          int // global gain index
	LastNZ        int // coded 2-tuples
	Noise         int // noise fill level
	EstimatedBits int // spectral bits by the cost tables
	UsedBits      int // spectral bits written by the range coder
	Budget        int // spectral bit budget
	Retries       int // gain increments after the search
}

// Encoder encodes one channel. It is not safe for concurrent use.
type Encoder struct {
	layout
	ns     int // PCM samples per frame
	scale  float32
	edges  []int
	mdct   *mdct.Transform
	hist   []float32
	wide   []float32 // ns coefficients at the PCM rate
	coeffs []float32 // n coded coefficients
	shaped []float32
	levels []int32
	side   bitstream.Writer
	rc     rangecoding.Encoder
	stats  Stats
}

// NewEncoder returns an encoder coding n coefficients into nbytes per
// frame from PCM frames of ns samples. ns >= n; the spectrum above n is
// discarded.
func NewEncoder(n, ns, nbytes int) (*Encoder, error) {
	if n <= 0 || ns < n || nbytes <= 0 {
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
	return &Encoder{
		layout: l,
		ns:     ns,
		scale:  float32(math.Sqrt(float64(n) / float64(ns))),
		edges:  tables.BandEdges(n),
		mdct:   tr,
		hist:   make([]float32, tr.HistorySize()),
		wide:   make([]float32, ns),
		coeffs: make([]float32, n),
		shaped: make([]float32, n),
		levels: make([]int32, n),
	}, nil
}

// FrameBytes returns the size of an encoded frame.
func (e *Encoder) FrameBytes() int { return e.nbytes }

// FrameSamples returns the PCM samples consumed per frame.
func (e *Encoder) FrameSamples() int { return e.ns }

// Delay returns the algorithmic delay in PCM samples.
func (e *Encoder) Delay() int { return e.mdct.Delay() }

// Stats returns a description of the last encoded frame.
func (e *Encoder) Stats() Stats { return e.stats }

// Reset clears the analysis history.
func (e *Encoder) Reset() {
	clear(e.hist)
	e.stats = Stats{}
}

// Encode codes one frame of pcm (FrameSamples samples) into out
// (FrameBytes bytes). Both lengths are the caller's responsibility.
func (e *Encoder) Encode(out []byte, pcm []float32) {
	e.mdct.Analyze(e.wide, e.hist, pcm)
	if e.ns == e.n {
		copy(e.coeffs, e.wide)
	} else {
		for k := range e.coeffs {
			e.coeffs[k] = e.wide[k] * e.scale
		}
	}

	si := sideInfo{env: quant.ComputeEnvelope(e.coeffs, e.edges)}
	quant.Shape(e.shaped, e.coeffs, &si.env, e.edges)

	budget := e.budget()
	gi := quant.SearchGain(e.levels, e.shaped, budget)
	e.stats = Stats{Budget: budget}
	for {
		if gi > quant.MaxGain {
			// Nothing fits: send the envelope alone.
			gi = quant.MaxGain
			clear(e.levels)
			si.lastnz = 0
		} else {
			si.lastnz, _ = quant.Quantize(e.levels, e.shaped, gi)
		}
		si.gain = gi
		si.noise = quant.NoiseLevel(e.shaped, e.levels, gi, si.lastnz)
		if e.write(out, &si) || si.lastnz == 0 {
			break
		}
		gi++
		e.stats.Retries++
	}
	e.stats.Gain = si.gain
	e.stats.LastNZ = si.lastnz
	e.stats.Noise = si.noise
	e.stats.EstimatedBits = spectrum.EstimateBits(e.levels, si.lastnz)
}

// write serializes the frame and reports whether the spectrum fit.
func (e *Encoder) write(out []byte, si *sideInfo) bool {
	e.side.Init(out[:e.sideBytes])
	e.writeSide(&e.side, si)
	e.rc.Init(out[e.sideBytes:e.nbytes])
	spectrum.Encode(&e.rc, e.levels, si.lastnz)
	e.stats.UsedBits = e.rc.Tell()
	e.rc.Done()
	return !e.rc.Error()
}
