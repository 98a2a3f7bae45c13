// encoder.go implements the public Encoder API.

package lc3

import "github.com/thesyncim/lc3/internal/codec"

// Encoder encodes PCM blocks into frames.
//
// An Encoder instance maintains internal state and is NOT safe for concurrent use.
// Each goroutine should create its own Encoder instance.
//
// Each channel is coded independently; the encoded block is the
// concatenation of the per-channel frames in channel order.
type Encoder struct {
	cfg  SessionConfig
	geom geometry
	chs  []*codec.Encoder
	buf  []float32
}

// NewEncoder creates an encoder for cfg. It returns the errors of
// cfg.Validate when the configuration is not supported.
func NewEncoder(cfg SessionConfig) (*Encoder, error) {
	g, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	e := &Encoder{
		cfg:  cfg,
		geom: g,
		chs:  make([]*codec.Encoder, g.channels),
		buf:  make([]float32, g.ns),
	}
	for i := range e.chs {
		if e.chs[i], err = codec.NewEncoder(g.n, g.ns, g.nbytes); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Encode codes one PCM block into out.
//
// pcm must be PCMBlockBytes long and out FrameBytes * Channels long. On a
// length mismatch Encode returns an *EncodeError and leaves the encoder
// state untouched.
func (e *Encoder) Encode(pcm, out []byte) error {
	if len(pcm) != e.geom.blockSize {
		return &EncodeError{Op: "encode", Got: len(pcm), Want: e.geom.blockSize, Err: ErrInvalidFrameSize}
	}
	if want := e.geom.nbytes * e.geom.channels; len(out) != want {
		return &EncodeError{Op: "encode", Got: len(out), Want: want, Err: ErrBufferSize}
	}
	for ch, enc := range e.chs {
		e.geom.format.load(e.buf, pcm, ch, e.geom.stride)
		off := ch * e.geom.nbytes
		enc.Encode(out[off:off+e.geom.nbytes], e.buf)
	}
	return nil
}

// EncodeFrame is Encode with a freshly allocated output block.
func (e *Encoder) EncodeFrame(pcm []byte) ([]byte, error) {
	out := make([]byte, e.geom.nbytes*e.geom.channels)
	if err := e.Encode(pcm, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset returns the encoder to its initial state.
func (e *Encoder) Reset() {
	for _, enc := range e.chs {
		enc.Reset()
	}
}

// Config returns the session configuration.
func (e *Encoder) Config() SessionConfig { return e.cfg }

// FrameSamples returns the PCM samples per channel of one block.
func (e *Encoder) FrameSamples() int { return e.geom.ns }

// FrameBytes returns the size of one channel's frame.
func (e *Encoder) FrameBytes() int { return e.geom.nbytes }

// PCMBlockBytes returns the size of one PCM block.
func (e *Encoder) PCMBlockBytes() int { return e.geom.blockSize }

// Delay returns the algorithmic delay in PCM samples.
func (e *Encoder) Delay() int { return e.chs[0].Delay() }

// FrameStats describes the rate control outcome of one coded frame.
type FrameStats = codec.Stats

// Stats returns a description of the last frame coded for channel ch.
func (e *Encoder) Stats(ch int) FrameStats { return e.chs[ch].Stats() }
