// decoder.go implements the public Decoder API.

package lc3

import "github.com/thesyncim/lc3/internal/codec"

// Decoder decodes frames into PCM blocks.
//
// A Decoder instance maintains internal state and is NOT safe for concurrent use.
// Each goroutine should create its own Decoder instance.
//
// Lost and corrupt frames are concealed: the decoder replays the last good
// spectrum with a fade of 6 dB per 10 ms and goes silent after 120 ms of
// consecutive loss.
type Decoder struct {
	cfg  SessionConfig
	geom geometry
	chs  []*codec.Decoder
	buf  []float32
}

// NewDecoder creates a decoder for cfg. It returns the errors of
// cfg.Validate when the configuration is not supported.
func NewDecoder(cfg SessionConfig) (*Decoder, error) {
	g, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	d := &Decoder{
		cfg:  cfg,
		geom: g,
		chs:  make([]*codec.Decoder, g.channels),
		buf:  make([]float32, g.ns),
	}
	for i := range d.chs {
		if d.chs[i], err = codec.NewDecoder(g.n, g.ns, g.nbytes, cfg.FrameDuration); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Decode renders one encoded block into the PCM block pcm.
//
// A nil frame signals a lost block. A frame whose length is not
// FrameBytes * Channels is treated as lost. concealed reports whether any
// channel was concealed. The only error is an *EncodeError for a pcm
// buffer that is not PCMBlockBytes long. Samples of pcm outside the coded
// channels are left untouched.
func (d *Decoder) Decode(frame, pcm []byte) (concealed bool, err error) {
	if len(pcm) != d.geom.blockSize {
		return false, &EncodeError{Op: "decode", Got: len(pcm), Want: d.geom.blockSize, Err: ErrBufferSize}
	}
	lost := len(frame) != d.geom.nbytes*d.geom.channels
	for ch, dec := range d.chs {
		var f []byte
		if !lost {
			off := ch * d.geom.nbytes
			f = frame[off : off+d.geom.nbytes]
		}
		if dec.Decode(d.buf, f) {
			concealed = true
		}
		d.geom.format.store(pcm, d.buf, ch, d.geom.stride)
	}
	return concealed, nil
}

// DecodeFrame is Decode with a freshly allocated PCM block.
func (d *Decoder) DecodeFrame(frame []byte) ([]byte, bool, error) {
	pcm := make([]byte, d.geom.blockSize)
	concealed, err := d.Decode(frame, pcm)
	if err != nil {
		return nil, false, err
	}
	return pcm, concealed, nil
}

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() {
	for _, dec := range d.chs {
		dec.Reset()
	}
}

// Config returns the session configuration.
func (d *Decoder) Config() SessionConfig { return d.cfg }

// FrameSamples returns the PCM samples per channel of one block.
func (d *Decoder) FrameSamples() int { return d.geom.ns }

// FrameBytes returns the size of one channel's frame.
func (d *Decoder) FrameBytes() int { return d.geom.nbytes }

// PCMBlockBytes returns the size of one PCM block.
func (d *Decoder) PCMBlockBytes() int { return d.geom.blockSize }

// Delay returns the algorithmic delay in PCM samples.
func (d *Decoder) Delay() int { return d.chs[0].Delay() }
