// stream.go implements streaming io.Reader and io.Writer wrappers for
// encoding and decoding.

package lc3

import "io"

// Streaming API
//
// The Reader and Writer types provide io.Reader and io.Writer interfaces
// over a session. They handle block boundaries internally, allowing
// integration with Go's standard io patterns. PCM bytes are in the
// session Format and interleaving.
//
// # Streaming Decode
//
//	reader, err := lc3.NewReader(cfg, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	io.Copy(audioOutput, reader)
//
// # Streaming Encode
//
//	writer, err := lc3.NewWriter(cfg, sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	io.Copy(writer, audioInput)
//	writer.Flush() // encode any remaining buffered samples

// FrameSource provides encoded blocks for streaming decode.
type FrameSource interface {
	// NextFrame returns the next encoded block, or nil for a lost one.
	// It returns io.EOF when the stream ends.
	NextFrame() ([]byte, error)
}

// FrameSink receives encoded blocks from streaming encode. The block is
// only valid for the duration of the call.
type FrameSink interface {
	WriteFrame(frame []byte) error
}

// Reader decodes a stream of blocks, implementing io.Reader.
type Reader struct {
	dec    *Decoder
	source FrameSource

	pcm    []byte // last decoded block
	offset int    // read position in pcm

	concealed int // blocks concealed so far
	eof       bool
}

// NewReader creates a streaming decoder for cfg reading from source.
func NewReader(cfg SessionConfig, source FrameSource) (*Reader, error) {
	dec, err := NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	return &Reader{
		dec:    dec,
		source: source,
		pcm:    make([]byte, dec.PCMBlockBytes()),
		offset: dec.PCMBlockBytes(),
	}, nil
}

// Read implements io.Reader, reading decoded PCM bytes.
func (r *Reader) Read(p []byte) (int, error) {
	if r.offset >= len(r.pcm) {
		if r.eof {
			return 0, io.EOF
		}
		frame, err := r.source.NextFrame()
		if err == io.EOF {
			r.eof = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}
		concealed, err := r.dec.Decode(frame, r.pcm)
		if err != nil {
			return 0, err
		}
		if concealed {
			r.concealed++
		}
		r.offset = 0
	}

	n := copy(p, r.pcm[r.offset:])
	r.offset += n
	return n, nil
}

// Concealed returns the number of blocks concealed since the last Reset.
func (r *Reader) Concealed() int { return r.concealed }

// Config returns the session configuration.
func (r *Reader) Config() SessionConfig { return r.dec.Config() }

// Reset clears buffers and decoder state for a new stream.
func (r *Reader) Reset() {
	r.dec.Reset()
	r.offset = len(r.pcm)
	r.concealed = 0
	r.eof = false
}

// Writer encodes PCM bytes into a stream of blocks, implementing
// io.Writer. Input is buffered until a complete PCM block is accumulated.
type Writer struct {
	enc  *Encoder
	sink FrameSink

	pcm   []byte // pending PCM, at most one block
	frame []byte
}

// NewWriter creates a streaming encoder for cfg writing to sink.
func NewWriter(cfg SessionConfig, sink FrameSink) (*Writer, error) {
	enc, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return &Writer{
		enc:   enc,
		sink:  sink,
		pcm:   make([]byte, 0, enc.PCMBlockBytes()),
		frame: make([]byte, enc.FrameBytes()*enc.geom.channels),
	}, nil
}

// Write implements io.Writer, encoding every complete block.
func (w *Writer) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := min(len(p), cap(w.pcm)-len(w.pcm))
		w.pcm = append(w.pcm, p[:n]...)
		p = p[n:]
		written += n
		if len(w.pcm) == cap(w.pcm) {
			if err := w.emit(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (w *Writer) emit() error {
	if err := w.enc.Encode(w.pcm, w.frame); err != nil {
		return err
	}
	w.pcm = w.pcm[:0]
	return w.sink.WriteFrame(w.frame)
}

// Flush encodes any buffered samples, zero-padded to a complete block.
// Call Flush before closing the stream to ensure all audio is encoded.
func (w *Writer) Flush() error {
	if len(w.pcm) == 0 {
		return nil
	}
	pad := cap(w.pcm) - len(w.pcm)
	w.pcm = append(w.pcm, make([]byte, pad)...)
	return w.emit()
}

// Buffered returns the number of PCM bytes waiting for a complete block.
func (w *Writer) Buffered() int { return len(w.pcm) }

// Config returns the session configuration.
func (w *Writer) Config() SessionConfig { return w.enc.Config() }

// Reset clears buffers and encoder state for a new stream.
func (w *Writer) Reset() {
	w.enc.Reset()
	w.pcm = w.pcm[:0]
}
