// Package bitstream packs and unpacks MSB-first bit fields in a fixed-size
// byte buffer. It carries the side information at the head of every frame.
package bitstream

import "errors"

var (
	// ErrOverflow is returned when a write does not fit the buffer.
	ErrOverflow = errors.New("bitstream: write past end of buffer")

	// ErrUnderflow is returned when a read runs past the end of the buffer.
	ErrUnderflow = errors.New("bitstream: read past end of buffer")

	// ErrWidth is returned for a field width outside [1, 32].
	ErrWidth = errors.New("bitstream: field width out of range")
)

// Writer appends bit fields MSB-first. The capacity is fixed at Init.
type Writer struct {
	buf []byte
	pos int // bits written
}

// NewWriter returns a Writer over buf. buf is cleared.
func NewWriter(buf []byte) *Writer {
	w := &Writer{}
	w.Init(buf)
	return w
}

// Init rebinds the writer to buf and clears it.
func (w *Writer) Init(buf []byte) {
	clear(buf)
	w.buf = buf
	w.pos = 0
}

// WriteBits appends the low width bits of value, most significant first.
// Nothing is written when the field would not fit.
func (w *Writer) WriteBits(value uint32, width int) error {
	if width < 1 || width > 32 {
		return ErrWidth
	}
	if w.pos+width > len(w.buf)*8 {
		return ErrOverflow
	}
	for i := width - 1; i >= 0; i-- {
		if value>>uint(i)&1 != 0 {
			w.buf[w.pos>>3] |= 0x80 >> uint(w.pos&7)
		}
		w.pos++
	}
	return nil
}

// Len returns the number of bits written.
func (w *Writer) Len() int { return w.pos }

// Cap returns the capacity in bits.
func (w *Writer) Cap() int { return len(w.buf) * 8 }

// Bytes returns the underlying buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Reader consumes bit fields in the order a Writer produced them.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Init rebinds the reader to buf.
func (r *Reader) Init(buf []byte) {
	r.buf = buf
	r.pos = 0
}

// ReadBits reads a width-bit field. On underflow the position is unchanged.
func (r *Reader) ReadBits(width int) (uint32, error) {
	if width < 1 || width > 32 {
		return 0, ErrWidth
	}
	if r.pos+width > len(r.buf)*8 {
		return 0, ErrUnderflow
	}
	var v uint32
	for i := 0; i < width; i++ {
		bit := r.buf[r.pos>>3] >> uint(7-r.pos&7) & 1
		v = v<<1 | uint32(bit)
		r.pos++
	}
	return v, nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return len(r.buf)*8 - r.pos }
