package bitstream

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRoundTripWidths(t *testing.T) {
	for width := 1; width <= 24; width++ {
		max := uint32(1)<<uint(width) - 1
		values := []uint32{0, max, max & 0x555555, max & 0xAAAAAA, 1, max >> 1}
		buf := make([]byte, (len(values)*width+7)/8)
		w := NewWriter(buf)
		for _, v := range values {
			if err := w.WriteBits(v, width); err != nil {
				t.Fatalf("width %d: WriteBits(%d): %v", width, v, err)
			}
		}
		r := NewReader(buf)
		for _, want := range values {
			got, err := r.ReadBits(width)
			if err != nil {
				t.Fatalf("width %d: ReadBits: %v", width, err)
			}
			if got != want {
				t.Errorf("width %d: got %#x, want %#x", width, got, want)
			}
		}
	}
}

func TestMixedWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	widths := make([]int, 200)
	values := make([]uint32, 200)
	total := 0
	for i := range widths {
		widths[i] = 1 + rng.Intn(32)
		values[i] = rng.Uint32() >> uint(32-widths[i])
		total += widths[i]
	}
	buf := make([]byte, (total+7)/8)
	w := NewWriter(buf)
	for i := range widths {
		if err := w.WriteBits(values[i], widths[i]); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if w.Len() != total {
		t.Fatalf("Len = %d, want %d", w.Len(), total)
	}
	r := NewReader(buf)
	for i := range widths {
		got, err := r.ReadBits(widths[i])
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got != values[i] {
			t.Fatalf("field %d (width %d): got %#x, want %#x", i, widths[i], got, values[i])
		}
	}
}

func TestMSBFirst(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	_ = w.WriteBits(1, 1)
	_ = w.WriteBits(0x5, 3)
	_ = w.WriteBits(0xF0, 8)
	if buf[0] != 0xDF || buf[1] != 0x00 {
		t.Fatalf("bytes = %#x %#x, want 0xdf 0x00", buf[0], buf[1])
	}
}

func TestOverflow(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	if err := w.WriteBits(0x3FF, 10); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBits(0x7F, 7); !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
	if w.Len() != 10 {
		t.Fatalf("failed write advanced position to %d", w.Len())
	}
	if err := w.WriteBits(0x3F, 6); err != nil {
		t.Fatalf("exact fill: %v", err)
	}
}

func TestUnderflow(t *testing.T) {
	r := NewReader([]byte{0xFF})
	if _, err := r.ReadBits(9); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("err = %v, want ErrUnderflow", err)
	}
	if v, err := r.ReadBits(8); err != nil || v != 0xFF {
		t.Fatalf("ReadBits(8) = %#x, %v", v, err)
	}
	if _, err := r.ReadBits(1); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("err = %v, want ErrUnderflow", err)
	}
}

func TestWidthRange(t *testing.T) {
	w := NewWriter(make([]byte, 8))
	if err := w.WriteBits(0, 0); !errors.Is(err, ErrWidth) {
		t.Errorf("width 0: %v", err)
	}
	if err := w.WriteBits(0, 33); !errors.Is(err, ErrWidth) {
		t.Errorf("width 33: %v", err)
	}
	r := NewReader(make([]byte, 8))
	if _, err := r.ReadBits(0); !errors.Is(err, ErrWidth) {
		t.Errorf("read width 0: %v", err)
	}
}

func TestInitClears(t *testing.T) {
	buf := []byte{0xFF, 0xFF}
	w := NewWriter(buf)
	_ = w.WriteBits(0, 4)
	if buf[0] != 0 || buf[1] != 0 {
		t.Fatalf("buffer not cleared: %v", buf)
	}
}
