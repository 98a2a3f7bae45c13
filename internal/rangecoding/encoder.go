package rangecoding

// Encoder is a range encoder writing into a fixed-size buffer.
// Range-coded bytes grow from the front, raw bits from the back. Done
// finalizes the buffer in place; Error reports whether everything fit.
type Encoder struct {
	buf        []byte
	storage    uint32 // Buffer capacity
	offs       uint32 // Front write offset
	endOffs    uint32 // Bytes written at the end
	endWindow  uint32 // Pending raw bits
	nendBits   int    // Bits in endWindow
	nbitsTotal int    // Total bits written (for Tell)
	rng        uint32 // Range size
	val        uint32 // Low end of range
	rem        int    // Buffered byte awaiting carry (-1 = none)
	ext        uint32 // Number of buffered 0xFF bytes
	err        bool
}

// Init binds the encoder to buf. The frame will occupy all of buf.
func (e *Encoder) Init(buf []byte) {
	e.buf = buf
	e.storage = uint32(len(buf))
	e.offs = 0
	e.endOffs = 0
	e.endWindow = 0
	e.nendBits = 0
	e.nbitsTotal = EC_CODE_BITS + 1
	e.rng = EC_CODE_TOP
	e.val = 0
	e.rem = -1
	e.ext = 0
	e.err = false
}

func (e *Encoder) writeByte(b byte) {
	if e.offs+e.endOffs >= e.storage {
		e.err = true
		return
	}
	e.buf[e.offs] = b
	e.offs++
}

func (e *Encoder) writeEndByte(b byte) {
	if e.offs+e.endOffs >= e.storage {
		e.err = true
		return
	}
	e.endOffs++
	e.buf[e.storage-e.endOffs] = b
}

// carryOut emits the top byte of the low end. A run of 0xFF bytes is held
// back until we know whether a carry propagates into it.
func (e *Encoder) carryOut(c int) {
	if c != EC_SYM_MAX {
		carry := c >> EC_SYM_BITS
		if e.rem >= 0 {
			e.writeByte(byte(e.rem + carry))
		}
		if e.ext > 0 {
			sym := byte((EC_SYM_MAX + carry) & EC_SYM_MAX)
			for ; e.ext > 0; e.ext-- {
				e.writeByte(sym)
			}
		}
		e.rem = c & EC_SYM_MAX
	} else {
		e.ext++
	}
}

func (e *Encoder) normalize() {
	for e.rng <= EC_CODE_BOT {
		e.carryOut(int(e.val >> EC_CODE_SHIFT))
		e.val = (e.val << EC_SYM_BITS) & (EC_CODE_TOP - 1)
		e.rng <<= EC_SYM_BITS
		e.nbitsTotal += EC_SYM_BITS
	}
}

// Encode encodes a symbol with cumulative frequencies [fl, fh) out of ft.
func (e *Encoder) Encode(fl, fh, ft uint32) {
	r := e.rng / ft
	if fl > 0 {
		e.val += e.rng - r*(ft-fl)
		e.rng = r * (fh - fl)
	} else {
		e.rng -= r * (ft - fh)
	}
	e.normalize()
}

// EncodeSymbol encodes symbol s of a cumulative frequency table. cdf has
// one more entry than the alphabet: cdf[0] == 0 and cdf[len-1] is the total.
func (e *Encoder) EncodeSymbol(s int, cdf []uint32) {
	e.Encode(cdf[s], cdf[s+1], cdf[len(cdf)-1])
}

// EncodeRawBits appends the low bits of val to the raw tail, LSB first.
func (e *Encoder) EncodeRawBits(val uint32, bits uint) {
	if bits == 0 {
		return
	}
	window := e.endWindow
	used := e.nendBits
	if used+int(bits) > EC_WINDOW_SIZE {
		for used >= EC_SYM_BITS {
			e.writeEndByte(byte(window & EC_SYM_MAX))
			window >>= EC_SYM_BITS
			used -= EC_SYM_BITS
		}
	}
	window |= val << uint(used)
	used += int(bits)
	e.endWindow = window
	e.nendBits = used
	e.nbitsTotal += int(bits)
}

// Done flushes the coder. The whole buffer is written: the gap between
// front and tail is zeroed. Error reports whether the data fit.
func (e *Encoder) Done() {
	l := EC_CODE_BITS - ilog(e.rng)
	msk := uint32(EC_CODE_TOP-1) >> uint(l)
	end := (e.val + msk) &^ msk
	if (end | msk) >= e.val+e.rng {
		l++
		msk >>= 1
		end = (e.val + msk) &^ msk
	}
	for l > 0 {
		e.carryOut(int(end >> EC_CODE_SHIFT))
		end = (end << EC_SYM_BITS) & (EC_CODE_TOP - 1)
		l -= EC_SYM_BITS
	}
	if e.rem >= 0 || e.ext > 0 {
		e.carryOut(0)
	}

	window := e.endWindow
	used := e.nendBits
	for used >= EC_SYM_BITS {
		e.writeEndByte(byte(window & EC_SYM_MAX))
		window >>= EC_SYM_BITS
		used -= EC_SYM_BITS
	}
	if e.err {
		return
	}
	clear(e.buf[e.offs : e.storage-e.endOffs])
	if used > 0 {
		if e.endOffs >= e.storage {
			e.err = true
			return
		}
		l = -l
		if e.offs+e.endOffs >= e.storage && l < used {
			window &= 1<<uint(l) - 1
			e.err = true
		}
		e.buf[e.storage-e.endOffs-1] |= byte(window)
	}
}

// Error reports whether the coded data exceeded the buffer.
func (e *Encoder) Error() bool {
	return e.err
}

// Tell returns the number of bits written so far, rounded up.
func (e *Encoder) Tell() int {
	return e.nbitsTotal - ilog(e.rng)
}

// Bytes returns the buffer the encoder writes into.
func (e *Encoder) Bytes() []byte {
	return e.buf
}
