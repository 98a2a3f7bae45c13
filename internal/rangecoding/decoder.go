package rangecoding

// Decoder is the range decoder matching Encoder. Reading past either end
// of the buffer yields zeros and sets the overrun flag; it never panics.
type Decoder struct {
	buf        []byte
	storage    uint32
	offs       uint32 // Front read offset
	endOffs    uint32 // Bytes consumed from the end
	endWindow  uint32
	nendBits   int
	nbitsTotal int
	rng        uint32
	val        uint32
	ext        uint32 // Scale of the last DecodeSymbol
	rem        int    // Buffered partial byte
	overrun    bool
}

// Init binds the decoder to buf.
func (d *Decoder) Init(buf []byte) {
	d.buf = buf
	d.storage = uint32(len(buf))
	d.offs = 0
	d.endOffs = 0
	d.endWindow = 0
	d.nendBits = 0
	d.overrun = false
	d.nbitsTotal = EC_CODE_BITS + 1 - ((EC_CODE_BITS-EC_CODE_EXTRA)/EC_SYM_BITS)*EC_SYM_BITS
	d.rng = 1 << EC_CODE_EXTRA
	d.rem = int(d.readByte())
	d.val = d.rng - 1 - uint32(d.rem>>(EC_SYM_BITS-EC_CODE_EXTRA))
	d.normalize()
}

func (d *Decoder) readByte() byte {
	if d.offs < d.storage {
		b := d.buf[d.offs]
		d.offs++
		return b
	}
	return 0
}

func (d *Decoder) normalize() {
	for d.rng <= EC_CODE_BOT {
		d.nbitsTotal += EC_SYM_BITS
		d.rng <<= EC_SYM_BITS
		sym := d.rem
		d.rem = int(d.readByte())
		sym = (sym<<EC_SYM_BITS | d.rem) >> (EC_SYM_BITS - EC_CODE_EXTRA)
		d.val = ((d.val << EC_SYM_BITS) + uint32(EC_SYM_MAX&^sym)) & (EC_CODE_TOP - 1)
	}
}

// DecodeSymbol decodes one symbol coded with EncodeSymbol and the same cdf.
func (d *Decoder) DecodeSymbol(cdf []uint32) int {
	ft := cdf[len(cdf)-1]
	d.ext = d.rng / ft
	s := d.val / d.ext
	fs := ft - min(s+1, ft)

	k := 0
	for cdf[k+1] <= fs {
		k++
	}
	fl, fh := cdf[k], cdf[k+1]
	t := d.ext * (ft - fh)
	d.val -= t
	if fl > 0 {
		d.rng = d.ext * (fh - fl)
	} else {
		d.rng -= t
	}
	d.normalize()
	return k
}

// DecodeRawBits reads bits from the raw tail, in the order they were written.
func (d *Decoder) DecodeRawBits(bits uint) uint32 {
	if bits == 0 {
		return 0
	}
	for d.nendBits < int(bits) {
		if d.endOffs >= d.storage {
			d.overrun = true
			d.nendBits = int(bits)
			break
		}
		d.endOffs++
		d.endWindow |= uint32(d.buf[d.storage-d.endOffs]) << uint(d.nendBits)
		d.nendBits += EC_SYM_BITS
	}
	v := d.endWindow & (1<<bits - 1)
	d.endWindow >>= bits
	d.nendBits -= int(bits)
	d.nbitsTotal += int(bits)
	return v
}

// Tell returns the number of bits consumed so far, rounded up.
func (d *Decoder) Tell() int {
	return d.nbitsTotal - ilog(d.rng)
}

// Overrun reports whether the decoder consumed more than the buffer held,
// either through raw bits or because front and tail crossed.
func (d *Decoder) Overrun() bool {
	return d.overrun || d.Tell() > int(d.storage)*8
}
