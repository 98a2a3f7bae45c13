// Package rangecoding implements the range coder that carries the spectral
// payload of a frame. The arithmetic follows libopus entenc/entdec; output
// is bound to a fixed-size buffer with raw bits packed from its end.
package rangecoding

// Coder constants, as in libopus celt/mfrngcod.h.
const (
	EC_SYM_BITS    = 8                                // Bits output at a time
	EC_CODE_BITS   = 32                               // Total state register bits
	EC_SYM_MAX     = (1 << EC_SYM_BITS) - 1           // 255
	EC_CODE_TOP    = 1 << (EC_CODE_BITS - 1)          // 0x80000000
	EC_CODE_BOT    = EC_CODE_TOP >> EC_SYM_BITS       // 0x00800000
	EC_CODE_SHIFT  = EC_CODE_BITS - EC_SYM_BITS - 1   // 23
	EC_CODE_EXTRA  = (EC_CODE_BITS-2)%EC_SYM_BITS + 1 // 7
	EC_WINDOW_SIZE = 32                               // Raw bit window
)

// ilog returns the bit length of x. Returns 0 for input 0.
func ilog(x uint32) int {
	n := 0
	for x != 0 {
		n++
		x >>= 1
	}
	return n
}
