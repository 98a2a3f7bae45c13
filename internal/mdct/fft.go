package mdct

import (
	"errors"
	"math"
)

// ErrSize is returned for transform sizes the mixed-radix FFT cannot factor.
var ErrSize = errors.New("mdct: unsupported transform size")

// fft is a mixed-radix decimation-in-time complex FFT for sizes whose prime
// factors are 2, 3 and 5. The state is immutable after construction and
// shared between transforms of the same size.
type fft struct {
	n        int
	factors  []int        // radices, outermost first
	twiddles []complex128 // exp(-2*pi*i*k/n)
}

func newFFT(n int) (*fft, error) {
	if n < 1 {
		return nil, ErrSize
	}
	f := &fft{n: n}
	rest := n
	for _, p := range [...]int{4, 2, 3, 5} {
		for rest%p == 0 {
			f.factors = append(f.factors, p)
			rest /= p
		}
	}
	if rest != 1 {
		return nil, ErrSize
	}
	f.twiddles = make([]complex128, n)
	for k := range f.twiddles {
		phase := -2 * math.Pi * float64(k) / float64(n)
		f.twiddles[k] = complex(math.Cos(phase), math.Sin(phase))
	}
	return f, nil
}

// transform computes dst = DFT(src). dst and src must not alias.
func (f *fft) transform(dst, src []complex128) {
	f.stage(dst, src, 0, 0, 1, f.n, 0)
}

// stage computes the n-point DFT of src[off], src[off+stride], ... into
// dst[d0:d0+n] by splitting it into p interleaved sub-transforms.
func (f *fft) stage(dst, src []complex128, d0, off, stride, n, fi int) {
	if n == 1 {
		dst[d0] = src[off]
		return
	}
	p := f.factors[fi]
	m := n / p
	for j := 0; j < p; j++ {
		f.stage(dst, src, d0+j*m, off+j*stride, stride*p, m, fi+1)
	}

	ts := f.n / n
	var t [5]complex128
	for k := 0; k < m; k++ {
		for j := 0; j < p; j++ {
			t[j] = dst[d0+j*m+k] * f.twiddles[(j*k*ts)%f.n]
		}
		for q := 0; q < p; q++ {
			s := t[0]
			for j := 1; j < p; j++ {
				s += t[j] * f.twiddles[(j*q*m*ts)%f.n]
			}
			dst[d0+q*m+k] = s
		}
	}
}
