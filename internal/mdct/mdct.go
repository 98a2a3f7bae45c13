// Package mdct implements the low-delay modified discrete cosine transform
// used by the codec: a 2N-sample window with N/4 zeros at each end, an
// overlap of N/2 samples, and a DCT-IV computed with an N/2-point FFT.
//
// A Transform carries its own scratch buffers and is not safe for
// concurrent use. The window and twiddle tables are shared per size.
package mdct

import (
	"math"
	"sync"
)

// plan is the immutable per-size part of a Transform.
type plan struct {
	n      int
	fft    *fft
	rot    []complex128 // exp(-i*pi*(k+1/8)/n), k < n/2
	window []float64    // 2n taps
	scale  float64
}

var (
	planCache   = make(map[int]*plan)
	planCacheMu sync.Mutex
)

func getPlan(n int) (*plan, error) {
	planCacheMu.Lock()
	defer planCacheMu.Unlock()
	if p, ok := planCache[n]; ok {
		return p, nil
	}
	p, err := newPlan(n)
	if err != nil {
		return nil, err
	}
	planCache[n] = p
	return p, nil
}

func newPlan(n int) (*plan, error) {
	if n < 4 || n%4 != 0 {
		return nil, ErrSize
	}
	f, err := newFFT(n / 2)
	if err != nil {
		return nil, err
	}
	p := &plan{
		n:      n,
		fft:    f,
		rot:    make([]complex128, n/2),
		window: Window(n),
		scale:  math.Sqrt(2 / float64(n)),
	}
	for k := range p.rot {
		phase := -math.Pi * (float64(k) + 0.125) / float64(n)
		p.rot[k] = complex(math.Cos(phase), math.Sin(phase))
	}
	return p, nil
}

// Window returns the 2n-tap low-overlap analysis/synthesis window. It is
// zero on the first and last n/4 taps, rises and falls over n/2 taps with a
// power-complementary shape, and is flat in between.
func Window(n int) []float64 {
	z, l := n/4, n/2
	w := make([]float64, 2*n)
	for t := 0; t < l; t++ {
		s := math.Sin(math.Pi * (float64(t) + 0.5) / float64(2*l))
		v := math.Sin(math.Pi / 2 * s * s)
		w[z+t] = v
		w[2*n-z-1-t] = v
	}
	for i := z + l; i < 2*n-z-l; i++ {
		w[i] = 1
	}
	return w
}

// Transform is an MDCT of n coefficients per frame.
type Transform struct {
	p *plan

	x    []float64 // 2n windowed time samples
	v    []float64 // n folded samples
	y    []float64 // n DCT-IV outputs
	zin  []complex128
	zout []complex128
}

// New returns a Transform for frames of n samples. n must be a multiple of
// 4 whose half factors into 2, 3 and 5.
func New(n int) (*Transform, error) {
	p, err := getPlan(n)
	if err != nil {
		return nil, err
	}
	return &Transform{
		p:    p,
		x:    make([]float64, 2*n),
		v:    make([]float64, n),
		y:    make([]float64, n),
		zin:  make([]complex128, n/2),
		zout: make([]complex128, n/2),
	}, nil
}

// Size returns the number of coefficients per frame.
func (t *Transform) Size() int { return t.p.n }

// Overlap returns the number of samples shared by consecutive frames.
func (t *Transform) Overlap() int { return t.p.n / 2 }

// Delay returns the algorithmic delay of Analyze followed by Synthesize.
func (t *Transform) Delay() int { return t.p.n / 2 }

// HistorySize returns the length of the history buffers Analyze and
// Synthesize carry between frames.
func (t *Transform) HistorySize() int { return t.p.n / 2 }

// dct4 computes out = DCT-IV(in) with the n/2-point FFT, unscaled.
func (t *Transform) dct4(out, in []float64) {
	n := t.p.n
	h := n / 2
	for k := 0; k < h; k++ {
		t.zin[k] = complex(in[2*k], in[n-1-2*k]) * t.p.rot[k]
	}
	t.p.fft.transform(t.zout, t.zin)
	for k := 0; k < h; k++ {
		u := t.zout[k] * t.p.rot[k]
		out[2*k] = real(u)
		out[n-1-2*k] = -imag(u)
	}
}

// Analyze computes the coefficients of the frame cur. hist holds the last
// Overlap samples of the previous frame and is updated with those of cur.
func (t *Transform) Analyze(dst, hist, cur []float32) {
	n := t.p.n
	z, l, h := n/4, n/2, n/2
	x := t.x
	clear(x)
	for i := 0; i < l; i++ {
		x[z+i] = float64(hist[i])
	}
	for i := 0; i < n; i++ {
		x[n-z+i] = float64(cur[i])
	}
	copy(hist, cur[n-l:n])
	for i, w := range t.p.window {
		x[i] *= w
	}

	for i := 0; i < h; i++ {
		t.v[i] = -x[3*h-1-i] - x[3*h+i]
		t.v[h+i] = x[i] - x[n-1-i]
	}
	t.dct4(t.y, t.v)
	for k := 0; k < n; k++ {
		dst[k] = float32(t.p.scale * t.y[k])
	}
}

// Synthesize reconstructs one frame of output from coeffs. hist holds the
// overlap tail of the previous frame and is replaced by the new tail.
func (t *Transform) Synthesize(dst, coeffs, hist []float32) {
	n := t.p.n
	z, l, h := n/4, n/2, n/2
	for k := 0; k < n; k++ {
		t.v[k] = float64(coeffs[k])
	}
	t.dct4(t.y, t.v)
	y1, y2 := t.y[:h], t.y[h:]
	x := t.x
	sc := t.p.scale
	for i := 0; i < h; i++ {
		x[i] = sc * y2[i]
		x[h+i] = -sc * y2[h-1-i]
		x[n+i] = -sc * y1[h-1-i]
		x[n+h+i] = -sc * y1[i]
	}
	for i, w := range t.p.window {
		x[i] *= w
	}

	for i := 0; i < n; i++ {
		v := x[z+i]
		if i < l {
			v += float64(hist[i])
		}
		dst[i] = float32(v)
	}
	for i := 0; i < l; i++ {
		hist[i] = float32(x[n+z+i])
	}
}

// ScratchBytes returns the size of the per-instance buffers of a
// Transform of n coefficients.
func ScratchBytes(n int) int {
	const f64, c128 = 8, 16
	return 2*n*f64 + 2*n*f64 + 2*(n/2)*c128
}
