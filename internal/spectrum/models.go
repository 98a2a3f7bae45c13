package spectrum

import "math"

// Alphabet of the 2-tuple coder: symbols 0..15 carry the two low magnitude
// planes as a + 4*b, symbol 16 escapes one LSB plane of both magnitudes.
const (
	NumSymbols = 17
	Escape     = 16

	// MaxPlanes bounds the escape depth; MaxMagnitude is the largest level
	// that can be coded.
	MaxPlanes    = 14
	MaxMagnitude = 4<<MaxPlanes - 1

	numClasses   = 6
	escapeCtx    = 2 * numClasses
	numContexts  = escapeCtx + 1
	classMaxMag1 = 15
)

// Magnitude decay per context class, in 1/256. Larger values give flatter
// distributions for busier neighbourhoods.
var (
	rhoLF     = [numClasses]int{26, 64, 102, 140, 176, 208}
	rhoHF     = [numClasses]int{22, 54, 87, 119, 150, 177}
	rhoEscape = 220
)

// model is a static frequency table and its bit cost in Q8.
type model struct {
	cdf  [NumSymbols + 1]uint32
	cost [NumSymbols]int32
}

var models = buildModels()

func buildModels() [numContexts]model {
	var m [numContexts]model
	for c := 0; c < numClasses; c++ {
		m[c] = newModel(rhoLF[c])
		m[numClasses+c] = newModel(rhoHF[c])
	}
	m[escapeCtx] = newModel(rhoEscape)
	return m
}

// newModel derives a table from a geometric magnitude model with decay
// r/256. Integer arithmetic keeps the tables identical on every platform.
func newModel(r int) model {
	var g [4]int
	g[0] = (256 - r) << 8
	for i := 1; i < 4; i++ {
		g[i] = g[i-1] * r >> 8
	}
	var w [NumSymbols]int
	total := 0
	for b := 0; b < 4; b++ {
		for a := 0; a < 4; a++ {
			w[a+4*b] = g[a] * g[b] >> 16
			total += w[a+4*b]
		}
	}
	w[Escape] = 65536 - total

	var m model
	for s := 0; s < NumSymbols; s++ {
		f := max(1, w[s]>>1)
		m.cdf[s+1] = m.cdf[s] + uint32(f)
	}
	ft := float64(m.cdf[NumSymbols])
	for s := 0; s < NumSymbols; s++ {
		f := float64(m.cdf[s+1] - m.cdf[s])
		m.cost[s] = int32(math.Round(256 * math.Log2(ft/f)))
	}
	return m
}

// context selects the model of tuple k from the magnitude sums of the two
// previous tuples. The upper half of the spectrum uses its own classes.
func context(k, m1, m2, n int) int {
	t := 2*min(m1, classMaxMag1) + min(m2, classMaxMag1)
	var c int
	switch {
	case t == 0:
		c = 0
	case t <= 2:
		c = 1
	case t <= 4:
		c = 2
	case t <= 7:
		c = 3
	case t <= 12:
		c = 4
	default:
		c = 5
	}
	if 2*k >= n/2 {
		c += numClasses
	}
	return c
}
