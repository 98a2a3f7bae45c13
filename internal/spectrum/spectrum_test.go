package spectrum

import (
	"math/rand"
	"testing"

	"github.com/thesyncim/lc3/internal/rangecoding"
)

func randomLevels(rng *rand.Rand, n int, scale float64) []int32 {
	lv := make([]int32, n)
	for k := range lv {
		m := int32(rng.ExpFloat64() * scale * (1 - float64(k)/float64(n)))
		if m > MaxMagnitude {
			m = MaxMagnitude
		}
		if rng.Intn(2) == 0 {
			m = -m
		}
		lv[k] = m
	}
	return lv
}

func TestModelsValid(t *testing.T) {
	for c, m := range models {
		if m.cdf[0] != 0 {
			t.Fatalf("context %d: cdf[0] = %d", c, m.cdf[0])
		}
		for s := 0; s < NumSymbols; s++ {
			if m.cdf[s+1] <= m.cdf[s] {
				t.Fatalf("context %d: symbol %d has zero frequency", c, s)
			}
			if m.cost[s] <= 0 {
				t.Fatalf("context %d: symbol %d cost %d", c, s, m.cost[s])
			}
		}
		if ft := m.cdf[NumSymbols]; ft > 1<<16 {
			t.Fatalf("context %d: total %d exceeds 16 bits", c, ft)
		}
	}
	// Quiet contexts must favour the all-zero tuple.
	if models[0].cost[0] >= models[5].cost[0] {
		t.Fatalf("zero tuple cheaper in busy context (%d >= %d)", models[0].cost[0], models[5].cost[0])
	}
}

func TestContext(t *testing.T) {
	tests := []struct {
		k, m1, m2, n int
		want         int
	}{
		{0, 0, 0, 160, 0},
		{0, 1, 0, 160, 1},
		{0, 0, 4, 160, 2},
		{0, 3, 1, 160, 3},
		{0, 6, 0, 160, 4},
		{0, 100, 100, 160, 5},
		{40, 0, 0, 160, numClasses},
		{39, 0, 0, 160, 0},
	}
	for _, tt := range tests {
		if got := context(tt.k, tt.m1, tt.m2, tt.n); got != tt.want {
			t.Errorf("context(%d, %d, %d, %d) = %d, want %d", tt.k, tt.m1, tt.m2, tt.n, got, tt.want)
		}
	}
}

func TestLastNonZero(t *testing.T) {
	tests := []struct {
		lv   []int32
		want int
	}{
		{[]int32{0, 0, 0, 0}, 0},
		{[]int32{1, 0, 0, 0}, 1},
		{[]int32{0, 0, 0, -1}, 2},
		{[]int32{0, 0, 5, 0, 0, 0}, 2},
	}
	for _, tt := range tests {
		if got := LastNonZero(tt.lv); got != tt.want {
			t.Errorf("LastNonZero(%v) = %d, want %d", tt.lv, got, tt.want)
		}
	}
}

func TestRoundTripAndEstimate(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sizes := []int{20, 80, 160, 480, 960}
	scales := []float64{0.3, 1, 3, 20, 300, 20000}
	for iter := 0; iter < 200; iter++ {
		n := sizes[iter%len(sizes)]
		lv := randomLevels(rng, n, scales[rng.Intn(len(scales))])
		lastnz := LastNonZero(lv)
		est := EstimateBits(lv, lastnz)

		buf := make([]byte, 40000)
		var enc rangecoding.Encoder
		enc.Init(buf)
		Encode(&enc, lv, lastnz)
		tell := enc.Tell()
		enc.Done()
		if enc.Error() {
			t.Fatal("unexpected overflow")
		}
		if d := tell - est; d < -4 || d > 8+lastnz/64 {
			t.Errorf("iter %d: estimate %d bits, coder used %d", iter, est, tell)
		}

		got := make([]int32, n)
		for i := range got {
			got[i] = 99
		}
		var dec rangecoding.Decoder
		dec.Init(buf)
		if !Decode(&dec, got, lastnz) {
			t.Fatalf("iter %d: decoder overrun", iter)
		}
		for i := range lv {
			if got[i] != lv[i] {
				t.Fatalf("iter %d: level %d = %d, want %d", iter, i, got[i], lv[i])
			}
		}
	}
}

func TestExtremeMagnitudes(t *testing.T) {
	lv := []int32{MaxMagnitude, -MaxMagnitude, 0, 4, -4, 3, 65535, 1}
	lastnz := LastNonZero(lv)
	buf := make([]byte, 256)
	var enc rangecoding.Encoder
	enc.Init(buf)
	Encode(&enc, lv, lastnz)
	enc.Done()
	got := make([]int32, len(lv))
	var dec rangecoding.Decoder
	dec.Init(buf)
	if !Decode(&dec, got, lastnz) {
		t.Fatal("overrun")
	}
	for i := range lv {
		if got[i] != lv[i] {
			t.Fatalf("level %d = %d, want %d", i, got[i], lv[i])
		}
	}
}

func TestEmptySpectrum(t *testing.T) {
	lv := make([]int32, 160)
	if n := EstimateBits(lv, 0); n != 0 {
		t.Fatalf("EstimateBits = %d", n)
	}
	got := []int32{1, 2, 3, 4}
	var dec rangecoding.Decoder
	dec.Init(make([]byte, 8))
	Decode(&dec, got, 0)
	for _, v := range got {
		if v != 0 {
			t.Fatalf("levels not cleared: %v", got)
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	lv := make([]int32, 480)
	for iter := 0; iter < 300; iter++ {
		buf := make([]byte, 1+rng.Intn(200))
		rng.Read(buf)
		var dec rangecoding.Decoder
		dec.Init(buf)
		Decode(&dec, lv, rng.Intn(300))
		for _, v := range lv {
			if v > MaxMagnitude || v < -MaxMagnitude {
				t.Fatalf("level %d out of range", v)
			}
		}
	}
}

func BenchmarkEstimateBits(b *testing.B) {
	lv := randomLevels(rand.New(rand.NewSource(1)), 480, 4)
	lastnz := LastNonZero(lv)
	for i := 0; i < b.N; i++ {
		EstimateBits(lv, lastnz)
	}
}
