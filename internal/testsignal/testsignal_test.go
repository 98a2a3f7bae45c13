package testsignal

import (
	"math"
	"testing"
)

func TestGenerateKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			a, err := Generate(kind, 16000, 3200, 2)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := Generate(kind, 16000, 3200, 2)
			if HashFloat32LE(a) != HashFloat32LE(b) {
				t.Fatal("generator not deterministic")
			}
			for i, v := range a {
				if math.IsNaN(float64(v)) || v > 1 || v < -1 {
					t.Fatalf("sample %d = %g", i, v)
				}
			}
		})
	}
}

func TestGenerateRejects(t *testing.T) {
	tests := []struct {
		kind                 string
		rate, samples, chans int
	}{
		{Sine, 0, 100, 1},
		{Sine, 8000, 0, 1},
		{Sine, 8000, 100, 0},
		{Sine, 8000, 101, 2},
		{"square", 8000, 100, 1},
	}
	for _, tt := range tests {
		if _, err := Generate(tt.kind, tt.rate, tt.samples, tt.chans); err == nil {
			t.Errorf("Generate(%q, %d, %d, %d) succeeded", tt.kind, tt.rate, tt.samples, tt.chans)
		}
	}
}

func TestSNR(t *testing.T) {
	want := SineWave(8000, 800, 1, 500, 1)
	got := make([]float32, len(want)+3)
	for i := range want {
		got[i+3] = want[i] * 1.01
	}
	if snr := SNR(want, got, 3, 0); math.Abs(snr-40) > 0.1 {
		t.Fatalf("SNR = %g, want 40", snr)
	}
	if snr := SNR(want, got[3:], 0, 0); math.Abs(snr-40) > 0.1 {
		t.Fatalf("SNR without delay = %g", snr)
	}
}
