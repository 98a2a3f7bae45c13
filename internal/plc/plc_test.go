package plc

import (
	"math"
	"testing"
)

// TestPLCState tests basic loss tracking.
func TestPLCState(t *testing.T) {
	state := NewState(160, 10000)
	if state.LostCount() != 0 {
		t.Errorf("initial lostCount = %d, want 0", state.LostCount())
	}
	if state.FadeFactor() != 1.0 {
		t.Errorf("initial fadeFactor = %f, want 1.0", state.FadeFactor())
	}
	if state.IsExhausted() {
		t.Error("initial state should not be exhausted")
	}

	fade := state.RecordLoss()
	if state.LostCount() != 1 {
		t.Errorf("after 1 loss: lostCount = %d, want 1", state.LostCount())
	}
	if math.Abs(float64(fade)-FadePer10ms) > 1e-6 {
		t.Errorf("after 1 loss: fadeFactor = %f, want %f", fade, FadePer10ms)
	}
}

// TestFadeScalesWithDuration checks that the fade per unit time is the
// same for every frame duration.
func TestFadeScalesWithDuration(t *testing.T) {
	for _, dt := range []int{2500, 5000, 7500, 10000} {
		state := NewState(80, dt)
		frames := 30000 / dt
		var fade float32
		for i := 0; i < frames; i++ {
			fade = state.RecordLoss()
		}
		if math.Abs(float64(fade)-0.125) > 1e-3 {
			t.Errorf("dt=%d: fade after 30 ms = %f, want 0.125", dt, fade)
		}
	}
}

func TestExhaustion(t *testing.T) {
	for _, dt := range []int{2500, 7500, 10000} {
		state := NewState(80, dt)
		if want := (MaxConcealedUs + dt - 1) / dt; state.MaxFrames() != want {
			t.Fatalf("dt=%d: MaxFrames = %d, want %d", dt, state.MaxFrames(), want)
		}
		for i := 1; i <= state.MaxFrames(); i++ {
			state.RecordLoss()
		}
		if !state.IsExhausted() {
			t.Errorf("dt=%d: not exhausted after %d frames", dt, state.MaxFrames())
		}
	}
}

// TestPLCReset tests recovery after a good frame.
func TestPLCReset(t *testing.T) {
	state := NewState(4, 10000)
	state.RecordLoss()
	state.RecordLoss()
	state.Good([]float32{1, 2, 3, 4})
	if state.LostCount() != 0 || state.FadeFactor() != 1 {
		t.Errorf("after good frame: lost=%d fade=%f", state.LostCount(), state.FadeFactor())
	}
	state.Reset()
	dst := make([]float32, 4)
	if state.Conceal(dst) {
		t.Error("Conceal after Reset reported a spectrum")
	}
}

func TestConcealSpectrum(t *testing.T) {
	state := NewState(64, 10000)
	last := make([]float32, 64)
	for i := range last {
		last[i] = float32(i + 1)
	}
	state.Good(last)
	dst := make([]float32, 64)
	if !state.Conceal(dst) {
		t.Fatal("Conceal returned false")
	}
	flips := 0
	for i := range dst {
		if math.Abs(float64(dst[i])) != 0.5*float64(last[i]) {
			t.Fatalf("coeff %d = %f, want +-%f", i, dst[i], 0.5*last[i])
		}
		if dst[i] < 0 {
			flips++
		}
	}
	if flips == 0 || flips == 64 {
		t.Fatalf("sign flips = %d, want a mix", flips)
	}
}

func TestConcealWithoutHistory(t *testing.T) {
	state := NewState(8, 10000)
	dst := []float32{1, 1, 1, 1, 1, 1, 1, 1}
	if state.Conceal(dst) {
		t.Fatal("Conceal returned true without a good frame")
	}
	for _, v := range dst {
		if v != 0 {
			t.Fatal("dst not cleared")
		}
	}
}

func TestLimitEnergyMonotonic(t *testing.T) {
	state := NewState(16, 5000)
	good := make([]float32, 16)
	for i := range good {
		good[i] = 1000
	}
	state.Observe(good)
	prev := state.LastEnergy()
	for f := 0; f < 10; f++ {
		// A concealed frame louder than the last one must be pulled down.
		pcm := make([]float32, 16)
		for i := range pcm {
			pcm[i] = 5000
		}
		state.LimitEnergy(pcm)
		e := state.LastEnergy()
		if e > prev {
			t.Fatalf("frame %d: energy %g > previous %g", f, e, prev)
		}
		prev = e
	}
}

func TestLimitEnergyFromSilence(t *testing.T) {
	state := NewState(4, 10000)
	pcm := []float32{1, -1, 1, -1}
	state.LimitEnergy(pcm)
	for _, v := range pcm {
		if v != 0 {
			t.Fatalf("pcm = %v, want silence", pcm)
		}
	}
}
