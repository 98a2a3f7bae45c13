// Package plc implements packet loss concealment for one channel of the
// decoder. A lost frame is replaced by the last good spectrum with random
// sign flips, faded per lost frame; the output energy of consecutive
// concealed frames never grows and reaches silence after MaxConcealedUs.
package plc

import (
	"math"

	"github.com/chewxy/math32"
)

// FadePer10ms is the gain applied per 10 ms of consecutive loss (-6 dB).
const FadePer10ms = 0.5

// MaxConcealedUs is the loss duration after which output is silent.
const MaxConcealedUs = 120000

// minFade is the gain below which concealment is treated as silent.
const minFade = 0.001

// State tracks concealment across frames.
type State struct {
	// lostCount is the number of consecutive lost frames.
	// Reset to 0 when a good frame is decoded.
	lostCount int

	// maxFrames is the number of lost frames covering MaxConcealedUs.
	maxFrames int

	// fadePerFrame is the gain step per lost frame for this duration.
	fadePerFrame float32

	// fadeFactor is the current gain (1.0 = full volume).
	fadeFactor float32

	seed uint32

	// lastCoeffs is the spectrum of the last good frame.
	lastCoeffs []float32
	haveLast   bool

	// lastEnergy is the energy of the last output frame.
	lastEnergy float64
}

// NewState returns concealment state for frames of n coefficients lasting
// durationUs.
func NewState(n, durationUs int) *State {
	s := &State{
		maxFrames:    (MaxConcealedUs + durationUs - 1) / durationUs,
		fadePerFrame: math32.Pow(FadePer10ms, float32(durationUs)/10000),
		lastCoeffs:   make([]float32, n),
	}
	s.Reset()
	return s
}

// Reset returns the state to that of a fresh decoder.
func (s *State) Reset() {
	s.lostCount = 0
	s.fadeFactor = 1
	s.seed = 24607
	clear(s.lastCoeffs)
	s.haveLast = false
	s.lastEnergy = 0
}

// Good records the spectrum of a correctly decoded frame.
func (s *State) Good(coeffs []float32) {
	copy(s.lastCoeffs, coeffs)
	s.haveLast = true
	s.lostCount = 0
	s.fadeFactor = 1
}

// RecordLoss records a lost frame and returns the fade to apply to it.
func (s *State) RecordLoss() float32 {
	s.lostCount++
	s.fadeFactor *= s.fadePerFrame
	if s.fadeFactor < minFade || s.lostCount >= s.maxFrames {
		s.fadeFactor = 0
	}
	return s.fadeFactor
}

// LostCount returns the number of consecutive lost frames.
func (s *State) LostCount() int { return s.lostCount }

// FadeFactor returns the current concealment gain.
func (s *State) FadeFactor() float32 { return s.fadeFactor }

// MaxFrames returns the number of lost frames after which output is silent.
func (s *State) MaxFrames() int { return s.maxFrames }

// IsExhausted reports whether concealment has faded to silence.
func (s *State) IsExhausted() bool {
	return s.lostCount > 0 && s.fadeFactor == 0
}

// Conceal records a loss and writes the replacement spectrum to dst. It
// returns false when there is nothing to conceal with or the fade is
// exhausted; dst is zeroed in that case.
func (s *State) Conceal(dst []float32) bool {
	g := s.RecordLoss()
	if !s.haveLast || g == 0 {
		clear(dst)
		return false
	}
	for k, c := range s.lastCoeffs {
		s.seed = s.seed*1664525 + 1013904223
		if s.seed&0x80000000 != 0 {
			c = -c
		}
		dst[k] = c * g
	}
	return true
}

func energy(pcm []float32) float64 {
	var e float64
	for _, v := range pcm {
		e += float64(v) * float64(v)
	}
	return e
}

// Observe records the energy of a good output frame.
func (s *State) Observe(pcm []float32) {
	s.lastEnergy = energy(pcm)
}

// LastEnergy returns the energy recorded for the previous output frame.
func (s *State) LastEnergy() float64 { return s.lastEnergy }

// LimitEnergy scales a concealed output frame so its energy does not
// exceed that of the previous frame times the squared per-frame fade, and
// records the result.
func (s *State) LimitEnergy(pcm []float32) {
	f := float64(s.fadePerFrame)
	limit := s.lastEnergy * f * f
	e := energy(pcm)
	for e > limit {
		if limit <= 0 {
			clear(pcm)
			e = 0
			break
		}
		g := float32(math.Sqrt(limit/e) * 0.9999)
		for i := range pcm {
			pcm[i] *= g
		}
		e = energy(pcm)
	}
	s.lastEnergy = e
}
