package cli

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-audio/audio"

	"github.com/thesyncim/lc3"
	"github.com/thesyncim/lc3/internal/observe"
	"github.com/thesyncim/lc3/internal/testsignal"
	"github.com/thesyncim/lc3/pcmbuf"
)

// runResult is the outcome of pushing a signal through one session.
type runResult struct {
	Decoded   []float32 // interleaved, nominal range [-1, 1]
	Frames    int
	Lost      int
	Concealed int
	Encode    time.Duration
	Decode    time.Duration
}

// run encodes and decodes the interleaved signal in through cfg block by
// block, dropping blocks with probability loss. A trailing partial block
// is ignored. m may be nil.
func run(ctx context.Context, cfg lc3.SessionConfig, in []float32, loss float64, seed uint64, m *observe.Metrics) (runResult, error) {
	enc, err := lc3.NewEncoder(cfg)
	if err != nil {
		return runResult{}, err
	}
	dec, err := lc3.NewDecoder(cfg)
	if err != nil {
		return runResult{}, err
	}
	channels := max(cfg.Channels, 1)
	pcmRate := cfg.PCMSampleRate
	if pcmRate == 0 {
		pcmRate = cfg.SampleRate
	}
	name := label(cfg)
	block := enc.FrameSamples() * channels
	frame := make([]byte, enc.FrameBytes()*channels)
	out := make([]byte, dec.PCMBlockBytes())
	rng := rand.New(rand.NewPCG(seed, 0x1c3))
	format := &audio.Format{NumChannels: channels, SampleRate: pcmRate}

	var res runResult
	for off := 0; off+block <= len(in); off += block {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		pcm, err := pcmbuf.FromFloat32Buffer(&audio.Float32Buffer{Format: format, Data: in[off : off+block]}, cfg.Format)
		if err != nil {
			return res, err
		}

		start := time.Now()
		if err := enc.Encode(pcm, frame); err != nil {
			return res, fmt.Errorf("encode block %d: %w", res.Frames, err)
		}
		d := time.Since(start)
		res.Encode += d
		if m != nil {
			m.RecordEncode(ctx, name, d)
			for ch := 0; ch < channels; ch++ {
				st := enc.Stats(ch)
				m.RecordRateControl(ctx, name, st.UsedBits, st.Budget, st.Retries)
			}
		}

		received := frame
		if loss > 0 && rng.Float64() < loss {
			received = nil
			res.Lost++
		}
		start = time.Now()
		concealed, err := dec.Decode(received, out)
		if err != nil {
			return res, fmt.Errorf("decode block %d: %w", res.Frames, err)
		}
		d = time.Since(start)
		res.Decode += d
		if concealed {
			res.Concealed++
		}
		if m != nil {
			m.RecordDecode(ctx, name, d, concealed)
		}

		buf, err := pcmbuf.ToFloat32Buffer(out, cfg.Format, channels, pcmRate)
		if err != nil {
			return res, err
		}
		res.Decoded = append(res.Decoded, buf.Data...)
		res.Frames++
	}
	return res, nil
}

// quality compares the decoded output of res with in.
type quality struct {
	SNR         float64 `yaml:"snr_db"`
	Correlation float64 `yaml:"correlation"`
	PeakError   float64 `yaml:"peak_error"`
}

// measure aligns out with in by the codec delay and skips the first two
// blocks of warm-up.
func measure(in, out []float32, delay, blockSamples, channels int) quality {
	shift := delay * channels
	skip := 2 * blockSamples * channels
	q := quality{SNR: testsignal.SNR(in, out, shift, skip)}
	var xy, xx, yy float64
	for i := skip; i+shift < len(out) && i < len(in); i++ {
		x, y := float64(in[i]), float64(out[i+shift])
		xy += x * y
		xx += x * x
		yy += y * y
		if e := math.Abs(x - y); e > q.PeakError {
			q.PeakError = e
		}
	}
	if xx > 0 && yy > 0 {
		q.Correlation = xy / math.Sqrt(xx*yy)
	}
	return q
}

func signal(kind string, cfg lc3.SessionConfig, seconds float64) ([]float32, error) {
	rate := cfg.PCMSampleRate
	if rate == 0 {
		rate = cfg.SampleRate
	}
	channels := max(cfg.Channels, 1)
	samples := int(seconds*float64(rate)) * channels
	return testsignal.Generate(kind, rate, samples, channels)
}
