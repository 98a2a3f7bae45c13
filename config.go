// config.go defines the session configuration and the size queries.

package lc3

import (
	"errors"

	"github.com/thesyncim/lc3/internal/codec"
	"github.com/thesyncim/lc3/internal/tables"
)

// MaxChannels is the largest channel count of one session.
const MaxChannels = 8

// SessionConfig parameterizes one Encoder or Decoder. It is copied at
// construction and cannot change afterwards.
type SessionConfig struct {
	// FrameDuration in microseconds: 2500, 5000, 7500 or 10000.
	FrameDuration int

	// SampleRate is the codec sample rate in Hz.
	SampleRate int

	// PCMSampleRate is the rate of the PCM blocks in Hz. Zero means
	// SampleRate. When higher, the encoder band-limits to SampleRate and
	// the decoder renders at PCMSampleRate.
	PCMSampleRate int

	// Format is the PCM sample format.
	Format PCMFormat

	// Channels is the number of coded channels. Zero means 1.
	Channels int

	// Stride is the distance in samples between consecutive samples of one
	// channel. Zero means Channels.
	Stride int

	// HighResolution selects the high-resolution mode.
	HighResolution bool

	// Bitrate per channel in bits per second. It is resolved to a whole
	// frame size and clamped to the frame size limits of the mode.
	Bitrate int
}

func (c SessionConfig) channels() int {
	if c.Channels == 0 {
		return 1
	}
	return c.Channels
}

func (c SessionConfig) stride() int {
	if c.Stride == 0 {
		return c.channels()
	}
	return c.Stride
}

func (c SessionConfig) pcmRate() int {
	if c.PCMSampleRate == 0 {
		return c.SampleRate
	}
	return c.PCMSampleRate
}

// Validate reports every unusable field, joined.
func (c SessionConfig) Validate() error {
	var errs []error
	bad := func(field string, value int, err error) {
		errs = append(errs, &ConfigError{Field: field, Value: value, Err: err})
	}
	if !tables.ValidDuration(c.HighResolution, c.FrameDuration) {
		bad("FrameDuration", c.FrameDuration, ErrInvalidFrameDuration)
	}
	if !tables.ValidRate(c.HighResolution, c.SampleRate) {
		bad("SampleRate", c.SampleRate, ErrInvalidSampleRate)
	}
	if pcm := c.pcmRate(); !tables.ValidRate(c.HighResolution, pcm) || pcm < c.SampleRate {
		bad("PCMSampleRate", c.PCMSampleRate, ErrInvalidPCMSampleRate)
	}
	if ch := c.channels(); ch < 1 || ch > MaxChannels {
		bad("Channels", c.Channels, ErrInvalidChannels)
	} else if c.stride() < ch {
		bad("Stride", c.Stride, ErrInvalidStride)
	}
	if !c.Format.valid() {
		bad("Format", int(c.Format), ErrInvalidFormat)
	}
	if c.Bitrate <= 0 {
		bad("Bitrate", c.Bitrate, ErrInvalidBitrate)
	}
	return errors.Join(errs...)
}

// geometry is the resolved layout of a validated session.
type geometry struct {
	n         int // coded coefficients per channel
	ns        int // PCM samples per channel
	nbytes    int // frame bytes per channel
	channels  int
	stride    int
	format    PCMFormat
	blockSize int // PCM block bytes
}

func (c SessionConfig) resolve() (geometry, error) {
	if err := c.Validate(); err != nil {
		return geometry{}, err
	}
	coded, _ := tables.Lookup(c.HighResolution, c.FrameDuration, c.SampleRate)
	pcm, _ := tables.Lookup(c.HighResolution, c.FrameDuration, c.pcmRate())
	g := geometry{
		n:        coded.FrameSamples,
		ns:       pcm.FrameSamples,
		nbytes:   tables.FrameBytes(c.HighResolution, c.FrameDuration, c.Bitrate),
		channels: c.channels(),
		stride:   c.stride(),
		format:   c.Format,
	}
	g.blockSize = g.ns * g.stride * g.format.BytesPerSample()
	return g, nil
}

// FrameSamples returns the samples per channel of one frame.
func FrameSamples(frameDurationUs, sampleRateHz int) (int, error) {
	return HRFrameSamples(false, frameDurationUs, sampleRateHz)
}

// HRFrameSamples is FrameSamples with the mode selected by hr.
func HRFrameSamples(hr bool, frameDurationUs, sampleRateHz int) (int, error) {
	c, err := lookup(hr, frameDurationUs, sampleRateHz)
	if err != nil {
		return 0, err
	}
	return c.FrameSamples, nil
}

// FrameBytes returns the size of one channel's frame at bitrate, clamped
// to the limits of the mode.
func FrameBytes(hr bool, frameDurationUs, sampleRateHz, bitrate int) (int, error) {
	if _, err := lookup(hr, frameDurationUs, sampleRateHz); err != nil {
		return 0, err
	}
	if bitrate <= 0 {
		return 0, &ConfigError{Field: "Bitrate", Value: bitrate, Err: ErrInvalidBitrate}
	}
	return tables.FrameBytes(hr, frameDurationUs, bitrate), nil
}

// ResolveBitrate returns the lowest bitrate that yields frames of
// frameBytes at frameDurationUs.
func ResolveBitrate(frameDurationUs, frameBytes int) int {
	return tables.Bitrate(frameDurationUs, frameBytes)
}

// EncoderSize returns the bytes of state one encoder channel allocates.
func EncoderSize(frameDurationUs, sampleRateHz int) (int, error) {
	return HREncoderSize(false, frameDurationUs, sampleRateHz)
}

// HREncoderSize is EncoderSize with the mode selected by hr.
func HREncoderSize(hr bool, frameDurationUs, sampleRateHz int) (int, error) {
	c, err := lookup(hr, frameDurationUs, sampleRateHz)
	if err != nil {
		return 0, err
	}
	return codec.EncoderStateSize(c.FrameSamples, c.FrameSamples), nil
}

// DecoderSize returns the bytes of state one decoder channel allocates.
func DecoderSize(frameDurationUs, sampleRateHz int) (int, error) {
	return HRDecoderSize(false, frameDurationUs, sampleRateHz)
}

// HRDecoderSize is DecoderSize with the mode selected by hr.
func HRDecoderSize(hr bool, frameDurationUs, sampleRateHz int) (int, error) {
	c, err := lookup(hr, frameDurationUs, sampleRateHz)
	if err != nil {
		return 0, err
	}
	return codec.DecoderStateSize(c.FrameSamples, c.FrameSamples), nil
}

func lookup(hr bool, frameDurationUs, sampleRateHz int) (tables.Config, error) {
	if !tables.ValidDuration(hr, frameDurationUs) {
		return tables.Config{}, &ConfigError{Field: "FrameDuration", Value: frameDurationUs, Err: ErrInvalidFrameDuration}
	}
	c, ok := tables.Lookup(hr, frameDurationUs, sampleRateHz)
	if !ok {
		return tables.Config{}, &ConfigError{Field: "SampleRate", Value: sampleRateHz, Err: ErrInvalidSampleRate}
	}
	return c, nil
}
