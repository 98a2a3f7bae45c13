// errors.go defines public error types for the lc3 package.

package lc3

import (
	"errors"
	"fmt"
)

// Public error types for session setup, encoding and decoding.
var (
	// ErrInvalidFrameDuration indicates an unsupported frame duration.
	// Valid durations are 2500, 5000, 7500 and 10000 µs; high-resolution
	// mode excludes 7500.
	ErrInvalidFrameDuration = errors.New("lc3: invalid frame duration")

	// ErrInvalidSampleRate indicates an unsupported codec sample rate.
	// Valid rates are 8000, 16000, 24000, 32000 and 48000 Hz, or 48000 and
	// 96000 Hz in high-resolution mode.
	ErrInvalidSampleRate = errors.New("lc3: invalid sample rate")

	// ErrInvalidPCMSampleRate indicates a PCM rate that is not supported or
	// is below the codec sample rate.
	ErrInvalidPCMSampleRate = errors.New("lc3: invalid PCM sample rate")

	// ErrInvalidChannels indicates a channel count outside 1 to MaxChannels.
	ErrInvalidChannels = errors.New("lc3: invalid channels")

	// ErrInvalidStride indicates an interleaving stride below the channel count.
	ErrInvalidStride = errors.New("lc3: invalid stride")

	// ErrInvalidFormat indicates an unknown PCM sample format.
	ErrInvalidFormat = errors.New("lc3: invalid PCM format")

	// ErrInvalidBitrate indicates a non-positive bitrate.
	ErrInvalidBitrate = errors.New("lc3: invalid bitrate")

	// ErrInvalidFrameSize indicates a PCM block whose length is not one
	// frame for the session.
	ErrInvalidFrameSize = errors.New("lc3: invalid frame size")

	// ErrBufferSize indicates an output buffer of the wrong length.
	ErrBufferSize = errors.New("lc3: wrong buffer size")
)

// ConfigError reports a SessionConfig field that cannot be used.
type ConfigError struct {
	Field string
	Value int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s = %d", e.Err, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// EncodeError reports a buffer of the wrong length passed to Encode or
// Decode. The codec state is left untouched.
type EncodeError struct {
	Op   string // "encode" or "decode"
	Got  int    // bytes supplied
	Want int    // bytes expected
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("lc3: %s: %d bytes, want %d: %v", e.Op, e.Got, e.Want, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
