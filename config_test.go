package lc3

import (
	"errors"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	tests := []SessionConfig{
		{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000},
		{FrameDuration: 7500, SampleRate: 8000, Channels: 2, Bitrate: 24000},
		{FrameDuration: 2500, SampleRate: 48000, PCMSampleRate: 48000, Format: PCMFormatFloat, Bitrate: 128000},
		{FrameDuration: 5000, SampleRate: 16000, PCMSampleRate: 48000, Channels: 2, Stride: 4, Bitrate: 32000},
		{FrameDuration: 10000, SampleRate: 96000, HighResolution: true, Format: PCMFormatS24Packed, Bitrate: 400000},
		{FrameDuration: 2500, SampleRate: 48000, PCMSampleRate: 96000, HighResolution: true, Bitrate: 200000},
		{FrameDuration: 10000, SampleRate: 24000, Channels: MaxChannels, Bitrate: 1},
	}
	for _, cfg := range tests {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%+v: %v", cfg, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	base := SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}
	tests := []struct {
		name  string
		edit  func(*SessionConfig)
		field string
		err   error
	}{
		{"duration", func(c *SessionConfig) { c.FrameDuration = 20000 }, "FrameDuration", ErrInvalidFrameDuration},
		{"hr_7500", func(c *SessionConfig) { c.FrameDuration = 7500; c.SampleRate = 48000; c.HighResolution = true }, "FrameDuration", ErrInvalidFrameDuration},
		{"rate_44100", func(c *SessionConfig) { c.SampleRate = 44100; c.PCMSampleRate = 48000 }, "SampleRate", ErrInvalidSampleRate},
		{"hr_rate", func(c *SessionConfig) { c.HighResolution = true; c.PCMSampleRate = 48000 }, "SampleRate", ErrInvalidSampleRate},
		{"pcm_below", func(c *SessionConfig) { c.PCMSampleRate = 8000 }, "PCMSampleRate", ErrInvalidPCMSampleRate},
		{"pcm_unsupported", func(c *SessionConfig) { c.PCMSampleRate = 22050 }, "PCMSampleRate", ErrInvalidPCMSampleRate},
		{"channels", func(c *SessionConfig) { c.Channels = MaxChannels + 1 }, "Channels", ErrInvalidChannels},
		{"negative_channels", func(c *SessionConfig) { c.Channels = -1 }, "Channels", ErrInvalidChannels},
		{"stride", func(c *SessionConfig) { c.Channels = 2; c.Stride = 1 }, "Stride", ErrInvalidStride},
		{"format", func(c *SessionConfig) { c.Format = PCMFormat(9) }, "Format", ErrInvalidFormat},
		{"bitrate", func(c *SessionConfig) { c.Bitrate = 0 }, "Bitrate", ErrInvalidBitrate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.edit(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.err) {
				t.Fatalf("Validate() = %v, want %v", err, tt.err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Fatalf("Validate() = %v, want a ConfigError for %s", err, tt.field)
			}
			if _, err := NewEncoder(cfg); !errors.Is(err, tt.err) {
				t.Fatalf("NewEncoder() = %v, want %v", err, tt.err)
			}
			if _, err := NewDecoder(cfg); !errors.Is(err, tt.err) {
				t.Fatalf("NewDecoder() = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := SessionConfig{FrameDuration: 1, SampleRate: 1, Bitrate: -1}.Validate()
	for _, want := range []error{ErrInvalidFrameDuration, ErrInvalidSampleRate, ErrInvalidBitrate} {
		if !errors.Is(err, want) {
			t.Errorf("Validate() = %v, missing %v", err, want)
		}
	}
}

func TestFrameSamplesQuery(t *testing.T) {
	tests := []struct {
		hr       bool
		dt, sr   int
		want     int
		wantFail bool
	}{
		{false, 10000, 16000, 160, false},
		{false, 7500, 48000, 360, false},
		{false, 2500, 8000, 20, false},
		{true, 10000, 96000, 960, false},
		{true, 2500, 48000, 120, false},
		{false, 10000, 96000, 0, true},
		{false, 10000, 44100, 0, true},
		{true, 7500, 48000, 0, true},
		{false, 0, 16000, 0, true},
	}
	for _, tt := range tests {
		got, err := HRFrameSamples(tt.hr, tt.dt, tt.sr)
		if (err != nil) != tt.wantFail || got != tt.want {
			t.Errorf("HRFrameSamples(%v, %d, %d) = %d, %v; want %d", tt.hr, tt.dt, tt.sr, got, err, tt.want)
		}
	}
	if n, err := FrameSamples(5000, 24000); err != nil || n != 120 {
		t.Errorf("FrameSamples(5000, 24000) = %d, %v", n, err)
	}
}

func TestFrameBytesQuery(t *testing.T) {
	tests := []struct {
		hr          bool
		dt, sr, bps int
		want        int
	}{
		{false, 10000, 16000, 32000, 40},
		{false, 10000, 16000, 1000, 20},
		{false, 10000, 48000, 1000000, 400},
		{false, 7500, 48000, 64000, 60},
		{true, 10000, 96000, 1000, 155},
		{true, 10000, 96000, 10000000, 625},
		{true, 2500, 48000, 1000, 38},
		{true, 5000, 48000, 1000, 77},
	}
	for _, tt := range tests {
		got, err := FrameBytes(tt.hr, tt.dt, tt.sr, tt.bps)
		if err != nil || got != tt.want {
			t.Errorf("FrameBytes(%v, %d, %d, %d) = %d, %v; want %d", tt.hr, tt.dt, tt.sr, tt.bps, got, err, tt.want)
		}
	}
	if _, err := FrameBytes(false, 10000, 16000, 0); !errors.Is(err, ErrInvalidBitrate) {
		t.Errorf("zero bitrate: %v", err)
	}
	if _, err := FrameBytes(false, 10000, 11025, 32000); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("bad rate: %v", err)
	}
}

func TestResolveBitrate(t *testing.T) {
	for _, dt := range []int{2500, 5000, 7500, 10000} {
		for nbytes := 20; nbytes <= 400; nbytes++ {
			got, _ := FrameBytes(false, dt, 48000, ResolveBitrate(dt, nbytes))
			if got != nbytes {
				t.Fatalf("dt=%d: FrameBytes(ResolveBitrate(%d)) = %d", dt, nbytes, got)
			}
		}
	}
}

func TestStateSizeQueries(t *testing.T) {
	small, err := EncoderSize(10000, 8000)
	if err != nil {
		t.Fatal(err)
	}
	large, err := EncoderSize(10000, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if small <= 0 || large <= small {
		t.Fatalf("EncoderSize: 8 kHz %d, 48 kHz %d", small, large)
	}
	hr, err := HRDecoderSize(true, 10000, 96000)
	if err != nil {
		t.Fatal(err)
	}
	if d, _ := DecoderSize(10000, 48000); hr <= d {
		t.Fatalf("HRDecoderSize %d <= DecoderSize %d", hr, d)
	}
	if _, err := EncoderSize(10000, 96000); err == nil {
		t.Fatal("EncoderSize accepted 96 kHz outside high-resolution mode")
	}
	if _, err := DecoderSize(3000, 16000); !errors.Is(err, ErrInvalidFrameDuration) {
		t.Fatalf("DecoderSize(3000): %v", err)
	}
}

func TestGeometryDefaults(t *testing.T) {
	g, err := SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}.resolve()
	if err != nil {
		t.Fatal(err)
	}
	if g.channels != 1 || g.stride != 1 || g.ns != 160 || g.n != 160 || g.nbytes != 40 || g.blockSize != 320 {
		t.Fatalf("geometry %+v", g)
	}
	g, err = SessionConfig{FrameDuration: 10000, SampleRate: 16000, PCMSampleRate: 48000, Channels: 2, Stride: 3, Format: PCMFormatS24Packed, Bitrate: 32000}.resolve()
	if err != nil {
		t.Fatal(err)
	}
	if g.n != 160 || g.ns != 480 || g.blockSize != 480*3*3 {
		t.Fatalf("geometry %+v", g)
	}
}
