package lc3

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncoderGeometry(t *testing.T) {
	cfg := SessionConfig{FrameDuration: 7500, SampleRate: 32000, PCMSampleRate: 48000, Channels: 2, Format: PCMFormatS24, Bitrate: 48000}
	enc, err := NewEncoder(cfg)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if enc.FrameSamples() != 360 {
		t.Errorf("FrameSamples = %d, want 360", enc.FrameSamples())
	}
	if enc.FrameBytes() != 45 {
		t.Errorf("FrameBytes = %d, want 45", enc.FrameBytes())
	}
	if enc.PCMBlockBytes() != 360*2*4 {
		t.Errorf("PCMBlockBytes = %d", enc.PCMBlockBytes())
	}
	if enc.Delay() != 180 {
		t.Errorf("Delay = %d, want 180", enc.Delay())
	}
	if enc.Config() != cfg {
		t.Errorf("Config = %+v", enc.Config())
	}
}

func TestEncodeWrongSizes(t *testing.T) {
	cfg := SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}
	enc, err := NewEncoder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	pcm := testSineBlock(cfg, 160)
	out := make([]byte, enc.FrameBytes())

	err = enc.Encode(pcm[:len(pcm)-2], out)
	var ee *EncodeError
	if !errors.As(err, &ee) || !errors.Is(err, ErrInvalidFrameSize) || ee.Got != 318 || ee.Want != 320 {
		t.Fatalf("short pcm: %v", err)
	}
	if err := enc.Encode(pcm, out[:10]); !errors.Is(err, ErrBufferSize) {
		t.Fatalf("short out: %v", err)
	}

	// A rejected call leaves the state untouched.
	ref, _ := NewEncoder(cfg)
	want, _ := ref.EncodeFrame(pcm)
	got, err := enc.EncodeFrame(pcm)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("rejected calls changed the encoder state")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	cfg := SessionConfig{FrameDuration: 5000, SampleRate: 48000, Channels: 2, Bitrate: 80000}
	a, _ := NewEncoder(cfg)
	b, _ := NewEncoder(cfg)
	pcm := testSineBlock(cfg, 240)
	for i := 0; i < 10; i++ {
		fa, err := a.EncodeFrame(pcm)
		if err != nil {
			t.Fatal(err)
		}
		fb, _ := b.EncodeFrame(pcm)
		if !bytes.Equal(fa, fb) {
			t.Fatalf("frame %d differs", i)
		}
		if len(fa) != 2*a.FrameBytes() {
			t.Fatalf("frame %d: %d bytes", i, len(fa))
		}
	}
	a.Reset()
	b.Reset()
	fa, _ := a.EncodeFrame(pcm)
	fb, _ := b.EncodeFrame(pcm)
	if !bytes.Equal(fa, fb) {
		t.Fatal("frames differ after Reset")
	}
}

func TestEncodeChannelsIndependent(t *testing.T) {
	// Channel 1 of a stereo session codes like a mono session fed the same
	// samples.
	stereo := SessionConfig{FrameDuration: 10000, SampleRate: 24000, Channels: 2, Bitrate: 48000}
	mono := SessionConfig{FrameDuration: 10000, SampleRate: 24000, Bitrate: 48000}
	se, _ := NewEncoder(stereo)
	me, _ := NewEncoder(mono)
	sf, err := se.EncodeFrame(testSineBlock(stereo, 240))
	if err != nil {
		t.Fatal(err)
	}
	mf, _ := me.EncodeFrame(testSineBlock(mono, 240))
	n := se.FrameBytes()
	if !bytes.Equal(sf[:n], mf) || !bytes.Equal(sf[n:], mf) {
		t.Fatal("stereo channel frames differ from the mono frame")
	}
}

func TestEncoderStats(t *testing.T) {
	cfg := SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}
	enc, _ := NewEncoder(cfg)
	if _, err := enc.EncodeFrame(testSineBlock(cfg, 160)); err != nil {
		t.Fatal(err)
	}
	st := enc.Stats(0)
	if st.LastNZ == 0 || st.UsedBits == 0 || st.UsedBits > 8*enc.FrameBytes() {
		t.Fatalf("stats %+v", st)
	}
}

func BenchmarkEncode16k10msS16(b *testing.B) {
	cfg := SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}
	enc, _ := NewEncoder(cfg)
	pcm := testSineBlock(cfg, 160)
	out := make([]byte, enc.FrameBytes())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = enc.Encode(pcm, out)
	}
}
