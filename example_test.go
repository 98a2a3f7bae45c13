package lc3_test

import (
	"fmt"
	"log"

	"github.com/thesyncim/lc3"
)

func ExampleNewEncoder() {
	// 10 ms frames of 48 kHz stereo at 64 kbps per channel.
	enc, err := lc3.NewEncoder(lc3.SessionConfig{
		FrameDuration: 10000,
		SampleRate:    48000,
		Channels:      2,
		Bitrate:       64000,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d samples per channel, %d bytes per channel frame\n", enc.FrameSamples(), enc.FrameBytes())
	// Output: 480 samples per channel, 80 bytes per channel frame
}

func ExampleEncoder_Encode() {
	cfg := lc3.SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}
	enc, err := lc3.NewEncoder(cfg)
	if err != nil {
		log.Fatal(err)
	}

	pcm := make([]byte, enc.PCMBlockBytes()) // one block of S16 silence
	frame := make([]byte, enc.FrameBytes())
	if err := enc.Encode(pcm, frame); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Encoded %d bytes of PCM to %d bytes\n", len(pcm), len(frame))
	// Output: Encoded 320 bytes of PCM to 40 bytes
}

func ExampleDecoder_Decode() {
	cfg := lc3.SessionConfig{FrameDuration: 10000, SampleRate: 16000, Bitrate: 32000}
	enc, _ := lc3.NewEncoder(cfg)
	dec, _ := lc3.NewDecoder(cfg)

	frame, _ := enc.EncodeFrame(make([]byte, enc.PCMBlockBytes()))
	pcm := make([]byte, dec.PCMBlockBytes())

	concealed, err := dec.Decode(frame, pcm)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("received, concealed:", concealed)

	// A lost frame is concealed.
	concealed, _ = dec.Decode(nil, pcm)
	fmt.Println("lost, concealed:", concealed)
	// Output:
	// received, concealed: false
	// lost, concealed: true
}

func ExampleFrameBytes() {
	n, err := lc3.FrameBytes(false, 7500, 48000, 80000)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(n, "bytes")
	fmt.Println(lc3.ResolveBitrate(7500, n), "bps")
	// Output:
	// 75 bytes
	// 80000 bps
}

func ExampleSessionConfig_Validate() {
	err := lc3.SessionConfig{FrameDuration: 7500, SampleRate: 96000, HighResolution: true, Bitrate: 256000}.Validate()
	fmt.Println(err)
	// Output: lc3: invalid frame duration: FrameDuration = 7500
}
