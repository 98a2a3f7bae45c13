// Package lc3 implements a low complexity communication audio codec in
// pure Go, following the architecture of LC3: a low-delay MDCT, a coded
// spectral envelope, a single global gain chosen by rate control, context
// adaptive arithmetic coding of the quantized spectrum, noise filling and
// packet loss concealment.
//
// It requires no cgo dependencies. The bitstream is the package's own and
// is not interoperable with other LC3 implementations.
//
// # Sessions
//
// A SessionConfig fixes the frame duration (2.5, 5, 7.5 or 10 ms), the
// codec sample rate (8 to 48 kHz, or 48 and 96 kHz in high-resolution
// mode), the PCM format and interleaving, and the bitrate. The bitrate is
// resolved to a constant frame size per channel:
//
//	bytes = bitrate * duration / 8e6, clamped to [20, 400]
//
// or to [124 kbps equivalent, 625] in high-resolution mode.
//
// # Frames
//
// Every channel is coded independently into a frame of FrameBytes bytes;
// a multi-channel block is the concatenation of the channel frames. A
// frame carries no header: the receiver must use the same SessionConfig.
//
// # Loss
//
// Pass a nil frame to Decoder.Decode for a lost block. Frames of the wrong
// size and frames whose spectrum overruns are concealed as well.
//
// # Latency
//
// Encoder and decoder together delay the signal by FrameSamples/2 PCM
// samples in addition to the frame itself.
package lc3
