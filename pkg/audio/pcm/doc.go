// Package pcm describes linear 16-bit PCM audio and converts it between
// sample rates.
//
// Speech providers return raw little-endian PCM. Before it is wrapped in a
// container the samples are normalized to [Default] (24 kHz, mono, 16-bit):
//
//	rate := pcm.RateFromMIME("audio/L16;codec=pcm;rate=16000")
//	out, err := pcm.Resample(data, rate, pcm.Default.SampleRate())
package pcm
