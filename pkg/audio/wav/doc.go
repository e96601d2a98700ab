// Package wav wraps raw PCM samples in a RIFF/WAVE container and returns
// the container base64-encoded, ready to be embedded in a data URI.
//
// The container writer patches the RIFF and data chunk sizes after all
// samples are written, so output is only final once the writer is closed.
// [Encode] buffers every write in memory and encodes after close.
//
//	b64, err := wav.Encode(ctx, samples) // mono, 24 kHz, 16-bit
//	b64, err := wav.Encode(ctx, samples, wav.WithSampleRate(16000))
package wav
