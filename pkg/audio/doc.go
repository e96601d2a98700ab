// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM format description and sample rate conversion
//   - wav: RIFF/WAVE container encoding of PCM samples
//
// Example usage:
//
//	import (
//	    "github.com/haivivi/clipgen/pkg/audio/pcm"
//	    "github.com/haivivi/clipgen/pkg/audio/wav"
//	)
//
//	samples, _ := pcm.Resample(raw, 16000, pcm.Default.SampleRate())
//	b64, err := wav.Encode(ctx, samples)
package audio
