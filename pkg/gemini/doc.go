// Package gemini connects the clip pipeline to the Gemini API.
//
// [VideoEndpoint] starts Veo video jobs and polls them through the
// operations service. [SpeechEndpoint] requests single-speaker audio from a
// TTS-capable Gemini model and returns the raw PCM as a data URI.
//
//	c, err := gemini.New(ctx, gemini.Config{APIKey: key})
//	gen := clip.NewGenerator(c.Video(), c.Speech())
package gemini
