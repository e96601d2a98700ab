// Package clip generates a short video clip with optional spoken narration
// from a text prompt.
//
// A [Generator] runs two independent long-running paths for every request:
//
//   - the video path ([VideoGenerator]) submits a generation job, polls the
//     returned [Operation] until it is done, downloads the finished asset and
//     returns it as a data URI;
//   - the narration path ([Narrator]) synthesizes speech, wraps the PCM
//     samples in a WAV container and returns it as a data URI.
//
// Both paths always run to completion. A video failure fails the whole
// request; a narration failure only drops the audio track.
//
// # Basic Usage
//
//	gen := clip.NewGenerator(videoEndpoint, speechEndpoint,
//	    clip.WithCredential(clip.EnvCredential()),
//	    clip.WithPollInterval(5*time.Second),
//	)
//	res, err := gen.Run(ctx, clip.Request{
//	    Prompt:    "a sunset over the sea",
//	    Narration: "Hello",
//	    Language:  clip.LanguageHindi,
//	})
//
// # Error Handling
//
//	if e, ok := clip.AsError(err); ok && e.Kind == clip.KindOperation {
//	    // provider reported the job failed
//	}
package clip
