package clip

import "context"

// VideoRequest is sent to a VideoEndpoint to start a job.
type VideoRequest struct {
	// Prompt already includes the style suffix.
	Prompt      string
	AspectRatio AspectRatio
}

// VideoEndpoint starts and observes video generation jobs.
type VideoEndpoint interface {
	// Submit starts a job and returns its handle.
	Submit(ctx context.Context, req *VideoRequest) (*Operation, error)

	// Check fetches the current status of a job.
	Check(ctx context.Context, op *Operation) (*Operation, error)
}

// SpeechRequest is sent to a SpeechEndpoint.
type SpeechRequest struct {
	Text     string
	Voice    string
	Language Language
}

// SpeechResponse carries synthesized audio.
type SpeechResponse struct {
	// Media is a data URI of raw 16-bit PCM. The MIME type may carry a
	// rate parameter, e.g. "audio/L16;codec=pcm;rate=24000". Nil when the
	// provider returned no audio.
	Media *Media
}

// SpeechEndpoint synthesizes narration.
type SpeechEndpoint interface {
	Speak(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error)
}
