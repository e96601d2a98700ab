package pcm

import (
	"fmt"
	"mime"
	"strconv"
	"time"
)

const (
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K Format = iota
	// L16Mono24K represents audio/L16; rate=24000; channels=1
	L16Mono24K
	// L16Mono48K represents audio/L16; rate=48000; channels=1
	L16Mono48K
)

// Default is the format narration audio is encoded in.
const Default = L16Mono24K

// Format represents an audio format configuration.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Mono24K:
		return 24000
	case L16Mono48K:
		return 48000
	}
	panic("pcm: invalid audio type")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K, L16Mono24K, L16Mono48K:
		return 1
	}
	panic("pcm: invalid audio type")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Mono16K, L16Mono24K, L16Mono48K:
		return 16
	}
	panic("pcm: invalid audio type")
}

// FrameBytes returns the size of one sample frame in bytes.
func (f Format) FrameBytes() int {
	return f.Channels() * f.Depth() / 8
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes * 8 / int64(f.Channels()) / int64(f.Depth())
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// Validate reports whether data holds a whole number of frames.
func (f Format) Validate(data []byte) error {
	if n := f.FrameBytes(); len(data)%n != 0 {
		return fmt.Errorf("pcm: %d bytes is not a multiple of the %d-byte frame", len(data), n)
	}
	return nil
}

// MIMEType returns the L16 media type, e.g. "audio/L16;codec=pcm;rate=24000".
func (f Format) MIMEType() string {
	return "audio/L16;codec=pcm;rate=" + strconv.Itoa(f.SampleRate())
}

// RateFromMIME extracts the "rate" parameter from an audio media type.
// It returns 0 when the parameter is absent or malformed.
func RateFromMIME(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return 0
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return 0
	}
	return rate
}
