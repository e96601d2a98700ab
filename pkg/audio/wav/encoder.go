package wav

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

// MIMEType is the media type of encoded output.
const MIMEType = "audio/wav"

// Default container parameters.
const (
	DefaultChannels   = 1
	DefaultSampleRate = 24000
	DefaultBitDepth   = 16
)

// waveFormatPCM is the WAVE_FORMAT_PCM format tag.
const waveFormatPCM = 1

// ErrEncoding is returned for malformed input or a failed container write.
var ErrEncoding = errors.New("wav: encoding failed")

type options struct {
	channels   int
	sampleRate int
	bitDepth   int
}

// Option configures the container header.
type Option func(*options)

// WithChannels sets the channel count.
func WithChannels(n int) Option {
	return func(o *options) { o.channels = n }
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(hz int) Option {
	return func(o *options) { o.sampleRate = hz }
}

// WithBitDepth sets the bits per sample (8, 16, 24 or 32).
func WithBitDepth(bits int) Option {
	return func(o *options) { o.bitDepth = bits }
}

// Result is the outcome of an asynchronous encode.
type Result struct {
	// Data is the base64-encoded container.
	Data string
	Err  error
}

// Encode wraps little-endian PCM samples in a WAVE container and returns it
// base64-encoded. Identical input and options always yield identical output.
func Encode(ctx context.Context, pcm []byte, opts ...Option) (string, error) {
	select {
	case r := <-EncodeAsync(ctx, pcm, opts...):
		return r.Data, r.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// EncodeAsync starts encoding and returns a channel that receives exactly one
// Result once the container writer has been closed.
func EncodeAsync(ctx context.Context, pcm []byte, opts ...Option) <-chan Result {
	o := options{
		channels:   DefaultChannels,
		sampleRate: DefaultSampleRate,
		bitDepth:   DefaultBitDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ch := make(chan Result, 1)
	go func() {
		data, err := encode(ctx, pcm, o)
		ch <- Result{Data: data, Err: err}
	}()
	return ch
}

func encode(ctx context.Context, pcm []byte, o options) (string, error) {
	if o.channels < 1 {
		return "", fmt.Errorf("%w: invalid channel count %d", ErrEncoding, o.channels)
	}
	if o.sampleRate < 1 {
		return "", fmt.Errorf("%w: invalid sample rate %d", ErrEncoding, o.sampleRate)
	}
	samples, err := decodeSamples(pcm, o)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(out, o.sampleRate, o.bitDepth, o.channels, waveFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: o.channels, SampleRate: o.sampleRate},
		Data:           samples,
		SourceBitDepth: o.bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return "", fmt.Errorf("%w: write samples: %v", ErrEncoding, err)
	}
	// Close rewrites the size fields; the buffer is complete only after it.
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("%w: close container: %v", ErrEncoding, err)
	}
	data, err := io.ReadAll(out.Reader())
	if err != nil {
		return "", fmt.Errorf("%w: read container: %v", ErrEncoding, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// decodeSamples splits little-endian PCM into integer samples.
func decodeSamples(pcm []byte, o options) ([]int, error) {
	var width int
	switch o.bitDepth {
	case 8, 16, 24, 32:
		width = o.bitDepth / 8
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrEncoding, o.bitDepth)
	}
	frame := width * o.channels
	if len(pcm)%frame != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte frames", ErrEncoding, len(pcm), frame)
	}

	samples := make([]int, len(pcm)/width)
	for i := range samples {
		b := pcm[i*width : (i+1)*width]
		switch width {
		case 1:
			samples[i] = int(b[0])
		case 2:
			samples[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xffffff
			}
			samples[i] = int(v)
		case 4:
			samples[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return samples, nil
}

// Header describes a decoded container header.
type Header struct {
	Channels   int
	SampleRate int
	BitDepth   int

	// DataLen is the size of the PCM data chunk in bytes.
	DataLen int64
}

// DecodeHeader parses the header of a base64-encoded container.
func DecodeHeader(b64 string) (Header, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Header{}, fmt.Errorf("wav: decode base64: %w", err)
	}
	d := wav.NewDecoder(bytes.NewReader(data))
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Header{}, fmt.Errorf("wav: read header: %w", err)
	}
	if err := d.FwdToPCM(); err != nil {
		return Header{}, fmt.Errorf("wav: find data chunk: %w", err)
	}
	return Header{
		Channels:   int(d.NumChans),
		SampleRate: int(d.SampleRate),
		BitDepth:   int(d.BitDepth),
		DataLen:    d.PCMLen(),
	}, nil
}
