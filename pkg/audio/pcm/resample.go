package pcm

import (
	"errors"
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// ErrOddLength is returned when 16-bit sample data has an odd byte count.
var ErrOddLength = errors.New("pcm: sample data length is odd")

// Resample converts mono 16-bit little-endian samples from srcRate to
// dstRate. Equal rates return data unchanged.
func Resample(data []byte, srcRate, dstRate int) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, ErrOddLength
	}
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("pcm: invalid sample rates %d -> %d", srcRate, dstRate)
	}
	if srcRate == dstRate || len(data) == 0 {
		return data, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("pcm: create resampler: %w", err)
	}

	// Normalize to [-1.0, 1.0).
	input := make([]float64, len(data)/2)
	for i := range input {
		sample := int16(data[i*2]) | int16(data[i*2+1])<<8
		input[i] = float64(sample) / 32768.0
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, fmt.Errorf("pcm: resample %d -> %d: %w", srcRate, dstRate, err)
	}
	// Flush drains the filter delay line; without it the tail is lost.
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("pcm: flush resampler: %w", err)
	}
	output = append(output, tail...)

	out := make([]byte, len(output)*2)
	for i, s := range output {
		sample := int16(s * 32767.0)
		if s > 1.0 {
			sample = 32767
		} else if s < -1.0 {
			sample = -32768
		}
		out[i*2] = byte(sample)
		out[i*2+1] = byte(sample >> 8)
	}
	return out, nil
}
