package wav

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"
)

func testSamples(n int) []byte {
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(i*37-1000)))
	}
	return pcm
}

func TestEncode_Header(t *testing.T) {
	pcm := testSamples(480)

	b64, err := Encode(context.Background(), pcm)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	h, err := DecodeHeader(b64)
	if err != nil {
		t.Fatalf("DecodeHeader error: %v", err)
	}
	if h.Channels != 1 || h.SampleRate != 24000 || h.BitDepth != 16 {
		t.Errorf("header = %+v; want 1 ch, 24000 Hz, 16 bit", h)
	}
	if h.DataLen != int64(len(pcm)) {
		t.Errorf("DataLen = %d; want %d", h.DataLen, len(pcm))
	}
}

func TestEncode_Layout(t *testing.T) {
	pcm := testSamples(4)
	b64, err := Encode(context.Background(), pcm)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("base64 error: %v", err)
	}

	if len(data) != 44+len(pcm) {
		t.Fatalf("container size = %d; want %d", len(data), 44+len(pcm))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("unexpected chunk ids: %q %q %q", data[0:4], data[8:12], data[36:40])
	}
	if got := binary.LittleEndian.Uint32(data[4:8]); got != uint32(len(data)-8) {
		t.Errorf("RIFF size = %d; want %d", got, len(data)-8)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d; want %d", got, len(pcm))
	}
	if string(data[44:]) != string(pcm) {
		t.Error("sample bytes changed")
	}
}

func TestEncode_Deterministic(t *testing.T) {
	pcm := testSamples(1000)
	ctx := context.Background()

	a, err := Encode(ctx, pcm)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	b, err := Encode(ctx, pcm)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if a != b {
		t.Error("encoding the same samples twice produced different output")
	}
}

func TestEncode_Options(t *testing.T) {
	pcm := testSamples(8)
	b64, err := Encode(context.Background(), pcm, WithChannels(2), WithSampleRate(16000))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	h, err := DecodeHeader(b64)
	if err != nil {
		t.Fatalf("DecodeHeader error: %v", err)
	}
	if h.Channels != 2 || h.SampleRate != 16000 || h.BitDepth != 16 {
		t.Errorf("header = %+v", h)
	}
}

func TestEncode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		pcm  []byte
		opts []Option
	}{
		{name: "odd length", pcm: []byte{1, 2, 3}},
		{name: "partial stereo frame", pcm: []byte{1, 2}, opts: []Option{WithChannels(2)}},
		{name: "bad depth", pcm: []byte{1, 2}, opts: []Option{WithBitDepth(12)}},
		{name: "no channels", pcm: []byte{1, 2}, opts: []Option{WithChannels(0)}},
		{name: "no rate", pcm: []byte{1, 2}, opts: []Option{WithSampleRate(0)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Encode(context.Background(), tc.pcm, tc.opts...)
			if !errors.Is(err, ErrEncoding) {
				t.Errorf("Encode error = %v; want ErrEncoding", err)
			}
		})
	}
}

func TestEncodeAsync(t *testing.T) {
	r := <-EncodeAsync(context.Background(), testSamples(10))
	if r.Err != nil {
		t.Fatalf("EncodeAsync error: %v", r.Err)
	}
	if r.Data == "" {
		t.Error("EncodeAsync returned empty data")
	}
}

func TestEncode_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Encode(ctx, testSamples(10)); !errors.Is(err, context.Canceled) {
		t.Errorf("Encode error = %v; want context.Canceled", err)
	}
}
