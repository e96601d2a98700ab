package encoding

import (
	"errors"
	"testing"
)

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMIME string
		want     string
		wantErr  bool
	}{
		{
			name:     "video",
			input:    "data:video/mp4;base64,aGVsbG8gd29ybGQ=",
			wantMIME: "video/mp4",
			want:     "hello world",
		},
		{
			name:     "pcm with parameters",
			input:    "data:audio/L16;codec=pcm;rate=24000;base64,AAEC",
			wantMIME: "audio/L16;codec=pcm;rate=24000",
			want:     "\x00\x01\x02",
		},
		{
			name:     "empty payload",
			input:    "data:audio/wav;base64,",
			wantMIME: "audio/wav",
			want:     "",
		},
		{name: "no prefix", input: "video/mp4;base64,AAEC", wantErr: true},
		{name: "no comma", input: "data:video/mp4;base64", wantErr: true},
		{name: "not base64 flagged", input: "data:text/plain,hello", wantErr: true},
		{name: "bad payload", input: "data:video/mp4;base64,!!!", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDataURI(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDataURI) {
					t.Fatalf("ParseDataURI(%q) error = %v; want ErrInvalidDataURI", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataURI(%q) error: %v", tc.input, err)
			}
			if got.MIMEType != tc.wantMIME {
				t.Errorf("MIMEType = %q; want %q", got.MIMEType, tc.wantMIME)
			}
			if string(got.Data) != tc.want {
				t.Errorf("Data = %q; want %q", got.Data, tc.want)
			}
		})
	}
}

func TestDataURI_String(t *testing.T) {
	d := NewDataURI("video/mp4", []byte("hello world"))
	want := "data:video/mp4;base64,aGVsbG8gd29ybGQ="
	if got := d.String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}

	if got := NewDataURI("", nil).MIMEType; got != "application/octet-stream" {
		t.Errorf("default MIMEType = %q", got)
	}
}

func TestDataURI_Params(t *testing.T) {
	d := DataURI{MIMEType: "audio/L16;codec=pcm;rate=16000"}
	if got := d.MediaType(); got != "audio/l16" {
		t.Errorf("MediaType() = %q; want audio/l16", got)
	}
	if got := d.SampleRate(); got != 16000 {
		t.Errorf("SampleRate() = %d; want 16000", got)
	}
	if got := (DataURI{MIMEType: "audio/wav"}).SampleRate(); got != 0 {
		t.Errorf("SampleRate() without rate = %d; want 0", got)
	}
}
