package encoding

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
)

// ErrInvalidDataURI is returned when a string is not a base64 data URI.
var ErrInvalidDataURI = errors.New("encoding: invalid data uri")

// DataURI is a decoded "data:<mime>;base64,<payload>" string.
type DataURI struct {
	// MIMEType is the media type including parameters, e.g.
	// "audio/L16;codec=pcm;rate=24000".
	MIMEType string

	// Data is the decoded payload.
	Data []byte
}

// NewDataURI returns a DataURI for data. An empty mimeType becomes
// "application/octet-stream".
func NewDataURI(mimeType string, data []byte) DataURI {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return DataURI{MIMEType: mimeType, Data: data}
}

// FormatDataURI builds the data URI text for an already base64-encoded payload.
func FormatDataURI(mimeType, b64 string) string {
	return "data:" + mimeType + ";base64," + b64
}

// ParseDataURI parses s. The payload starts after the first comma and must
// be standard base64.
func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing comma", ErrInvalidDataURI)
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return DataURI{}, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURI{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return DataURI{MIMEType: mimeType, Data: data}, nil
}

// String returns the data URI text.
func (d DataURI) String() string {
	return FormatDataURI(d.MIMEType, base64.StdEncoding.EncodeToString(d.Data))
}

// MediaType returns the MIME type without parameters, lower-cased.
func (d DataURI) MediaType() string {
	mt, _, err := mime.ParseMediaType(d.MIMEType)
	if err != nil {
		mt, _, _ = strings.Cut(d.MIMEType, ";")
		return strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// Param returns a MIME parameter such as "rate".
func (d DataURI) Param(name string) string {
	_, params, err := mime.ParseMediaType(d.MIMEType)
	if err != nil {
		return ""
	}
	return params[name]
}

// SampleRate returns the "rate" parameter as an integer, or 0 if absent.
func (d DataURI) SampleRate() int {
	n, err := strconv.Atoi(d.Param("rate"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
