// Package encoding provides JSON-serializable encodings for binary media
// payloads.
//
// The main type is [DataURI], an RFC 2397 "data:" URI that embeds a MIME
// type and a base64 payload inline. Generated clips are exchanged as data
// URIs so they can be used directly as a media source.
package encoding
