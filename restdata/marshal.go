// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"io"
	"mime"

	"github.com/ugorji/go/codec"
)

// CanonicalType maps a JSON-ish media type to the media type this
// package can decode, or returns the empty string if it is not
// understood.
func CanonicalType(mediaType string) string {
	switch mediaType {
	case "text/json", JSONMediaType, VendorJSONMediaType, V1JSONMediaType:
		return JSONMediaType
	}
	return ""
}

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ErrBadRequest{Err: err}
	}

	if CanonicalType(mediaType) != JSONMediaType {
		return ErrUnsupportedMediaType{Type: mediaType}
	}
	decoder := codec.NewDecoder(r, &codec.JsonHandle{})
	return decoder.Decode(out)
}

// Encode writes a restdata object to a writer as JSON.
func Encode(w io.Writer, in interface{}) error {
	encoder := codec.NewEncoder(w, &codec.JsonHandle{})
	return encoder.Encode(in)
}
