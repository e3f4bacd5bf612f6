// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cborrpc defines the CBOR-RPC format: a request/response
// protocol where each message is a CBOR map wrapped in an encoded
// CBOR data item (tag 24).
//
// A request is a map with keys "method" (string), "id" (integer) and
// "params" (list).  A response has keys "id", and either "result"
// (any value) or "error" (a map with a "message" string).  Keys and
// string values may be sent as either byte or text strings.
package cborrpc

import (
	"fmt"
	"reflect"

	"github.com/ugorji/go/codec"
)

// Request defines the fields of a CBOR-RPC request.
type Request struct {
	// Name of the RPC method to invoke.
	Method string
	// Sequential, non-unique identifier for this request.
	ID uint
	// List of arbitrary parameters.
	Params []interface{}
}

// Response defines the fields of a CBOR-RPC response
type Response struct {
	// Sequential, non-unique identifier for this response.  This should
	// always match the identifier from the corresponding Request.
	ID uint
	// Arbitrary response object; should be nil on error.
	Result interface{}
	// Error message on failure; should be empty on success.
	Error string
}

// wireFormat is the "over-the-wire" representation of a top-level
// message, a flat list of alternating keys and values.
type wireFormat []interface{}

// MapBySlice is a marker for the codec library to indicate this is
// actually a map.
func (w wireFormat) MapBySlice() {}

// encodeWire converts a wire map to CBOR bytes.
func encodeWire(cbor *codec.CborHandle, wire wireFormat) (out []byte) {
	encoder := codec.NewEncoderBytes(&out, cbor)
	encoder.MustEncode(wire)
	return
}

// decodeWire converts CBOR bytes back to a map with string keys.
func decodeWire(cbor *codec.CborHandle, data []byte) map[string]interface{} {
	var wire map[string]interface{}
	decoder := codec.NewDecoderBytes(data, cbor)
	decoder.MustDecode(&wire)
	return wire
}

// toUint converts a decoded CBOR integer to uint.
func toUint(obj interface{}) uint {
	switch n := obj.(type) {
	case uint64:
		return uint(n)
	case int64:
		return uint(n)
	default:
		return 0
	}
}

// Codec extension plugin to convert Request.
type reqExt struct {
	cbor *codec.CborHandle
}

// Encode Request as a byte string.
func (x reqExt) WriteExt(v interface{}) []byte {
	request := v.(Request)
	return encodeWire(x.cbor, wireFormat{
		"method", request.Method,
		"id", uint64(request.ID),
		"params", request.Params,
	})
}

// Decode a byte string into a Request.
func (x reqExt) ReadExt(v interface{}, data []byte) {
	wire := decodeWire(x.cbor, data)
	result := v.(*Request)
	if method := SloppyString(wire["method"]); method != nil {
		result.Method = *method
	}
	result.ID = toUint(wire["id"])
	result.Params, _ = wire["params"].([]interface{})
}

// Export a Request in some format.
func (x reqExt) ConvertExt(v interface{}) interface{} {
	return x.WriteExt(v)
}

// Unpackage some format into a Request.
func (x reqExt) UpdateExt(dest interface{}, v interface{}) {
	x.ReadExt(dest, v.([]byte))
}

// Codec extension plugin to convert Response.
type respExt struct {
	cbor *codec.CborHandle
}

// Encode Response as a byte string.
func (x respExt) WriteExt(v interface{}) []byte {
	response := v.(Response)
	wire := wireFormat{"id", uint64(response.ID)}
	if response.Result != nil {
		wire = append(wire, "result", response.Result)
	}
	if response.Error != "" {
		wire = append(wire, "error", map[string]string{"message": response.Error})
	}
	return encodeWire(x.cbor, wire)
}

// Decode a byte string into a Response.
func (x respExt) ReadExt(v interface{}, data []byte) {
	wire := decodeWire(x.cbor, data)
	response := v.(*Response)
	response.ID = toUint(wire["id"])
	response.Result = wire["result"]
	var message interface{}
	switch errorDict := wire["error"].(type) {
	case map[string]interface{}:
		message = errorDict["message"]
	case map[interface{}]interface{}:
		message = errorDict["message"]
	case nil:
		return
	default:
		message = fmt.Sprintf("%v", errorDict)
	}
	if s := SloppyString(message); s != nil {
		response.Error = *s
	}
}

// Export a Response in some format.
func (x respExt) ConvertExt(v interface{}) interface{} {
	return x.WriteExt(v)
}

// Unpackage some format into a Response.
func (x respExt) UpdateExt(dest interface{}, v interface{}) {
	x.ReadExt(dest, v.([]byte))
}

// SetExts sets up the CBOR codec to understand the message types in
// this package.
func SetExts(cbor *codec.CborHandle) error {
	if err := cbor.SetExt(reflect.TypeOf(Request{}), 24, reqExt{cbor}); err != nil {
		return err
	}
	return cbor.SetExt(reflect.TypeOf(Response{}), 24, respExt{cbor})
}

// NewHandle creates a CBOR codec handle set up for CBOR-RPC messages.
// Maps nested in results decode with string keys.
func NewHandle() (*codec.CborHandle, error) {
	cbor := new(codec.CborHandle)
	cbor.MapType = reflect.TypeOf(map[string]interface{}(nil))
	if err := SetExts(cbor); err != nil {
		return nil, err
	}
	return cbor, nil
}
