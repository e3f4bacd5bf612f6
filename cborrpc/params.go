// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cborrpc

import (
	"errors"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// CreateParamList tries to match a CBOR-RPC parameter list to a specific
// callable's parameter list.  funcv is the reflected method to eventually
// call, and params is the list of parameters from the CBOR-RPC request.
// On success, the return value is a list of parameter values that can be
// passed to funcv.Call().
func CreateParamList(funcv reflect.Value, params []interface{}) ([]reflect.Value, error) {
	funct := funcv.Type()
	numParams := funct.NumIn()
	if len(params) != numParams {
		return nil, errors.New("wrong number of parameters")
	}
	results := make([]reflect.Value, numParams)
	for i := 0; i < numParams; i++ {
		paramType := funct.In(i)
		paramValue := reflect.New(paramType)
		config := mapstructure.DecoderConfig{
			DecodeHook: DecodeBytesAsString,
			Result:     paramValue.Interface(),
		}
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			return nil, err
		}
		err = decoder.Decode(params[i])
		if err != nil {
			return nil, err
		}
		results[i] = paramValue.Elem()
	}
	return results, nil
}

// SloppyString converts a string or []byte to a string, or returns nil.
func SloppyString(obj interface{}) *string {
	switch str := obj.(type) {
	case string:
		return &str
	case []byte:
		s := string(str)
		return &s
	default:
		return nil
	}
}

// DecodeBytesAsString is a mapstructure decode hook that accepts a
// byte slice where a string is expected.
func DecodeBytesAsString(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() == reflect.String && from.Kind() == reflect.Slice && from.Elem().Kind() == reflect.Uint8 {
		return string(data.([]uint8)), nil
	}
	return data, nil
}
