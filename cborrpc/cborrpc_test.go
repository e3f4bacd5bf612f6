// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cborrpc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"
)

func roundTrip(t *testing.T, in, out interface{}) {
	cbor, err := NewHandle()
	require.NoError(t, err)
	var data []byte
	require.NoError(t, codec.NewEncoderBytes(&data, cbor).Encode(in))
	require.NoError(t, codec.NewDecoderBytes(data, cbor).Decode(out))
}

func TestRequest(t *testing.T) {
	var actual Request
	roundTrip(t, Request{
		Method: "create_counter",
		ID:     7,
		Params: []interface{}{"foo"},
	}, &actual)
	assert.Equal(t, "create_counter", actual.Method)
	assert.Equal(t, uint(7), actual.ID)
	if assert.Len(t, actual.Params, 1) {
		assert.Equal(t, "foo", *SloppyString(actual.Params[0]))
	}
}

func TestResponseResult(t *testing.T) {
	var actual Response
	roundTrip(t, Response{
		ID:     3,
		Result: map[string]int64{"foo": 1},
	}, &actual)
	assert.Equal(t, uint(3), actual.ID)
	assert.Equal(t, "", actual.Error)
	if result, ok := actual.Result.(map[string]interface{}); assert.True(t, ok, "%#v", actual.Result) {
		assert.EqualValues(t, 1, result["foo"])
	}
}

func TestResponseError(t *testing.T) {
	var actual Response
	roundTrip(t, Response{ID: 4, Error: "Counter bar already exists"}, &actual)
	assert.Equal(t, uint(4), actual.ID)
	assert.Nil(t, actual.Result)
	assert.Equal(t, "Counter bar already exists", actual.Error)
}

func TestSloppyString(t *testing.T) {
	assert.Equal(t, "a", *SloppyString("a"))
	assert.Equal(t, "b", *SloppyString([]byte("b")))
	assert.Nil(t, SloppyString(17))
}

func TestCreateParamList(t *testing.T) {
	f := func(name string, n int) {}
	funcv := reflect.ValueOf(f)

	params, err := CreateParamList(funcv, []interface{}{[]byte("foo"), 3})
	if assert.NoError(t, err) && assert.Len(t, params, 2) {
		assert.Equal(t, "foo", params[0].String())
		assert.Equal(t, int64(3), params[1].Int())
	}

	_, err = CreateParamList(funcv, []interface{}{"foo"})
	assert.Error(t, err)
}
