// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package redis

import (
	"testing"
	"time"

	"github.com/diffeo/go-counter/counter"
	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	opts, err := parseAddress("")
	if assert.NoError(t, err) {
		assert.Equal(t, "localhost:6379", opts.Addr)
	}

	opts, err = parseAddress("cache:6380")
	if assert.NoError(t, err) {
		assert.Equal(t, "cache:6380", opts.Addr)
	}

	opts, err = parseAddress("redis://cache:6381/2")
	if assert.NoError(t, err) {
		assert.Equal(t, "cache:6381", opts.Addr)
		assert.Equal(t, 2, opts.DB)
	}

	_, err = parseAddress("redis://cache:6381/notadb")
	assert.Error(t, err)
}

func TestTimeEncoding(t *testing.T) {
	now := time.Date(2017, 3, 14, 15, 9, 26, 535897932, time.UTC)
	decoded, err := decodeTime(encodeTime(now))
	if assert.NoError(t, err) {
		assert.True(t, now.Equal(decoded))
	}

	_, err = decodeTime("yesterday")
	assert.Error(t, err)
}

func TestDecodeCounter(t *testing.T) {
	c, err := decodeCounter("foo", []interface{}{"3", "0"})
	if assert.NoError(t, err) {
		assert.Equal(t, "foo", c.Name)
		assert.Equal(t, int64(3), c.Value)
		assert.True(t, c.Modified.Equal(time.Unix(0, 0)))
	}

	_, err = decodeCounter("foo", []interface{}{nil, nil})
	assert.Equal(t, counter.ErrNoSuchCounter{Name: "foo"}, err)

	_, err = decodeCounter("foo", []interface{}{"three", "0"})
	assert.Error(t, err)
}
