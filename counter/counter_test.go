// Copyright 2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.Equal(t, ErrNoCounterName, ValidateName(""))
	assert.NoError(t, ValidateName("my_counter"))
	assert.Equal(t, ErrBadCounterName{Name: "a/b"}, ValidateName("a/b"))
	assert.Equal(t, ErrBadCounterName{Name: "/"}, ValidateName("/"))
}

func TestValues(t *testing.T) {
	values := Values([]Counter{
		{Name: "foo", Value: 1},
		{Name: "bar", Value: 0},
	})
	assert.Equal(t, map[string]int64{"foo": 1, "bar": 0}, values)
	assert.Empty(t, Values(nil))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Counter foo already exists", ErrCounterExists{Name: "foo"}.Error())
	assert.Equal(t, "No such counter foo", ErrNoSuchCounter{Name: "foo"}.Error())
	assert.Equal(t, `Counter name "a/b" must not contain "/"`, ErrBadCounterName{Name: "a/b"}.Error())
}
