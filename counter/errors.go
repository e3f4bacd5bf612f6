// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package counter

import (
	"errors"
	"fmt"
)

// ErrNoCounterName is returned by store operations given an empty
// counter name.
var ErrNoCounterName = errors.New("Counter name must not be empty")

// ErrBadCounterName is returned by store operations given a counter
// name that cannot be a single URL path segment.
type ErrBadCounterName struct {
	Name string
}

func (err ErrBadCounterName) Error() string {
	return fmt.Sprintf("Counter name %q must not contain \"/\"", err.Name)
}

// ErrCounterExists is returned by Store.Create() if a counter with
// the requested name already exists.
type ErrCounterExists struct {
	Name string
}

func (err ErrCounterExists) Error() string {
	return fmt.Sprintf("Counter %v already exists", err.Name)
}

// ErrNoSuchCounter is returned by Store.Increment() and Store.Get()
// if there is no counter with the requested name.
type ErrNoSuchCounter struct {
	Name string
}

func (err ErrNoSuchCounter) Error() string {
	return fmt.Sprintf("No such counter %v", err.Name)
}
