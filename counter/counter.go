// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package counter defines an abstract API to a store of named
// counters.
//
// A counter has a unique name and an integer value.  It is created
// with value 0, and the only way to change it afterwards is to
// increment it by exactly one.  Counters are never deleted.
//
// There are several backend implementations of this interface: the
// "memory" package keeps everything in process memory, "postgres" and
// "redis" store counters in external databases, and "restclient"
// talks to a remote "restserver".  All of them guarantee that
// concurrent creates of the same name produce exactly one success and
// that concurrent increments are never lost.
package counter

import (
	"context"
	"strings"
	"time"
)

// Counter is a snapshot of a single named counter.
type Counter struct {
	// Name is the unique name of the counter.
	Name string

	// Value is the current value of the counter.
	Value int64

	// Modified is the time the counter was created or last
	// incremented.  Backends that do not track this leave it as
	// the zero time.
	Modified time.Time
}

// Store is the main interface to a counter backend.
type Store interface {
	// Create adds a new counter with value 0.  If a counter with
	// this name already exists, returns ErrCounterExists and
	// changes nothing.
	Create(ctx context.Context, name string) (Counter, error)

	// Increment adds one to an existing counter and returns its
	// new state.  If there is no such counter, returns
	// ErrNoSuchCounter.
	Increment(ctx context.Context, name string) (Counter, error)

	// Get returns the current state of an existing counter.  If
	// there is no such counter, returns ErrNoSuchCounter.
	Get(ctx context.Context, name string) (Counter, error)

	// List returns every counter, sorted by name.
	List(ctx context.Context) ([]Counter, error)
}

// ValidateName returns ErrNoCounterName or ErrBadCounterName if name
// cannot name a counter.  A name must be usable as one URL path
// segment.
func ValidateName(name string) error {
	if name == "" {
		return ErrNoCounterName
	}
	if strings.Contains(name, "/") {
		return ErrBadCounterName{Name: name}
	}
	return nil
}

// Values converts a list of counters into a map from name to value.
func Values(counters []Counter) map[string]int64 {
	result := make(map[string]int64, len(counters))
	for _, c := range counters {
		result[c.Name] = c.Value
	}
	return result
}
