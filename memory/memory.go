// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// counter.Store.  There is no persistence on this store, nor is there
// any automatic sharing.  The entire store is behind a single mutex
// to protect against concurrent updates.
//
// This is the default backend of the counter daemon, and it is also
// a simple reference implementation that can be used for testing,
// including in-process testing of higher-level components.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/counter"
)

// This is the only external entry point to this package:

// New creates a new counter store that operates purely in memory.
func New() counter.Store {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new counter store that operates purely in
// memory, using an explicit time source for modification times.
func NewWithClock(clk clock.Clock) counter.Store {
	return &memStore{
		counters: make(map[string]*counter.Counter),
		clock:    clk,
	}
}

type memStore struct {
	counters map[string]*counter.Counter
	clock    clock.Clock
	sem      sync.Mutex
}

func (s *memStore) Create(ctx context.Context, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}

	s.sem.Lock()
	defer s.sem.Unlock()

	if _, present := s.counters[name]; present {
		return counter.Counter{}, counter.ErrCounterExists{Name: name}
	}
	c := &counter.Counter{Name: name, Modified: s.clock.Now()}
	s.counters[name] = c
	return *c, nil
}

func (s *memStore) Increment(ctx context.Context, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}
	s.sem.Lock()
	defer s.sem.Unlock()

	c, present := s.counters[name]
	if !present {
		return counter.Counter{}, counter.ErrNoSuchCounter{Name: name}
	}
	c.Value++
	c.Modified = s.clock.Now()
	return *c, nil
}

func (s *memStore) Get(ctx context.Context, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}
	s.sem.Lock()
	defer s.sem.Unlock()

	c, present := s.counters[name]
	if !present {
		return counter.Counter{}, counter.ErrNoSuchCounter{Name: name}
	}
	return *c, nil
}

func (s *memStore) List(ctx context.Context) ([]counter.Counter, error) {
	s.sem.Lock()
	result := make([]counter.Counter, 0, len(s.counters))
	for _, c := range s.counters {
		result = append(result, *c)
	}
	s.sem.Unlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
