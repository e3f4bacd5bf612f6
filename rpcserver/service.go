// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package rpcserver

import (
	"context"

	"github.com/diffeo/go-counter/counter"
)

// CounterService holds the methods callable over CBOR-RPC.  A method
// named create_counter on the wire calls CreateCounter here.  Every
// method returns a map from counter name to value.
type CounterService struct {
	// Store holds the counters.
	Store counter.Store

	// Context is passed to every store call.  If nil,
	// context.Background() is used.
	Context context.Context
}

func (s *CounterService) ctx() context.Context {
	if s.Context == nil {
		return context.Background()
	}
	return s.Context
}

func single(c counter.Counter, err error) (map[string]int64, error) {
	if err != nil {
		return nil, err
	}
	return map[string]int64{c.Name: c.Value}, nil
}

// CreateCounter creates a new counter at zero.
func (s *CounterService) CreateCounter(name string) (map[string]int64, error) {
	return single(s.Store.Create(s.ctx(), name))
}

// IncrementCounter adds one to an existing counter.
func (s *CounterService) IncrementCounter(name string) (map[string]int64, error) {
	return single(s.Store.Increment(s.ctx(), name))
}

// GetCounter returns the current value of an existing counter.
func (s *CounterService) GetCounter(name string) (map[string]int64, error) {
	return single(s.Store.Get(s.ctx(), name))
}

// ListCounters returns every counter.
func (s *CounterService) ListCounters() (map[string]int64, error) {
	counters, err := s.Store.List(s.ctx())
	if err != nil {
		return nil, err
	}
	return counter.Values(counters), nil
}
