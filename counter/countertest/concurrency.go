// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package countertest

import (
	"sync"

	"github.com/diffeo/go-counter/counter"
)

// concurrency is the number of goroutines the concurrent tests run.
const concurrency = 16

// TestConcurrentCreate runs many creates of the same name at once and
// checks that exactly one succeeds.
func (s *Suite) TestConcurrentCreate() {
	name := s.NewName("race")
	errs := make(chan error, concurrency)
	wg := sync.WaitGroup{}
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Store.Create(s.Context(), name)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else {
			s.Equal(counter.ErrCounterExists{Name: name}, err)
		}
	}
	s.Equal(1, created)
	s.CounterValue(0, name)
}

// TestConcurrentIncrement runs many increments of the same counter at
// once and checks that none of them is lost.
func (s *Suite) TestConcurrentIncrement() {
	const perWorker = 10
	name := s.NewName("hammer")
	s.CreateCounter(name)

	wg := sync.WaitGroup{}
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := s.Store.Increment(s.Context(), name)
				s.NoError(err)
			}
		}()
	}
	wg.Wait()

	s.CounterValue(concurrency*perWorker, name)
}
