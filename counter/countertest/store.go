// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package countertest

import (
	"time"

	"github.com/diffeo/go-counter/counter"
)

// TestCreate checks that a new counter starts at zero.
func (s *Suite) TestCreate() {
	name := s.NewName("create")
	c, err := s.Store.Create(s.Context(), name)
	if s.NoError(err) {
		s.Equal(name, c.Name)
		s.Equal(int64(0), c.Value)
	}
	s.CounterValue(0, name)
}

// TestCreateDuplicate checks that a second create of the same name
// fails and leaves the existing value alone.
func (s *Suite) TestCreateDuplicate() {
	name := s.NewName("bar")
	s.CreateCounter(name)

	_, err := s.Store.Increment(s.Context(), name)
	s.NoError(err)

	_, err = s.Store.Create(s.Context(), name)
	s.Equal(counter.ErrCounterExists{Name: name}, err)

	s.CounterValue(1, name)
}

// TestCreateEmptyName checks that the empty string is not a valid
// counter name.
func (s *Suite) TestCreateEmptyName() {
	_, err := s.Store.Create(s.Context(), "")
	s.Error(err)
}

// TestIncrement checks that each increment adds exactly one.
func (s *Suite) TestIncrement() {
	name := s.NewName("foo")
	s.CreateCounter(name)

	for i := int64(1); i <= 3; i++ {
		c, err := s.Store.Increment(s.Context(), name)
		if s.NoError(err) {
			s.Equal(name, c.Name)
			s.Equal(i, c.Value)
		}
		s.CounterValue(i, name)
	}
}

// TestIncrementMissing checks that incrementing an absent counter
// fails without creating it.
func (s *Suite) TestIncrementMissing() {
	name := s.NewName("missing")
	_, err := s.Store.Increment(s.Context(), name)
	s.Equal(counter.ErrNoSuchCounter{Name: name}, err)

	_, err = s.Store.Get(s.Context(), name)
	s.Equal(counter.ErrNoSuchCounter{Name: name}, err)
}

// TestGetMissing checks that reading an absent counter fails.
func (s *Suite) TestGetMissing() {
	name := s.NewName("missing")
	_, err := s.Store.Get(s.Context(), name)
	s.Equal(counter.ErrNoSuchCounter{Name: name}, err)
}

// TestGetIdempotent checks that repeated reads return the same value.
func (s *Suite) TestGetIdempotent() {
	name := s.NewName("my_counter")
	s.CreateCounter(name)
	_, err := s.Store.Increment(s.Context(), name)
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		s.CounterValue(1, name)
	}
}

// TestList checks that created counters show up in the list with
// their current values.
func (s *Suite) TestList() {
	first := s.NewName("list")
	second := s.NewName("list")
	s.CreateCounter(first)
	s.CreateCounter(second)
	_, err := s.Store.Increment(s.Context(), second)
	s.Require().NoError(err)

	counters, err := s.Store.List(s.Context())
	if s.NoError(err) {
		values := counter.Values(counters)
		s.Equal(int64(0), values[first])
		s.Equal(int64(1), values[second])
		for i := 1; i < len(counters); i++ {
			s.True(counters[i-1].Name < counters[i].Name,
				"%q sorts before %q", counters[i-1].Name, counters[i].Name)
		}
	}
}

// TestModified checks that create and increment record the store
// clock's time.  Backends that do not track modification times skip
// this.
func (s *Suite) TestModified() {
	name := s.NewName("modified")
	created := s.Clock.Now()
	c := s.CreateCounter(name)
	if c.Modified.IsZero() {
		s.T().Skip("backend does not track modification times")
	}
	s.WithinDuration(created, c.Modified, time.Millisecond)

	s.Clock.Add(5 * time.Second)
	incremented := s.Clock.Now()
	c, err := s.Store.Increment(s.Context(), name)
	if s.NoError(err) {
		s.WithinDuration(incremented, c.Modified, time.Millisecond)
	}

	s.Clock.Add(5 * time.Second)
	c, err = s.Store.Get(s.Context(), name)
	if s.NoError(err) {
		s.WithinDuration(incremented, c.Modified, time.Millisecond)
	}
}

// TestEmptyName checks that every operation rejects the empty name.
func (s *Suite) TestEmptyName() {
	_, err := s.Store.Increment(s.Context(), "")
	s.Equal(counter.ErrNoCounterName, err)
	_, err = s.Store.Get(s.Context(), "")
	s.Equal(counter.ErrNoCounterName, err)
}

// TestSlashName checks that a name that is not a single URL path
// segment is rejected by every operation and never stored.
func (s *Suite) TestSlashName() {
	name := s.NewName("a") + "/b"
	bad := counter.ErrBadCounterName{Name: name}

	_, err := s.Store.Create(s.Context(), name)
	s.Equal(bad, err)
	_, err = s.Store.Increment(s.Context(), name)
	s.Equal(bad, err)
	_, err = s.Store.Get(s.Context(), name)
	s.Equal(bad, err)

	counters, err := s.Store.List(s.Context())
	if s.NoError(err) {
		s.NotContains(counter.Values(counters), name)
	}
}
