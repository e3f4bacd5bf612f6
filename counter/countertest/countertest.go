// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package countertest provides generic functional tests for the
// counter.Store interface.  A typical backend test module needs to
// wrap Suite to create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-counter/counter/countertest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             countertest.Suite
//     }
//
//     // SetupSuite does global setup for the test suite.
//     func (s *Suite) SetupSuite() {
//             s.Suite.SetupSuite()
//             s.Store = NewWithClock(s.Clock)
//     }
//
//     // TestStore runs the counter.Store generic tests.
//     func TestStore(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
//
// Every test uses freshly generated counter names, so a backend with
// persistent storage does not need to be cleared between runs.
package countertest

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/counter"
	"github.com/satori/go.uuid"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic counter.Store backend test suite.
type Suite struct {
	suite.Suite

	// Clock contains the alternate time source to be used in tests.  It
	// is pre-initialized to a mock clock.
	Clock *clock.Mock

	// Store contains the backend under test.  It is set by
	// importing packages.
	Store counter.Store
}

// SetupSuite does one-time initialization for the test suite.
func (s *Suite) SetupSuite() {
	s.Clock = clock.NewMock()
}

// Context returns the context passed to every store call.
func (s *Suite) Context() context.Context {
	return context.Background()
}

// NewName generates a counter name that no other test uses.
func (s *Suite) NewName(prefix string) string {
	return prefix + "_" + uuid.NewV4().String()
}

// CreateCounter creates a counter, failing the test if that fails.
func (s *Suite) CreateCounter(name string) counter.Counter {
	c, err := s.Store.Create(s.Context(), name)
	s.Require().NoError(err)
	return c
}

// CounterValue checks that a counter exists and has a specific value.
func (s *Suite) CounterValue(expected int64, name string) {
	c, err := s.Store.Get(s.Context(), name)
	if s.NoError(err) {
		s.Equal(name, c.Name)
		s.Equal(expected, c.Value)
	}
}
