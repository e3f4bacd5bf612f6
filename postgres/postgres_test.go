// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres_test

import (
	"os"
	"testing"

	"github.com/diffeo/go-counter/counter/countertest"
	"github.com/diffeo/go-counter/postgres"
	"github.com/stretchr/testify/suite"
)

// Suite runs the generic counter tests with a PostgreSQL backend.
//
// This creates the backend using an empty string as the connection
// string.  This means that, when you run "go test", you must set
// environment variables as described in
// http://www.postgresql.org/docs/current/static/libpq-envars.html.
// If PGHOST is not set these tests are skipped.
type Suite struct {
	countertest.Suite
}

// SetupSuite does one-time test setup, creating the backend.
func (s *Suite) SetupSuite() {
	s.Suite.SetupSuite()
	store, err := postgres.NewWithClock("", s.Clock)
	s.Require().NoError(err)
	s.Store = store
}

// TestStore runs the generic counter tests with a PostgreSQL backend.
func TestStore(t *testing.T) {
	if os.Getenv("PGHOST") == "" {
		t.Skip("PGHOST not set")
	}
	suite.Run(t, &Suite{})
}
