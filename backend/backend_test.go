// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package backend

import (
	"context"
	"flag"
	"net/http/httptest"
	"testing"

	"github.com/diffeo/go-counter/memory"
	"github.com/diffeo/go-counter/restserver"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	tests := []struct {
		Param          string
		Implementation string
		Address        string
	}{
		{"memory", "memory", ""},
		{"postgres:host=localhost dbname=counters", "postgres", "host=localhost dbname=counters"},
		{"postgres://db/counters", "postgres", "//db/counters"},
		{"redis:localhost:6379", "redis", "localhost:6379"},
		{"http:http://localhost:5980/", "http", "http://localhost:5980/"},
	}
	for _, test := range tests {
		b := Backend{Implementation: "memory", Address: "stale"}
		if assert.NoError(t, b.Set(test.Param), test.Param) {
			assert.Equal(t, test.Implementation, b.Implementation, test.Param)
			assert.Equal(t, test.Address, b.Address, test.Param)
			assert.Equal(t, test.Param, b.String())
		}
	}
}

func TestSetErrors(t *testing.T) {
	b := Backend{Implementation: "memory"}
	assert.Error(t, b.Set(""))
	assert.Error(t, b.Set(":foo"))
	assert.Error(t, b.Set("sqlite:counters.db"))
	assert.Equal(t, "memory", b.Implementation)
}

func TestFlag(t *testing.T) {
	b := Backend{Implementation: "memory"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&b, "backend", "impl:address of counter storage")
	if assert.NoError(t, fs.Parse([]string{"-backend", "redis:cache:6379"})) {
		assert.Equal(t, "redis", b.Implementation)
		assert.Equal(t, "cache:6379", b.Address)
	}
}

func TestMemoryStore(t *testing.T) {
	b := Backend{Implementation: "memory"}
	store, err := b.Store()
	if assert.NoError(t, err) {
		_, err = store.Create(context.Background(), "foo")
		assert.NoError(t, err)
	}
}

func TestHTTPStore(t *testing.T) {
	server := httptest.NewServer(restserver.NewRouter(memory.New()))
	defer server.Close()

	b := Backend{Implementation: "http", Address: server.URL}
	store, err := b.Store()
	if assert.NoError(t, err) {
		c, err := store.Create(context.Background(), "foo")
		if assert.NoError(t, err) {
			assert.Equal(t, int64(0), c.Value)
		}
	}
}

func TestUnknownStore(t *testing.T) {
	b := Backend{Implementation: "sqlite"}
	_, err := b.Store()
	assert.Error(t, err)
}
