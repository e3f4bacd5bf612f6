// Regression tests for rest.go.
//
// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/diffeo/go-counter/counter"
	"github.com/diffeo/go-counter/memory"
	"github.com/stretchr/testify/assert"
)

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	store := memory.New()
	_, err := store.Create(context.Background(), "spec")
	if !assert.NoError(t, err) {
		return
	}

	router := NewRouter(store)
	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/counters/spec",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// panicStore is a counter.Store whose every operation panics.
type panicStore struct{}

func (panicStore) Create(context.Context, string) (counter.Counter, error) {
	panic("create")
}

func (panicStore) Increment(context.Context, string) (counter.Counter, error) {
	panic("increment")
}

func (panicStore) Get(context.Context, string) (counter.Counter, error) {
	panic("get")
}

func (panicStore) List(context.Context) ([]counter.Counter, error) {
	panic("list")
}

// TestHandlerPanic checks that a panicking store produces a 500
// response rather than crashing.
func TestHandlerPanic(t *testing.T) {
	router := NewRouter(panicStore{})
	req := httptest.NewRequest(http.MethodPost, "/counters/foo", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), `"panic"`)
}

func TestNegotiateResponse(t *testing.T) {
	tests := []struct {
		Accept string
		Type   string
		Err    bool
	}{
		{"", "application/json", false},
		{"*/*", "application/json", false},
		{"application/*", "application/json", false},
		{"text/*", "text/json", false},
		{"application/json", "application/json", false},
		{"application/vnd.diffeo.counter.v1+json", "application/vnd.diffeo.counter.v1+json", false},
		{"text/html, application/json;q=0.5", "application/json", false},
		{"*/*;q=0.1, application/vnd.diffeo.counter+json;q=0.1", "application/vnd.diffeo.counter+json", false},
		{"text/html", "", true},
		{"application/json;q=2", "", true},
		{"application/json;q=x", "", true},
	}
	for _, test := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if test.Accept != "" {
			req.Header.Set("Accept", test.Accept)
		}
		actual, err := negotiateResponse(req)
		if test.Err {
			assert.Error(t, err, "Accept: %v", test.Accept)
		} else if assert.NoError(t, err, "Accept: %v", test.Accept) {
			assert.Equal(t, test.Type, actual, "Accept: %v", test.Accept)
		}
	}
}

func TestMethodLabel(t *testing.T) {
	for _, method := range []string{"GET", "HEAD", "PUT", "POST"} {
		assert.Equal(t, method, methodLabel(method))
	}
	assert.Equal(t, "other", methodLabel("DELETE"))
	assert.Equal(t, "other", methodLabel("get"))
}
