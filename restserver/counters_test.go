// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/memory"
	"github.com/diffeo/go-counter/restdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer wraps a router over a fresh in-memory store.
type testServer struct {
	t       *testing.T
	clock   *clock.Mock
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	clk := clock.NewMock()
	return &testServer{
		t:       t,
		clock:   clk,
		handler: NewRouter(memory.NewWithClock(clk)),
	}
}

func (ts *testServer) Do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	resp := httptest.NewRecorder()
	ts.handler.ServeHTTP(resp, req)
	return resp
}

// JSON decodes a response body as a JSON object.
func (ts *testServer) JSON(resp *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(ts.t, json.Unmarshal(resp.Body.Bytes(), &body), resp.Body.String())
	return body
}

func TestDuplicateCounter(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodPost, "/counters/bar")
	assert.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.Do(http.MethodPost, "/counters/bar")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, map[string]interface{}{
		"error":   "ErrCounterExists",
		"message": "Counter bar already exists",
		"value":   "bar",
	}, ts.JSON(resp))

	resp = ts.Do(http.MethodGet, "/counters/bar")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]interface{}{"bar": 0.0}, ts.JSON(resp))
}

func TestCreateCounter(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodPost, "/counters/foo")
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "/counters/foo", resp.Header().Get("Location"))
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	assert.Equal(t, map[string]interface{}{"foo": 0.0}, ts.JSON(resp))
}

func TestUpdateCounter(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodPost, "/counters/foo")
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.Do(http.MethodPut, "/counters/foo")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]interface{}{"foo": 1.0}, ts.JSON(resp))

	resp = ts.Do(http.MethodPut, "/counters/foo")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]interface{}{"foo": 2.0}, ts.JSON(resp))

	resp = ts.Do(http.MethodGet, "/counters/foo")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]interface{}{"foo": 2.0}, ts.JSON(resp))
}

func TestReadCounter(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodPost, "/counters/my_counter")
	assert.Equal(t, http.StatusCreated, resp.Code)

	for i := 0; i < 3; i++ {
		resp = ts.Do(http.MethodGet, "/counters/my_counter")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, map[string]interface{}{"my_counter": 0.0}, ts.JSON(resp))
	}
}

func TestMissingCounter(t *testing.T) {
	ts := newTestServer(t)
	for _, method := range []string{http.MethodGet, http.MethodPut} {
		resp := ts.Do(method, "/counters/nope")
		assert.Equal(t, http.StatusNotFound, resp.Code, method)
		assert.Equal(t, "ErrNoSuchCounter", ts.JSON(resp)["error"], method)
	}

	// The failed update must not have created the counter
	resp := ts.Do(http.MethodGet, "/counters/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCounterMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodDelete, "/counters/foo")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)

	resp = ts.Do(http.MethodPost, "/counters")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}

func TestCounterHead(t *testing.T) {
	ts := newTestServer(t)
	ts.Do(http.MethodPost, "/counters/foo")
	resp := ts.Do(http.MethodHead, "/counters/foo")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Body.String())
}

func TestCounterLastModified(t *testing.T) {
	ts := newTestServer(t)
	ts.clock.Add(24 * time.Hour)
	ts.Do(http.MethodPost, "/counters/foo")
	ts.clock.Add(time.Hour)
	ts.Do(http.MethodPut, "/counters/foo")
	ts.clock.Add(time.Hour)

	resp := ts.Do(http.MethodGet, "/counters/foo")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Fri, 02 Jan 1970 01:00:00 GMT", resp.Header().Get("Last-Modified"))
}

func TestCounterList(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodGet, "/counters")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, ts.JSON(resp))

	ts.Do(http.MethodPost, "/counters/foo")
	ts.Do(http.MethodPost, "/counters/bar")
	ts.Do(http.MethodPut, "/counters/foo")

	resp = ts.Do(http.MethodGet, "/counters")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]interface{}{"foo": 1.0, "bar": 0.0}, ts.JSON(resp))
}

func TestRootDocument(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.Do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, resp.Code)

	var root restdata.RootData
	err := restdata.Decode(resp.Header().Get("Content-Type"), resp.Body, &root)
	if assert.NoError(t, err) {
		assert.Equal(t, "/counters", root.CountersURL)
		assert.Equal(t, "/counters/{name}", root.CounterURL)
	}
}

func TestNotAcceptable(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/counters/foo", nil)
	req.Header.Set("Accept", "text/html")
	resp := httptest.NewRecorder()
	ts.handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotAcceptable, resp.Code)

	// The rejected request did nothing
	assert.Equal(t, http.StatusNotFound, ts.Do(http.MethodGet, "/counters/foo").Code)
}
