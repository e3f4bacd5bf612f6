// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides a counter.Store that talks to the
// matching HTTP REST server in the "restserver" package.
//
// The server in github.com/diffeo/go-counter/cmd/counterd runs a
// compatible REST server.  Call New() with the base URL of that
// service; for instance,
//
//     s, err := restclient.New("http://localhost:5980/")
package restclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"

	"github.com/diffeo/go-counter/counter"
	"github.com/diffeo/go-counter/restdata"
)

// errBadCounter is returned if the server sends back a counter body
// that does not name exactly the requested counter.
var errBadCounter = errors.New("Malformed counter response")

// New creates a new counter.Store that speaks to an external REST
// server, using the default HTTP client.
func New(baseURL string) (counter.Store, error) {
	return NewWithClient(baseURL, http.DefaultClient)
}

// NewWithClient creates a new counter.Store that speaks to an
// external REST server through a specific HTTP client.  This fetches
// the server's root document, and fails if that cannot be read.
func NewWithClient(baseURL string, client *http.Client) (counter.Store, error) {
	var (
		err error
		u   *url.URL
		s   *restStore
	)
	if baseURL == "" {
		err = errors.New("empty REST base URL")
	}
	if err == nil {
		u, err = url.Parse(baseURL)
	}
	if err == nil {
		s = &restStore{
			resource: resource{URL: u, Client: client},
		}
		err = s.Refresh(context.Background())
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

type restStore struct {
	resource
	Representation restdata.RootData
}

func (s *restStore) Refresh(ctx context.Context) error {
	s.Representation = restdata.RootData{}
	return s.Fetch(ctx, &s.Representation)
}

// counter sends a request to a single counter's URL and decodes the
// response.
func (s *restStore) counter(ctx context.Context, method, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}
	u, err := s.Template(s.Representation.CounterURL, map[string]interface{}{"name": name})
	if err != nil {
		return counter.Counter{}, err
	}

	var repr restdata.Counter
	resp, err := s.Do(ctx, method, u, &repr)
	if err != nil {
		return counter.Counter{}, err
	}
	gotName, value, ok := repr.Only()
	if !ok || gotName != name {
		return counter.Counter{}, errBadCounter
	}
	result := counter.Counter{Name: name, Value: value}
	// Modified times only have one-second resolution over HTTP.
	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if modified, err := http.ParseTime(lastModified); err == nil {
			result.Modified = modified
		}
	}
	return result, nil
}

func (s *restStore) Create(ctx context.Context, name string) (counter.Counter, error) {
	return s.counter(ctx, http.MethodPost, name)
}

func (s *restStore) Increment(ctx context.Context, name string) (counter.Counter, error) {
	return s.counter(ctx, http.MethodPut, name)
}

func (s *restStore) Get(ctx context.Context, name string) (counter.Counter, error) {
	return s.counter(ctx, http.MethodGet, name)
}

func (s *restStore) List(ctx context.Context) ([]counter.Counter, error) {
	u, err := s.URL.Parse(s.Representation.CountersURL)
	if err != nil {
		return nil, err
	}
	var repr restdata.CounterList
	if _, err = s.Do(ctx, http.MethodGet, u, &repr); err != nil {
		return nil, err
	}
	result := make([]counter.Counter, 0, len(repr))
	for name, value := range repr {
		result = append(result, counter.Counter{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
