// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/diffeo/go-counter/counter"
	"github.com/diffeo/go-counter/restdata"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all counter
// requests.  All counter resources are under the URL path root,
// e.g. /counters/foo.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(s counter.Store) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, s)
	return r
}

// PopulateRouter adds counter routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the counter interface under a subpath:
//
//     import "github.com/diffeo/go-counter/memory"
//     import "github.com/gorilla/mux"
//     r := mux.NewRouter()
//     s := r.PathPrefix("/api").Subrouter()
//     PopulateRouter(s, memory.New())
func PopulateRouter(r *mux.Router, s counter.Store) {
	api := &restAPI{Store: s, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the counter REST API.
type restAPI struct {
	Store  counter.Store
	Router *mux.Router
}

// PopulateRouter adds all counter URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateCounters(r)
	r.Path("/").Name("root").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.RootDocument,
	})
}

func (api *restAPI) RootDocument(ctx *requestContext) (interface{}, error) {
	resp := restdata.RootData{}
	err := buildURLs(api.Router).
		URL(&resp.CountersURL, "counters").
		Template(&resp.CounterURL, "counter", "name").
		Error
	return resp, err
}
