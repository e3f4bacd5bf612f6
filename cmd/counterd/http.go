// Copyright 2015 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"

	"github.com/diffeo/go-counter/counter"
	"github.com/diffeo/go-counter/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newHTTPHandler builds the REST interface plus /metrics, wrapped in
// the request middleware.
func newHTTPHandler(store counter.Store, gatherer prometheus.Gatherer, opts restserver.Options) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	restserver.PopulateRouter(r, store)
	return restserver.WithMiddleware(r, opts)
}
