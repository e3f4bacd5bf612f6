// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"context"
	"net/http"
	"net/url"

	"github.com/diffeo/go-counter/counter"
	"github.com/diffeo/go-counter/restdata"
	"github.com/gorilla/mux"
)

// requestContext holds all of the information and objects that can be
// extracted from the request and its URL parameters.
type requestContext struct {
	// Ctx is the request's context, passed on to the store.
	Ctx context.Context

	// Name is the counter name from the URL, if the route has one.
	Name string

	QueryParams url.Values
}

func (api *restAPI) Context(req *http.Request) (ctx *requestContext, err error) {
	ctx = &requestContext{
		Ctx:         req.Context(),
		QueryParams: req.URL.Query(),
	}
	vars := mux.Vars(req)

	if name, present := vars["name"]; present {
		ctx.Name = name
		if err = counter.ValidateName(name); err != nil {
			err = restdata.ErrBadRequest{Err: err}
		}
	}
	return
}
