// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-counter/counter"
	"github.com/diffeo/go-counter/restdata"
	"github.com/gorilla/mux"
)

func (api *restAPI) counterURL(c counter.Counter) (string, error) {
	var location string
	err := buildURLs(api.Router, "name", c.Name).URL(&location, "counter").Error
	return location, err
}

// CounterList gets the values of all counters known in the system.
func (api *restAPI) CounterList(ctx *requestContext) (interface{}, error) {
	counters, err := api.Store.List(ctx.Ctx)
	if err != nil {
		return nil, err
	}
	return restdata.CounterList(counter.Values(counters)), nil
}

// CounterPost creates a new counter with value 0.  It is an error if
// the counter already exists.
func (api *restAPI) CounterPost(ctx *requestContext) (interface{}, error) {
	c, err := api.Store.Create(ctx.Ctx, ctx.Name)
	if err != nil {
		return nil, restdata.WrapError(err)
	}
	location, err := api.counterURL(c)
	if err != nil {
		return nil, err
	}
	return responseCreated{
		Location: location,
		Modified: c.Modified,
		Body:     restdata.NewCounter(c.Name, c.Value),
	}, nil
}

// CounterPut increments an existing counter.
func (api *restAPI) CounterPut(ctx *requestContext) (interface{}, error) {
	c, err := api.Store.Increment(ctx.Ctx, ctx.Name)
	if err != nil {
		return nil, restdata.WrapError(err)
	}
	return responseModified{
		Modified: c.Modified,
		Body:     restdata.NewCounter(c.Name, c.Value),
	}, nil
}

// CounterGet reads an existing counter.
func (api *restAPI) CounterGet(ctx *requestContext) (interface{}, error) {
	c, err := api.Store.Get(ctx.Ctx, ctx.Name)
	if err != nil {
		return nil, restdata.WrapError(err)
	}
	return responseModified{
		Modified: c.Modified,
		Body:     restdata.NewCounter(c.Name, c.Value),
	}, nil
}

// PopulateCounters adds counter-specific routes to a router.
// r should be rooted at the root of the counter URL tree, e.g. "/".
func (api *restAPI) PopulateCounters(r *mux.Router) {
	r.Path("/counters").Name("counters").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CounterList,
	})
	r.Path("/counters/{name}").Name("counter").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.CounterGet,
		Put:     api.CounterPut,
		Post:    api.CounterPost,
	})
}
