// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines common data structures for the counter
// REST interface.
//
// The REST interface is expressed as a set of resources, each at its
// own URL.  The root document ("/") returns a RootData object that
// names the other resources; clients should follow the URLs and URI
// templates there rather than building paths themselves.
//
// The counter resource itself ("/counters/{name}") is represented
// as a JSON object with exactly one key, the counter name, mapped to
// its integer value:
//
//     {"my_counter": 0}
//
// POST creates the counter (201 Created, or 409 Conflict if it
// already exists), PUT increments it (200 OK, or 404 Not Found), and
// GET reads it (200 OK, or 404 Not Found).  Failing requests return
// an ErrorResponse object.
package restdata

// JSONMediaType is the generic MIME type for JSON content.  Responses
// use this unless the client specifically asks for a vendor type.
const JSONMediaType = "application/json"

// V1JSONMediaType is the most specific vendor MIME type for the JSON
// representation of this content.
const V1JSONMediaType = "application/vnd.diffeo.counter.v1+json"

// VendorJSONMediaType requests the most recent version of the vendor
// JSON representation of this content.
const VendorJSONMediaType = "application/vnd.diffeo.counter+json"

// RootData is the response from the root URL of the service.
type RootData struct {
	// CountersURL is the URL of the list of all counters.
	CountersURL string `json:"counters_url"`

	// CounterURL is a URI template for a single counter, with a
	// single parameter "name".
	CounterURL string `json:"counter_url"`
}

// Counter is the representation of a single counter: a map with
// exactly one key, the counter name, mapped to its value.
type Counter map[string]int64

// NewCounter builds the representation of a single counter.
func NewCounter(name string, value int64) Counter {
	return Counter{name: value}
}

// Only returns the single name and value in c.  ok is false if c does
// not have exactly one key.
func (c Counter) Only() (name string, value int64, ok bool) {
	if len(c) == 1 {
		for name, value = range c {
			return name, value, true
		}
	}
	return "", 0, false
}

// CounterList is the representation of every counter in the store,
// mapping each name to its value.
type CounterList map[string]int64

// ErrorResponse can be a response to any method, generally accompanied
// by a failing HTTP status code.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name of a counter API error, the string "panic", or the
	// string "error" for some other kind of error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is an extra parameter to the error if applicable,
	// usually the counter name.
	Value string `json:"value,omitempty"`

	// Stack holds a formatted backtrace, if the method failed
	// due to a panic.
	Stack string `json:"stack,omitempty"`
}
