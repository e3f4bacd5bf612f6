// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a counter.Store as a REST service.
// The restclient package is a matching client.
//
// The complete REST API is defined in the restdata package.  In
// particular, note that only the counter URLs below are a fixed part
// of the API; clients should discover everything else from the root
// document.
//
// HTTP Considerations
//
// Responses are JSON.  Clients may use the standard HTTP Accept:
// header to request a specific JSON media type; see "MIME Types"
// below.  Request bodies are not needed and are ignored.
//
// Responses for a single counter carry a Last-Modified: header if the
// backing store records modification times.  This interface does not
// (currently) support conditional requests or authentication
// headers.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//     application/vnd.diffeo.counter.v1+json
//
// JSON representation of version 1 of this interface.
//
//     application/vnd.diffeo.counter+json
//     application/json
//     text/json
//
// JSON representation of latest version of this interface.  Responses
// default to application/json.
//
// URL Scheme
//
// The following URLs are defined:
//
//     /
//     /counters
//     /counters/{name}
//
// POST /counters/{name} creates a counter, PUT increments it, and GET
// reads it.  The counter name is a single path segment.
package restserver
