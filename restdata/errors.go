// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/diffeo/go-counter/counter"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrConflict is a wrapper error that indicates that the request
// conflicts with the current state of the resource, and a REST
// service should return a 409 Conflict error.
type ErrConflict struct {
	Err error
}

func (e ErrConflict) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 409 Conflict error code.
func (e ErrConflict) HTTPStatus() int {
	return http.StatusConflict
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers, the request body, or the URL parameters.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// WrapError attaches an HTTP status to the well-known counter errors.
// Other errors are returned unchanged.
func WrapError(err error) error {
	switch err.(type) {
	case counter.ErrCounterExists:
		return ErrConflict{Err: err}
	case counter.ErrNoSuchCounter:
		return ErrNotFound{Err: err}
	case counter.ErrBadCounterName:
		return ErrBadRequest{Err: err}
	}
	if err == counter.ErrNoCounterName {
		return ErrBadRequest{Err: err}
	}
	return err
}

// FromError populates an ErrorResponse to fill in its fields based
// on an error value.  This remaps the well-known counter errors to
// specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	if err == counter.ErrNoCounterName {
		e.Error = "ErrNoCounterName"
	}
	switch et := err.(type) {
	case counter.ErrCounterExists:
		e.Error = "ErrCounterExists"
		e.Value = et.Name
	case counter.ErrNoSuchCounter:
		e.Error = "ErrNoSuchCounter"
		e.Value = et.Name
	case counter.ErrBadCounterName:
		e.Error = "ErrBadCounterName"
		e.Value = et.Name
	case ErrNotFound:
		// Discard this wrapper and return the embedded error
		e.FromError(et.Err)
	case ErrConflict:
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	}
}

// ToError converts e back to a counter error, if that is possible.
// If not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrNoCounterName":
		return counter.ErrNoCounterName
	case "ErrCounterExists":
		return counter.ErrCounterExists{Name: e.Value}
	case "ErrNoSuchCounter":
		return counter.ErrNoSuchCounter{Name: e.Value}
	case "ErrBadCounterName":
		return counter.ErrBadCounterName{Name: e.Value}
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical use
// is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             resp := restdata.ErrorResponse{}
//             resp.FromPanic(obj)
//             // write resp out as makes sense
//         }
//     }()
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	n := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:n])
}
