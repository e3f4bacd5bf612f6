// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"context"
	"net/http"
	"time"

	"github.com/diffeo/go-counter/counter"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// RequestIDHeader is the HTTP header carrying the request identifier.
// A client-supplied value is kept; otherwise a new UUID is generated.
const RequestIDHeader = "X-Request-Id"

type contextKey int

const requestIDKey contextKey = iota

// Options controls the middleware that WithMiddleware wraps around a
// handler.
type Options struct {
	// Logger receives one entry per request.  If nil, the logrus
	// standard logger is used.
	Logger logrus.FieldLogger

	// LogRequests logs every request at info level.  Otherwise
	// only server errors are logged above debug level.
	LogRequests bool

	// Metrics, if non-nil, counts requests by method and status.
	Metrics *Metrics

	// RateLimiter, if non-nil, limits the request rate per client
	// address.
	RateLimiter *RateLimiter
}

// NewHandler creates a complete HTTP handler for a counter store: the
// routes from NewRouter wrapped in the middleware named by opts.
func NewHandler(s counter.Store, opts Options) http.Handler {
	return WithMiddleware(NewRouter(s), opts)
}

// WithMiddleware wraps an arbitrary handler in the request ID,
// logging, metrics, and rate-limiting middleware.
func WithMiddleware(h http.Handler, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	n := negroni.New()
	n.Use(negroni.HandlerFunc(assignRequestID))
	n.Use(RequestLogger(logger, opts.LogRequests))
	if opts.Metrics != nil {
		n.Use(opts.Metrics)
	}
	if opts.RateLimiter != nil {
		n.Use(opts.RateLimiter)
	}
	n.UseHandler(h)
	return n
}

// RequestID returns the request identifier assigned by the middleware,
// or the empty string if there is none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func assignRequestID(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewV4().String()
	}
	rw.Header().Set(RequestIDHeader, id)
	next(rw, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
}

// responseStatus returns the status code a handler wrote, defaulting
// to 200 if it wrote nothing explicit.
func responseStatus(rw http.ResponseWriter) int {
	if nrw, ok := rw.(negroni.ResponseWriter); ok && nrw.Status() != 0 {
		return nrw.Status()
	}
	return http.StatusOK
}

// RequestLogger creates a middleware that logs each request after it
// completes.
func RequestLogger(logger logrus.FieldLogger, verbose bool) negroni.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		start := time.Now()
		next(rw, r)
		status := responseStatus(rw)
		entry := logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     status,
			"duration":   time.Since(start),
			"remote":     r.RemoteAddr,
			"request_id": RequestID(r.Context()),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case verbose:
			entry.Info("Request")
		default:
			entry.Debug("Request")
		}
	}
}
