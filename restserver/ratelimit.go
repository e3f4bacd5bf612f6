// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/restdata"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a client's token bucket is kept after
// its last request.
const idleLimiterTTL = 15 * time.Minute

// maxLimiterClients is the most clients tracked at once; the least
// recently seen client is forgotten beyond that.
const maxLimiterClients = 65536

// RateLimiter keeps one token bucket per client address.  It is a
// negroni middleware that rejects requests over the limit with 429
// Too Many Requests.
type RateLimiter struct {
	limit       rate.Limit
	burst       int
	clock       clock.Clock
	lock        sync.Mutex
	entries     *limiterLRU
	nextCleanup time.Time
}

// NewRateLimiter creates a rate limiter allowing rps requests per
// second per client, with bursts of up to burst requests.
func NewRateLimiter(rps float64, burst int, clk clock.Clock) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clock:   clk,
		entries: newLimiterLRU(maxLimiterClients),
	}
}

// Allow reports whether one more request from key is allowed now.
func (l *RateLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.lock.Lock()
	defer l.lock.Unlock()

	if !now.Before(l.nextCleanup) {
		l.cleanup(now)
	}
	entry := l.entries.Get(key, func() *limiterEntry {
		return &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
	})
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// cleanup drops clients idle for longer than idleLimiterTTL.  The
// caller must hold l.lock.
func (l *RateLimiter) cleanup(now time.Time) {
	l.entries.RemoveIdle(now.Add(-idleLimiterTTL))
	l.nextCleanup = now.Add(idleLimiterTTL)
}

// clientKey identifies the client of a request by its IP address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *RateLimiter) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if l.Allow(clientKey(r)) {
		next(rw, r)
		return
	}
	rw.Header().Set("Content-Type", restdata.JSONMediaType)
	rw.WriteHeader(http.StatusTooManyRequests)
	_ = restdata.Encode(rw, restdata.ErrorResponse{
		Error:   "ErrRateLimited",
		Message: fmt.Sprintf("Rate limit of %v requests per second exceeded", float64(l.limit)),
	})
}
