// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file provides a simple LRU table of per-client rate limiters.
// Recency order doubles as idle order, so expiring idle clients only
// looks at the oldest entries.

import (
	"container/list"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	key      string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterLRU is a least-recently-used table with a fixed capacity.
// It is not safe for concurrent use; RateLimiter guards it with its
// own lock.
type limiterLRU struct {
	size      int
	evictList *list.List
	index     map[string]*list.Element
}

func newLimiterLRU(size int) *limiterLRU {
	return &limiterLRU{
		size:      size,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves the entry for key, marking it most recently used.  If
// it is not present, calls create and saves the result, possibly
// evicting the least recently used entry.
func (lru *limiterLRU) Get(key string, create func() *limiterEntry) *limiterEntry {
	if element, present := lru.index[key]; present {
		lru.evictList.MoveToBack(element)
		return element.Value.(*limiterEntry)
	}

	entry := create()
	entry.key = key
	lru.index[key] = lru.evictList.PushBack(entry)
	for len(lru.index) > lru.size {
		lru.removeElement(lru.evictList.Front())
	}
	return entry
}

// RemoveIdle drops every entry last seen before cutoff.  Entries are
// touched in recency order, so this stops at the first recent one.
func (lru *limiterLRU) RemoveIdle(cutoff time.Time) {
	for {
		head := lru.evictList.Front()
		if head == nil || !head.Value.(*limiterEntry).lastSeen.Before(cutoff) {
			return
		}
		lru.removeElement(head)
	}
}

// Len returns the number of entries.
func (lru *limiterLRU) Len() int {
	return len(lru.index)
}

// Contains reports whether key has an entry, without changing its
// recency.
func (lru *limiterLRU) Contains(key string) bool {
	_, present := lru.index[key]
	return present
}

func (lru *limiterLRU) removeElement(element *list.Element) {
	delete(lru.index, element.Value.(*limiterEntry).key)
	lru.evictList.Remove(element)
}
