// Package cache memoizes object listings by (bucket, prefix).
//
// Entries never expire and are only replaced as a whole by Put: a listing
// read from the cache is a snapshot that is never partially updated.
package cache

import (
	"slices"
	"time"

	"github.com/sgaunet/s3tui/pkg/dto"
)

// Key identifies a listing.
type Key struct {
	Bucket string
	Prefix string
}

// Listing is a cached listing.
type Listing struct {
	Entries   []dto.ObjectEntry
	FetchedAt time.Time
}

// ListingCache is not safe for concurrent use: it belongs to the UI loop.
type ListingCache struct {
	entries map[Key]Listing
	now     func() time.Time
}

// New creates an empty cache.
func New() *ListingCache {
	return &ListingCache{
		entries: map[Key]Listing{},
		now:     time.Now,
	}
}

// Get returns a copy of the listing of prefix in bucket, if it has been
// fetched.
func (c *ListingCache) Get(bucket, prefix string) (Listing, bool) {
	l, ok := c.entries[Key{Bucket: bucket, Prefix: prefix}]
	if !ok {
		return Listing{}, false
	}
	return l.clone(), true
}

// Put replaces the listing of prefix in bucket with a copy of entries and
// returns a copy of the stored listing.
func (c *ListingCache) Put(bucket, prefix string, entries []dto.ObjectEntry) Listing {
	l := Listing{
		Entries:   slices.Clone(entries),
		FetchedAt: c.now(),
	}
	if l.Entries == nil {
		l.Entries = []dto.ObjectEntry{}
	}
	c.entries[Key{Bucket: bucket, Prefix: prefix}] = l
	return l.clone()
}

func (l Listing) clone() Listing {
	l.Entries = slices.Clone(l.Entries)
	return l
}

// Len returns the number of cached listings.
func (c *ListingCache) Len() int {
	return len(c.entries)
}

// SetClock replaces the clock used for FetchedAt.
func (c *ListingCache) SetClock(now func() time.Time) {
	c.now = now
}
