package services

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gophdrive_metadata_cache_hits_total",
		Help: "File metadata cache hits.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gophdrive_metadata_cache_misses_total",
		Help: "File metadata cache misses.",
	})
)

type metadataKey struct {
	userID int64
	fileID int64
}

// MetadataCache is an expiring LRU of file metadata keyed by owner and file.
// A nil *MetadataCache is valid and caches nothing.
//
// Every owner has a generation that Remove and PurgeOwner advance. A reader
// takes the generation before its transaction and hands it to Put, which
// drops the entry if a write of the same owner has happened in between.
type MetadataCache struct {
	lru *expirable.LRU[metadataKey, *models.File]

	mu  sync.Mutex
	gen map[int64]uint64
}

// NewMetadataCache returns nil when size is not positive.
func NewMetadataCache(size int, ttl time.Duration) *MetadataCache {
	if size <= 0 {
		return nil
	}
	return &MetadataCache{
		lru: expirable.NewLRU[metadataKey, *models.File](size, nil, ttl),
		gen: make(map[int64]uint64),
	}
}

// Generation returns the current generation of userID's entries.
func (c *MetadataCache) Generation(userID int64) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[userID]
}

func (c *MetadataCache) Get(userID, fileID int64) (*models.File, bool) {
	if c == nil {
		return nil, false
	}
	f, ok := c.lru.Get(metadataKey{userID, fileID})
	if !ok {
		cacheMissesTotal.Inc()
		return nil, false
	}
	cacheHitsTotal.Inc()
	// callers may modify what they get back
	return f.Metadata(), true
}

// Put stores f unless the owner's generation is no longer gen.
func (c *MetadataCache) Put(f *models.File, gen uint64) {
	if c == nil || f == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[f.UserID] != gen {
		return
	}
	c.lru.Add(metadataKey{f.UserID, f.ID}, f.Metadata())
}

func (c *MetadataCache) Remove(userID, fileID int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[userID]++
	c.lru.Remove(metadataKey{userID, fileID})
}

// PurgeOwner drops every entry of userID.
func (c *MetadataCache) PurgeOwner(userID int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[userID]++
	for _, k := range c.lru.Keys() {
		if k.userID == userID {
			c.lru.Remove(k)
		}
	}
}

func (c *MetadataCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
