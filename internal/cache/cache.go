// Package cache implements the fingerprinted packing-plan cache and
// single-flight build latch described in spec.md §4.7.
package cache

import (
	"container/list"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/domain"
)

type entry struct {
	key       uint64
	resp      domain.PackResponse
	expiresAt time.Time
}

// Cache is a fingerprint-keyed LRU of immutable PackResponses (a
// recommendation plus its scored alternatives) with a TTL. Entries are
// never mutated in place after insertion; GetOrBuild replaces an entry
// wholesale rather than editing it.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	ll       *list.List
	index    map[uint64]*list.Element
	group    singleflight.Group
	now      func() time.Time
}

// New builds a Cache bounded to capacity entries (0 means unbounded),
// each valid for ttl after insertion.
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    map[uint64]*list.Element{},
		now:      time.Now,
	}
}

// Get returns the cached response for key, if present and unexpired.
func (c *Cache) Get(key uint64) (domain.PackResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		CacheMissesTotal.Inc()
		return domain.PackResponse{}, false
	}
	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeElement(el)
		CacheMissesTotal.Inc()
		return domain.PackResponse{}, false
	}
	c.ll.MoveToFront(el)
	CacheHitsTotal.Inc()
	return e.resp, true
}

func (c *Cache) set(key uint64, resp domain.PackResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		c.ll.Remove(el)
		delete(c.index, key)
	}
	e := &entry{key: key, resp: resp, expiresAt: c.now().Add(c.ttl)}
	el := c.ll.PushFront(e)
	c.index[key] = el
	if c.capacity > 0 && c.ll.Len() > c.capacity {
		c.removeElement(c.ll.Back())
	}
	CacheSize.Set(float64(c.ll.Len()))
}

func (c *Cache) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.index, el.Value.(*entry).key)
}

// Len reports the current number of live (possibly expired) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Builder computes a PackResponse for a fingerprint on a cache miss.
type Builder func() (domain.PackResponse, *coreerr.Error)

// GetOrBuild returns the cached response for key, or invokes build
// exactly once across any number of concurrent callers racing on the
// same key, via golang.org/x/sync/singleflight — the
// at-most-one-concurrent-build latch spec.md §4.7 requires. The built
// response is cached before the first caller to trigger the build
// observes it.
func (c *Cache) GetOrBuild(key uint64, build Builder) (domain.PackResponse, *coreerr.Error) {
	if resp, ok := c.Get(key); ok {
		return resp, nil
	}

	v, err, _ := c.group.Do(strconv.FormatUint(key, 10), func() (interface{}, error) {
		start := time.Now()
		resp, cerr := build()
		PackDuration.Observe(time.Since(start).Seconds())
		if cerr != nil {
			return nil, cerr
		}
		c.set(key, resp)
		return resp, nil
	})
	if err != nil {
		return domain.PackResponse{}, err.(*coreerr.Error)
	}
	return v.(domain.PackResponse), nil
}
