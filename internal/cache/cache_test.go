package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prakashgarg91/truckopti/internal/coreerr"
	"github.com/prakashgarg91/truckopti/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respWithCount(n int) domain.PackResponse {
	return domain.PackResponse{Recommendation: &domain.PackingPlan{ContainerCount: n}}
}

func TestCache_GetMissThenHit(t *testing.T) {
	c := New(10, time.Minute)
	_, ok := c.Get(42)
	assert.False(t, ok)

	resp, err := c.GetOrBuild(42, func() (domain.PackResponse, *coreerr.Error) {
		return respWithCount(3), nil
	})
	require.Nil(t, err)
	assert.Equal(t, 3, resp.Recommendation.ContainerCount)

	cached, ok := c.Get(42)
	require.True(t, ok)
	assert.Equal(t, 3, cached.Recommendation.ContainerCount)
}

func TestCache_SingleFlight(t *testing.T) {
	c := New(10, time.Minute)
	var builds int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	const callers = 20
	results := make([]domain.PackResponse, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			resp, err := c.GetOrBuild(7, func() (domain.PackResponse, *coreerr.Error) {
				atomic.AddInt32(&builds, 1)
				time.Sleep(10 * time.Millisecond)
				return respWithCount(9), nil
			})
			require.Nil(t, err)
			results[i] = resp
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds), "concurrent callers on the same fingerprint must share one build")
	for _, r := range results {
		assert.Equal(t, 9, r.Recommendation.ContainerCount)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(10, time.Millisecond)
	fakeNow := time.Now()
	c.now = func() time.Time { return fakeNow }

	_, err := c.GetOrBuild(1, func() (domain.PackResponse, *coreerr.Error) {
		return respWithCount(1), nil
	})
	require.Nil(t, err)

	fakeNow = fakeNow.Add(time.Second)
	_, ok := c.Get(1)
	assert.False(t, ok, "entry should have expired")
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, time.Minute)
	build := func(n int) Builder {
		return func() (domain.PackResponse, *coreerr.Error) { return respWithCount(n), nil }
	}

	_, _ = c.GetOrBuild(1, build(1))
	_, _ = c.GetOrBuild(2, build(2))
	c.Get(1) // touch 1 so 2 becomes least recently used
	_, _ = c.GetOrBuild(3, build(3))

	_, ok := c.Get(2)
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestCache_BuildErrorIsNotCached(t *testing.T) {
	c := New(10, time.Minute)
	_, err := c.GetOrBuild(5, func() (domain.PackResponse, *coreerr.Error) {
		return domain.PackResponse{}, coreerr.New(coreerr.Internal, "boom", nil)
	})
	require.NotNil(t, err)
	assert.Equal(t, 0, c.Len())
}
