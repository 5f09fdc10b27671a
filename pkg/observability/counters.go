package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters accumulates event totals. The zero value is ready to use and safe
// for concurrent use. It embeds the no-op hooks for events it does not count.
type Counters struct {
	NoopPipelineHooks
	NoopHTTPHooks

	builds      atomic.Int64
	buildErrors atomic.Int64
	steps       atomic.Int64
	buildNanos  atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	requests    atomic.Int64
	failures    atomic.Int64
}

// CounterSnapshot is a point-in-time copy of Counters.
type CounterSnapshot struct {
	Builds      int64         `json:"builds"`
	BuildErrors int64         `json:"build_errors"`
	Steps       int64         `json:"steps"`
	BuildTime   time.Duration `json:"build_time_ns"`
	CacheHits   int64         `json:"cache_hits"`
	CacheMisses int64         `json:"cache_misses"`
	Requests    int64         `json:"requests"`
	Failures    int64         `json:"failures"`
}

func (c *Counters) OnBuildComplete(_ context.Context, steps int, d time.Duration, err error) {
	c.builds.Add(1)
	if err != nil {
		c.buildErrors.Add(1)
		return
	}
	c.steps.Add(int64(steps))
	c.buildNanos.Add(int64(d))
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }
func (c *Counters) OnError(context.Context, string, string, error) {
	c.failures.Add(1)
}

// Snapshot returns the current totals.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Builds:      c.builds.Load(),
		BuildErrors: c.buildErrors.Load(),
		Steps:       c.steps.Load(),
		BuildTime:   time.Duration(c.buildNanos.Load()),
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
		Requests:    c.requests.Load(),
		Failures:    c.failures.Load(),
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
