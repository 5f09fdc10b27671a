package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/dataset"
	"github.com/matzehuels/tessera/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Generate
	genStart := time.Now()
	d, hash, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Dataset = d
	result.DatasetHash = hash
	result.Stats.Elements = d.Len()
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.DatasetHit = genHit

	logger.Info("dataset ready",
		"generator", d.Generator,
		"width", d.Width,
		"depth", d.Depth,
		"cached", genHit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Build
	buildStart := time.Now()
	p, buildHit, err := r.BuildWithCacheInfo(ctx, d, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Placement = p
	result.Stats.Steps = p.Steps()
	result.Stats.Height = p.Grid.Height()
	result.Stats.Score = p.Score
	result.Stats.BuildTime = time.Since(buildStart)
	result.CacheInfo.BuildHit = buildHit

	logger.Info("placement built",
		"steps", p.Steps(),
		"height", p.Grid.Height(),
		"score", fmt.Sprintf("%.3f", p.Score),
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, hash, p, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo returns the dataset, the hash of its JSON encoding,
// and whether it came from cache. A dataset supplied in opts is never cached.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*dataset.Dataset, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, "", false, err
	}

	if opts.Dataset != nil {
		data, err := dataset.Marshal(opts.Dataset)
		if err != nil {
			return nil, "", false, err
		}
		return opts.Dataset, cache.Hash(data), false, nil
	}

	cacheKey := r.Keyer.DatasetKey(opts.DatasetKeyOpts())
	if !opts.Refresh {
		if data, hit := r.lookup(ctx, "dataset", cacheKey); hit {
			if d, err := dataset.Unmarshal(data); err == nil {
				return d, cache.Hash(data), true, nil
			}
			// undecodable entry, fall through to regenerate
		}
	}

	d, err := Generate(ctx, opts)
	if err != nil {
		return nil, "", false, err
	}
	data, err := dataset.Marshal(d)
	if err != nil {
		return nil, "", false, err
	}
	r.store(ctx, "dataset", cacheKey, data, cache.DatasetTTL)
	return d, cache.Hash(data), false, nil
}

// BuildWithCacheInfo runs the placement with caching and returns cache hit
// info. datasetHash keys the result; pass the hash GenerateWithCacheInfo
// returned. An Observer in opts bypasses the cache lookup so that it sees
// every step.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, d *dataset.Dataset, datasetHash string, opts Options) (*Placement, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ResultKey(datasetHash, opts.ResultKeyOpts())
	if !opts.Refresh && opts.Observer == nil {
		if data, hit := r.lookup(ctx, "result", cacheKey); hit {
			var p Placement
			if err := json.Unmarshal(data, &p); err == nil && p.Width == d.Width && p.Depth == d.Depth {
				return &p, true, nil
			}
		}
	}

	p, err := Build(ctx, d, opts)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(p); err == nil {
		r.store(ctx, "result", cacheKey, data, cache.ResultTTL)
	}
	return p, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. Formats missing from the cache are rendered together; the hit
// flag is true only when every format was cached. Colours come from the
// dataset, so datasetHash is part of the key.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *dataset.Dataset, datasetHash string, p *Placement, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	placementData, err := json.Marshal(p)
	if err != nil {
		return nil, false, fmt.Errorf("serialize placement for cache key: %w", err)
	}
	resultHash := cache.Hash([]byte(datasetHash + ":" + cache.Hash(placementData)))

	artifacts := make(map[string][]byte, len(opts.Formats))
	missing := opts.Formats
	if !opts.Refresh {
		missing = nil
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			if data, hit := r.lookup(ctx, "artifact", key); hit {
				artifacts[format] = data
			} else {
				missing = append(missing, format)
			}
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := renderFormats(ctx, d, p, opts, missing)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads the cache, treating backend errors as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

// store writes the cache; failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
