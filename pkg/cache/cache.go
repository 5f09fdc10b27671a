// Package cache stores generated datasets, placement results and rendered
// artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// the HTTP server, and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so that callers never build key strings by hand; a [ScopedKeyer]
// adds a namespace prefix on top of any Keyer.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Default TTLs per stage. Datasets and results are pure functions of their
// keys, so they only expire to bound disk usage.
const (
	DatasetTTL  = 7 * 24 * time.Hour
	ResultTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DatasetKeyOpts identifies a generated dataset.
type DatasetKeyOpts struct {
	Generator string `json:"generator"`
	Width     int    `json:"width"`
	Depth     int    `json:"depth"`
	Seed      uint64 `json:"seed"`
}

// ResultKeyOpts identifies a placement run over a dataset.
type ResultKeyOpts struct {
	Seed        uint64 `json:"seed"`
	SeedElement int    `json:"seed_element"` // -1 when drawn from the seed
}

// ArtifactKeyOpts identifies one rendering of a result.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	CellSize   float64 `json:"cell_size,omitempty"`
	Gap        float64 `json:"gap,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Labels     bool    `json:"labels,omitempty"`
	Background string  `json:"background,omitempty"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	DatasetKey(opts DatasetKeyOpts) string
	ResultKey(datasetHash string, opts ResultKeyOpts) string
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options under a fixed prefix per stage.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns "dataset:<hash>".
func (DefaultKeyer) DatasetKey(opts DatasetKeyOpts) string {
	return hashKey("dataset", opts)
}

// ResultKey returns "result:<hash>" over the dataset hash and options.
func (DefaultKeyer) ResultKey(datasetHash string, opts ResultKeyOpts) string {
	return hashKey("result", datasetHash, opts)
}

// ArtifactKey returns "artifact:<hash>" over the result hash and options.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

var _ Keyer = DefaultKeyer{}

// GetJSON reads key and decodes it into v. A miss returns ErrCacheMiss; an
// entry that no longer decodes is deleted and also reported as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
