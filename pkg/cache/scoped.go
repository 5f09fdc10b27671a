package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend. The server uses it to keep its entries apart from CLI runs
// pointed at the same Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tessera:serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(opts DatasetKeyOpts) string {
	return k.prefix + k.inner.DatasetKey(opts)
}

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(datasetHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(datasetHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
