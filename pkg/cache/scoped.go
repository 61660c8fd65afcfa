package cache

// ScopedKeyer wraps a Keyer with a prefix so that different producers can
// share one backend without colliding.
//
// Example usage:
//
//	// API entries live next to CLI entries in the same Redis database
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ReportKey generates a prefixed summary key.
func (k *ScopedKeyer) ReportKey(treeHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(treeHash, opts)
}

// ArtifactKey generates a prefixed diagram key.
func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}
