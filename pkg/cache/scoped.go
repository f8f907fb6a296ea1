package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each tenant of a shared
// backend its own namespace.
//
// Example usage:
//
//	// API server instances sharing one Redis
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Local CLI cache
//	cliKeyer := NewDefaultKeyer()
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

// MappingKey generates a prefixed mapping key.
func (k *ScopedKeyer) MappingKey(graphHash string, opts MappingKeyOpts) string {
	return k.prefix + k.inner.MappingKey(graphHash, opts)
}

// RenderKey generates a prefixed render key. mappingKey is used as given,
// so a key produced by this keyer is not prefixed twice.
func (k *ScopedKeyer) RenderKey(mappingKey, format string) string {
	return k.prefix + k.inner.RenderKey(mappingKey, format)
}
