package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple editors sharing one
// Redis instance get separate namespaces.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer falls back to the default scheme.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(dotHash, opts)
}

// CompileKey generates a prefixed key for emitted DOT text.
func (k *ScopedKeyer) CompileKey(sourceHash string) string {
	return k.prefix + k.inner.CompileKey(sourceHash)
}

var _ Keyer = (*ScopedKeyer)(nil)
