package cache

// ScopedKeyer wraps a Keyer with a prefix. Responses fetched with a GitHub
// token can include private data, so the CLI scopes keys by a hash of the
// token:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), TokenScope(token))
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// TokenScope returns a key prefix derived from a credential without
// embedding it. An empty token maps to the shared "anon:" scope.
func TokenScope(token string) string {
	if token == "" {
		return "anon:"
	}
	return "token:" + Hash([]byte(token))[:16] + ":"
}
