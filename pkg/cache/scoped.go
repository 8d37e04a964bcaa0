package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// record format version so entries written by an older binary are never
// decoded by a newer one.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RecordsKey generates a prefixed record set key.
func (k *ScopedKeyer) RecordsKey(sourceHash string, settings any) string {
	return k.prefix + k.inner.RecordsKey(sourceHash, settings)
}
