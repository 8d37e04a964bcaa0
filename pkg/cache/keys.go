package cache

// Keyer derives cache keys.
type Keyer interface {
	// RecordsKey returns the key of the record set loaded from a source
	// whose content hashes to sourceHash, read with settings.
	RecordsKey(sourceHash string, settings any) string
}

// DefaultKeyer builds keys of the form "records:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RecordsKey hashes sourceHash together with the JSON form of settings,
// so a change of table names, columns or sentinel gives a new key.
func (DefaultKeyer) RecordsKey(sourceHash string, settings any) string {
	return hashKey("records", sourceHash, settings)
}
