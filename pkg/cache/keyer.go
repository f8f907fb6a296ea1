package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// MappingKey identifies the mapping of a graph computed with opts.
	MappingKey(graphHash string, opts MappingKeyOpts) string

	// RenderKey identifies a rendering of a cached mapping.
	RenderKey(mappingKey, format string) string
}

// MappingKeyOpts lists the options that change a mapping result.
type MappingKeyOpts struct {
	Arch      string  `json:"arch"`
	Strategy  string  `json:"strategy"`
	Imbalance float64 `json:"imbalance"`
	Seed      uint64  `json:"seed"`
	Threads   int     `json:"threads"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MappingKey returns "mapping:<sha256>" over the graph hash and options.
func (DefaultKeyer) MappingKey(graphHash string, opts MappingKeyOpts) string {
	return hashKey("mapping", graphHash, opts)
}

// RenderKey returns "render:<format>:<mapping key>".
func (DefaultKeyer) RenderKey(mappingKey, format string) string {
	return fmt.Sprintf("render:%s:%s", format, mappingKey)
}
