package assignment

import "maps"

// Metadata carries request details (sender, addresses, description, ...)
// alongside an assignment. Values must be encodable as JSON.
type Metadata map[string]any

// Clone returns a shallow copy; a nil receiver yields an empty map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	maps.Copy(out, m)
	return out
}
