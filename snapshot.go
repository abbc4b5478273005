package permstore

// Entries produces a flat snapshot of the currently readable scalar keys.
// The snapshot deliberately narrows Read's result domain for
// serialization-style consumers: producers, nested stores, arrays, and
// nil-valued entries are excluded even though each remains independently
// readable via Read.
func (s *Store) Entries() map[string]any {
	out := map[string]any{}
	for key, entry := range s.mergedView() {
		if entry.Kind() != KindScalar {
			continue
		}
		value := entry.Value()
		if value == nil {
			continue
		}
		if !s.AllowedToRead(key) {
			continue
		}
		out[key] = value
	}
	return out
}
