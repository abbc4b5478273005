package permstore

// Permission resolves the level governing path. The first segment is looked
// up against the merged view (declared fields overlaid by written entries)
// so dynamically materialized children govern their own subtrees the same
// way declared ones do. Nested stores delegate the remainder; a producer
// that yields a nested store is transparent and delegates likewise. In all
// other cases the level is the instance override for the segment, then the
// shape override, then the default level. An empty path resolves to the
// default level.
func (s *Store) Permission(path string) Level {
	if path == "" {
		return s.defaultLevel
	}
	head, rest := splitPath(path)
	if entry, ok := s.lookup(head); ok {
		if child, ok := entry.AsStore(); ok {
			return child.Permission(rest)
		}
		if fn, ok := entry.AsProducer(); ok && fn != nil {
			if child, ok := fn().(*Store); ok && child != nil {
				return child.Permission(rest)
			}
		}
	}
	if level, ok := s.overrides[head]; ok {
		return level
	}
	if level, ok := s.shapeOverrides[head]; ok {
		return level
	}
	return s.defaultLevel
}

// AllowedToRead reports whether the level resolved for path grants reads.
func (s *Store) AllowedToRead(path string) bool {
	return s.Permission(path).CanRead()
}

// AllowedToWrite reports whether the level resolved for path grants writes.
func (s *Store) AllowedToWrite(path string) bool {
	return s.Permission(path).CanWrite()
}
