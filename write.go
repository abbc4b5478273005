package permstore

import (
	"sort"
	"time"
)

// Write binds value at path, returning the value passed in. It fails with
// an *AccessError wrapping ErrAccessDenied when the resolved level lacks
// write capability. A structured value (map[string]any) is never stored
// verbatim: a fresh child store is materialized and each pair written into
// it recursively; structured keys are literal and must not contain the
// separator. Arrays are bound as opaque leaves.
func (s *Store) Write(path string, value any) (any, error) {
	start := time.Now()
	if path == "" {
		return nil, invalidPathError("write", path, "path must not be empty")
	}
	level := s.Permission(path)
	if !level.CanWrite() {
		err := deniedError("write", path, level)
		s.observe("write", path, level, false, start, err)
		return nil, err
	}
	if err := s.setValue(path, value); err != nil {
		s.observe("write", path, level, true, start, err)
		return nil, err
	}
	s.observe("write", path, level, true, start, nil)
	return value, nil
}

// WriteEntries applies Write once per top-level key of values, in sorted
// key order so the abort point is deterministic. Keys are paths, not
// literals: a key containing the separator addresses a nested location
// exactly as Write does. The batch is not atomic: the first denial stops
// the iteration and every earlier write stays committed.
func (s *Store) WriteEntries(values map[string]any) error {
	for _, key := range sortedKeys(values) {
		if _, err := s.Write(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) setValue(path string, value any) error {
	head, rest := splitPath(path)
	if entry, ok := s.lookup(head); ok && rest != "" {
		if child, isStore := entry.AsStore(); isStore {
			return child.setValue(rest, value)
		}
		if fn, isProducer := entry.AsProducer(); isProducer && fn != nil {
			if child, isStore := fn().(*Store); isStore && child != nil {
				return child.setValue(rest, value)
			}
		}
	}
	if doc, ok := structured(value); ok {
		child := s.newChild()
		for _, key := range sortedKeys(doc) {
			// The separator is reserved: a literal key carrying it would be
			// silently split as a path.
			if !validKey(key) {
				return invalidPathError("write", key, "literal key must not contain the path separator")
			}
			if err := child.setValue(key, doc[key]); err != nil {
				return err
			}
		}
		s.entries[head] = storeEntry(child)
		return nil
	}
	if other, ok := value.(*Store); ok {
		if other == s || other.contains(s) {
			return ErrCyclicStore
		}
	}
	s.entries[head] = classify(value)
	return nil
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
