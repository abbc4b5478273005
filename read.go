package permstore

import "time"

// Read resolves path and returns the value found there. It fails with an
// *AccessError wrapping ErrAccessDenied when the resolved level lacks read
// capability. Missing segments never fail: resolution degrades to the
// nearest resolvable container, so reading an absent key on an otherwise
// readable store returns the store itself. An empty path returns the store.
func (s *Store) Read(path string) (any, error) {
	return s.readPath(path, nil)
}

// ReadTraced behaves like Read and additionally reports the provenance of
// every resolution step.
func (s *Store) ReadTraced(path string) (any, Trace, error) {
	trace := &Trace{Path: path}
	value, err := s.readPath(path, trace)
	return value, *trace, err
}

func (s *Store) readPath(path string, trace *Trace) (any, error) {
	start := time.Now()
	level := s.Permission(path)
	if !level.CanRead() {
		err := deniedError("read", path, level)
		s.observe("read", path, level, false, start, err)
		return nil, err
	}
	value := s.resolveValue(path, "", trace)
	s.observe("read", path, level, true, start, nil)
	return value, nil
}

// resolveValue walks path against the merged view. The first segment gets
// the structural treatment: nested stores recurse with the remainder, and a
// producer is invoked with its result used directly (a produced store is
// transparent, a produced value answers a terminal segment). Everything
// else goes through the generic walk, which keeps the previous container
// whenever a segment is missing or a producer yields nothing.
func (s *Store) resolveValue(path, at string, trace *Trace) any {
	if path == "" {
		trace.record(Provenance{Container: at, Source: sourceRoot, Found: true})
		return s
	}
	head, rest := splitPath(path)
	if entry, source, ok := s.lookupSource(head); ok {
		if child, isStore := entry.AsStore(); isStore {
			trace.record(Provenance{Key: head, Container: at, Source: source, Kind: KindStore.String(), Found: true})
			return child.resolveValue(rest, childPath(at, head), trace)
		}
		if fn, isProducer := entry.AsProducer(); isProducer && fn != nil {
			produced := fn()
			if child, isStore := produced.(*Store); isStore && child != nil {
				trace.record(Provenance{Key: head, Container: at, Source: sourceProducer, Kind: KindStore.String(), Found: true})
				return child.resolveValue(rest, childPath(at, head), trace)
			}
			if produced != nil && rest == "" {
				trace.record(Provenance{Key: head, Container: at, Source: sourceProducer, Kind: KindScalar.String(), Found: true})
				return produced
			}
		}
	}

	var current any = s
	walkAt := at
	for _, key := range segments(path) {
		container, isStore := current.(*Store)
		if !isStore {
			trace.record(Provenance{Key: key, Container: walkAt, Source: sourceFallback})
			continue
		}
		entry, source, found := container.lookupSource(key)
		if !found {
			trace.record(Provenance{Key: key, Container: walkAt, Source: sourceFallback})
			continue
		}
		value := entry.resolve()
		if value == nil {
			trace.record(Provenance{Key: key, Container: walkAt, Source: sourceFallback})
			continue
		}
		if entry.Kind() == KindProducer {
			source = sourceProducer
		}
		trace.record(Provenance{Key: key, Container: walkAt, Source: source, Kind: entry.Kind().String(), Found: true})
		current = value
		walkAt = childPath(walkAt, key)
	}
	return current
}

func childPath(at, key string) string {
	if at == "" {
		return key
	}
	return at + Separator + key
}
