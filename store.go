package permstore

import (
	"github.com/goliatone/go-permstore/pkg/activity"
)

// Store is an in-memory hierarchical key-value container addressed by
// colon-delimited paths. Every key carries a Level gating reads and writes;
// values are scalars, opaque arrays, producers, or nested stores of the same
// kind. Stores form a single-owner tree: children are created by structured
// writes (or shape declarations) and destroyed only by being overwritten or
// by destruction of their owner.
//
// A Store is not safe for concurrent mutation; callers sharing one across
// goroutines must treat each top-level operation as a critical section.
type Store struct {
	defaultLevel Level

	// entries holds locally written values; fields holds the declarations
	// instantiated from the shape. Entries shadow fields on key collision.
	entries map[string]Entry
	fields  map[string]Entry

	overrides      map[string]Level
	shapeOverrides map[string]Level

	cfg storeConfig
}

// Option configures a Store at construction.
type Option func(*Store)

type storeConfig struct {
	logger  AccessLogger
	emitter *activity.Emitter
	storeID string
}

// New constructs a store. Without options it is empty with a ReadWrite
// default level.
func New(opts ...Option) *Store {
	s := &Store{
		defaultLevel:   LevelReadWrite,
		entries:        map[string]Entry{},
		fields:         map[string]Entry{},
		overrides:      map[string]Level{},
		shapeOverrides: map[string]Level{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WithDefaultLevel sets the level applied to any key without an explicit
// override.
func WithDefaultLevel(level Level) Option {
	return func(s *Store) {
		s.defaultLevel = level
	}
}

// WithOverride sets an instance-level override for key. Instance overrides
// take precedence over shape overrides, which take precedence over the
// default level.
func WithOverride(key string, level Level) Option {
	return func(s *Store) {
		if !validKey(key) {
			return
		}
		s.overrides[key] = level
	}
}

// WithShape instantiates the shape's declarations on the store: sub-shapes
// become owned child stores, producers become declared fields, and the
// shape's override table is copied in underneath instance overrides.
func WithShape(shape Shape) Option {
	return func(s *Store) {
		if shape.level != nil {
			s.defaultLevel = *shape.level
		}
		for key, level := range shape.overrides {
			s.shapeOverrides[key] = level
		}
		for name, sub := range shape.subShapes {
			child := New(WithShape(*sub))
			child.cfg = s.cfg
			s.fields[name] = storeEntry(child)
		}
		for name, fn := range shape.producers {
			s.fields[name] = producerEntry(fn)
		}
	}
}

// WithSubStore declares child as a named field of the store. The child must
// not already contain the store being built; ownership is exclusive.
func WithSubStore(name string, child *Store) Option {
	return func(s *Store) {
		if !validKey(name) || child == nil || child == s || child.contains(s) {
			return
		}
		s.fields[name] = storeEntry(child)
	}
}

// WithProducerField declares fn as a named field of the store.
func WithProducerField(name string, fn Producer) Option {
	return func(s *Store) {
		if !validKey(name) || fn == nil {
			return
		}
		s.fields[name] = producerEntry(fn)
	}
}

// WithAccessLogger attaches a logger receiving one event per read, write,
// produce, and denial.
func WithAccessLogger(logger AccessLogger) Option {
	return func(s *Store) {
		if logger == nil {
			s.cfg.logger = noopAccessLogger{}
			return
		}
		s.cfg.logger = logger
	}
}

// WithActivityEmitter attaches an emitter that fans out access events to
// activity hooks. Children created by structured writes inherit it.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(s *Store) {
		s.cfg.emitter = emitter
	}
}

// WithStoreID labels activity events emitted by this store and its
// descendants.
func WithStoreID(id string) Option {
	return func(s *Store) {
		s.cfg.storeID = id
	}
}

// DefaultLevel returns the level applied to keys without an override.
func (s *Store) DefaultLevel() Level {
	return s.defaultLevel
}

// SetOverride installs an instance-level override for key after
// construction. Keys containing the separator are rejected.
func (s *Store) SetOverride(key string, level Level) error {
	if !validKey(key) {
		return invalidPathError("override", key, "key must not contain the path separator")
	}
	s.overrides[key] = level
	return nil
}

// newChild builds the store materialized by a structured write. Children
// start from defaults but inherit logging and activity wiring so access
// deep in the tree still surfaces.
func (s *Store) newChild() *Store {
	child := New()
	child.cfg = s.cfg
	return child
}

// lookup resolves key against the merged view: locally written entries
// first, declared fields underneath.
func (s *Store) lookup(key string) (Entry, bool) {
	entry, _, ok := s.lookupSource(key)
	return entry, ok
}

func (s *Store) lookupSource(key string) (Entry, string, bool) {
	if entry, ok := s.entries[key]; ok {
		return entry, sourceEntry, true
	}
	if entry, ok := s.fields[key]; ok {
		return entry, sourceField, true
	}
	return Entry{}, "", false
}

// mergedView snapshots the addressable key space with entries shadowing
// declared fields.
func (s *Store) mergedView() map[string]Entry {
	out := make(map[string]Entry, len(s.fields)+len(s.entries))
	for key, entry := range s.fields {
		out[key] = entry
	}
	for key, entry := range s.entries {
		out[key] = entry
	}
	return out
}

// contains reports whether other appears anywhere in the store's subtree.
func (s *Store) contains(other *Store) bool {
	if s == other {
		return true
	}
	for _, entry := range s.mergedView() {
		if child, ok := entry.AsStore(); ok && child.contains(other) {
			return true
		}
	}
	return false
}
