package permstore

// Kind discriminates the value bound to one key within one store.
type Kind int

const (
	// KindScalar covers strings, numbers, booleans, and nil.
	KindScalar Kind = iota
	// KindArray marks a sequence stored as an opaque leaf. Arrays are
	// readable but never expanded into nested stores and never surface in
	// Entries snapshots.
	KindArray
	// KindStore marks an owned child store.
	KindStore
	// KindProducer marks a lazily computed value.
	KindProducer
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindStore:
		return "store"
	case KindProducer:
		return "producer"
	default:
		return "scalar"
	}
}

// Producer lazily computes a value on each access. Producers are invoked
// afresh every time, with no memoization, and must therefore be
// side-effect-safe for repeated calls. A producer may return a scalar, a
// *Store, or nil.
type Producer func() any

// Entry is the tagged value bound to one key.
type Entry struct {
	kind  Kind
	value any
}

// Kind returns the entry discriminator.
func (e Entry) Kind() Kind { return e.kind }

// Value returns the raw value carried by the entry. For producers this is
// the Producer itself, not its result.
func (e Entry) Value() any { return e.value }

// AsStore returns the nested store when the entry holds one.
func (e Entry) AsStore() (*Store, bool) {
	if e.kind != KindStore {
		return nil, false
	}
	child, ok := e.value.(*Store)
	return child, ok
}

// AsProducer returns the producer when the entry holds one.
func (e Entry) AsProducer() (Producer, bool) {
	if e.kind != KindProducer {
		return nil, false
	}
	fn, ok := e.value.(Producer)
	return fn, ok
}

// resolve collapses the entry to the value navigation operates on: nested
// stores surface themselves, producers are invoked afresh, everything else
// is returned verbatim.
func (e Entry) resolve() any {
	switch e.kind {
	case KindProducer:
		if fn, ok := e.AsProducer(); ok && fn != nil {
			return fn()
		}
		return nil
	default:
		return e.value
	}
}

func scalarEntry(value any) Entry   { return Entry{kind: KindScalar, value: value} }
func arrayEntry(value any) Entry    { return Entry{kind: KindArray, value: value} }
func storeEntry(child *Store) Entry { return Entry{kind: KindStore, value: child} }

func producerEntry(fn Producer) Entry { return Entry{kind: KindProducer, value: fn} }

// classify buckets an arbitrary value into an Entry. Structured values are
// handled before classification by the write path; a raw map reaching this
// point is a programming error kept as an opaque scalar.
func classify(value any) Entry {
	switch typed := value.(type) {
	case *Store:
		return storeEntry(typed)
	case Producer:
		return producerEntry(typed)
	case func() any:
		return producerEntry(Producer(typed))
	case []any:
		return arrayEntry(typed)
	default:
		return scalarEntry(value)
	}
}

// structured reports whether value is an object-shaped input that must be
// materialized as a nested store rather than stored verbatim.
func structured(value any) (map[string]any, bool) {
	doc, ok := value.(map[string]any)
	return doc, ok
}
