package permstore

import (
	"github.com/goliatone/go-permstore/internal/hydrate"
)

// FromJSON decodes a JSON object payload and materializes a store from it,
// applying the same structured-write semantics as WriteEntries: nested
// objects become owned child stores, arrays stay opaque leaves. Numbers
// decode as json.Number so they survive without float coercion.
func FromJSON(payload []byte, opts ...Option) (*Store, error) {
	decoder := hydrate.NewDecoder(hydrate.WithUseNumber())
	doc, err := decoder.Decode(hydrate.Context{}, payload)
	if err != nil {
		return nil, err
	}
	s := New(opts...)
	if err := s.WriteEntries(doc); err != nil {
		return nil, err
	}
	return s, nil
}
