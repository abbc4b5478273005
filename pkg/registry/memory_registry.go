package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	layering "github.com/goliatone/go-permstore/layering"
)

// MemoryRegistry is the in-process Registry implementation. It uses
// Ref.Identifier() as its deterministic key and stamps snapshot identity
// on save so resolved layers stay auditable.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	doc  layering.Document
	meta Meta
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{records: map[string]memoryRecord{}}
}

func (r *MemoryRegistry) Load(_ context.Context, ref Ref) (layering.Document, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	r.mu.RLock()
	record, ok := r.records[key]
	r.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return layering.CloneDocument(record.doc), cloneMeta(record.meta), true, nil
}

func (r *MemoryRegistry) Save(_ context.Context, ref Ref, doc layering.Document, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.NewString()
	}
	meta.ETag = uuid.NewString()
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now()
	}

	r.mu.Lock()
	r.records[key] = memoryRecord{doc: layering.CloneDocument(doc), meta: cloneMeta(meta)}
	r.mu.Unlock()
	return cloneMeta(meta), nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
