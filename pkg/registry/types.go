// Package registry composes scoped documents held in process memory into
// permissioned stores. It is composition glue, not persistence: nothing
// leaves the process.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	permstore "github.com/goliatone/go-permstore"
	layering "github.com/goliatone/go-permstore/layering"
)

var ErrETagMismatch = errors.New("registry: etag mismatch")

// Ref identifies one stored document for one domain.
type Ref struct {
	Domain string
	Scope  layering.Scope
}

// Meta is registry-owned metadata used for trace/audit and concurrency
// control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Registry loads/saves one document for a single scope reference.
type Registry interface {
	Load(ctx context.Context, ref Ref) (doc layering.Document, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, doc layering.Document, meta Meta) (Meta, error)
}

// Mutator edits a document in place before it is saved back.
type Mutator func(layering.Document) error

func (r Ref) Identifier() (string, error) {
	switch r.Scope.Name {
	case "system":
		return fmt.Sprintf("system/%s", r.Domain), nil
	case "tenant", "org", "team", "user":
		metadataKey := r.Scope.Name + "_id"
		id, ok := r.Scope.Metadata[metadataKey]
		if !ok {
			return "", fmt.Errorf("missing metadata key %q for scope %q", metadataKey, r.Scope.Name)
		}
		idString, ok := id.(string)
		if !ok || idString == "" {
			return "", fmt.Errorf("missing metadata key %q for scope %q", metadataKey, r.Scope.Name)
		}
		return fmt.Sprintf("%s/%s/%s", r.Scope.Name, idString, r.Domain), nil
	default:
		return "", fmt.Errorf("unsupported scope name %q", r.Scope.Name)
	}
}

// Resolver orchestrates scoped loads and merges them into a single
// permissioned store.
type Resolver struct {
	Registry Registry

	// StoreOptions apply to every store the resolver materializes, letting
	// callers wire shapes, overrides, loggers, and emitters.
	StoreOptions []permstore.Option
}

// Resolve loads every scope's document for domain, layers them strongest to
// weakest, and materializes the merged document as a fresh store.
func (r Resolver) Resolve(ctx context.Context, domain string, scopes ...layering.Scope) (*permstore.Store, error) {
	if r.Registry == nil {
		return nil, fmt.Errorf("registry: registry is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("registry: domain is required")
	}
	if len(scopes) == 0 {
		return nil, fmt.Errorf("registry: at least one scope is required")
	}

	layers := make([]layering.Layer, 0, len(scopes))
	for _, scope := range scopes {
		doc, meta, ok, err := r.Registry.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("registry: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, layering.NewLayer(scope, doc, layering.WithSnapshotID(meta.SnapshotID)))
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("registry: no layers found for domain %q", domain)
	}

	stack, err := layering.NewStack(layers...)
	if err != nil {
		return nil, fmt.Errorf("registry: stack: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return nil, err
	}
	return r.materialize(merged)
}

// ResolveWithDefaults behaves like Resolve but slots defaults in as the
// weakest layer, picking an unused priority below every supplied scope.
func (r Resolver) ResolveWithDefaults(ctx context.Context, domain string, defaults layering.Document, scopes ...layering.Scope) (*permstore.Store, error) {
	if r.Registry == nil {
		return nil, fmt.Errorf("registry: registry is required")
	}
	if domain == "" {
		return nil, fmt.Errorf("registry: domain is required")
	}

	prioritySet := make(map[int]struct{}, len(scopes)+1)
	minPriority := 0
	if len(scopes) > 0 {
		minPriority = scopes[0].Priority
	}
	for _, scope := range scopes {
		if scope.Name == "defaults" {
			return nil, fmt.Errorf("registry: scope name %q is reserved", "defaults")
		}
		prioritySet[scope.Priority] = struct{}{}
		if scope.Priority < minPriority {
			minPriority = scope.Priority
		}
	}

	defaultsPriority := 0
	if len(scopes) > 0 {
		defaultsPriority = minPriority - 1
		for {
			if _, ok := prioritySet[defaultsPriority]; !ok {
				break
			}
			defaultsPriority--
		}
	}

	layers := make([]layering.Layer, 0, len(scopes)+1)
	for _, scope := range scopes {
		doc, meta, ok, err := r.Registry.Load(ctx, Ref{Domain: domain, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("registry: load %q for scope %q: %w", domain, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, layering.NewLayer(scope, doc, layering.WithSnapshotID(meta.SnapshotID)))
	}

	defaultsScope := layering.NewScope("defaults", defaultsPriority, layering.WithScopeLabel("Defaults"))
	layers = append(layers, layering.NewLayer(defaultsScope, defaults))

	stack, err := layering.NewStack(layers...)
	if err != nil {
		return nil, fmt.Errorf("registry: stack: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return nil, err
	}
	return r.materialize(merged)
}

// Mutate loads one document, applies fn, then saves and materializes the
// result. The supplied meta's ETag, when set, must match the stored one.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (*permstore.Store, Meta, error) {
	if r.Registry == nil {
		return nil, Meta{}, fmt.Errorf("registry: registry is required")
	}
	if ref.Domain == "" {
		return nil, Meta{}, fmt.Errorf("registry: domain is required")
	}
	if ref.Scope.Name == "" {
		return nil, Meta{}, fmt.Errorf("registry: scope name is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("registry: mutator is required")
	}

	doc, loadedMeta, ok, err := r.Registry.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("registry: load %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}
	if !ok {
		doc = layering.Document{}
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(doc); err != nil {
		return nil, loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	savedMeta, err := r.Registry.Save(ctx, ref, doc, saveMeta)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("registry: save %q for scope %q: %w", ref.Domain, ref.Scope.Name, err)
	}

	store, err := r.materialize(doc)
	if err != nil {
		return nil, loadedMeta, err
	}
	return store, savedMeta, nil
}

func (r Resolver) materialize(doc layering.Document) (*permstore.Store, error) {
	store := permstore.New(r.StoreOptions...)
	if err := store.WriteEntries(doc); err != nil {
		return nil, err
	}
	return store, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
