package layering

import (
	"errors"
	"fmt"
	"sort"
)

// Scope models a named precedence bucket (system, tenant, user, etc.).
// Higher priority values represent stronger layers.
type Scope struct {
	Name     string
	Label    string
	Priority int
	Metadata map[string]any
}

// ScopeOption configures metadata on Scope creation.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	label    string
	metadata map[string]any
}

// WithScopeLabel sets a human-friendly label on the scope.
func WithScopeLabel(label string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.label = label
	}
}

// WithScopeMetadata attaches arbitrary metadata to the scope. The map is
// copied so the resulting Scope remains immutable even if the caller
// mutates their reference.
func WithScopeMetadata(metadata map[string]any) ScopeOption {
	return func(cfg *scopeConfig) {
		if len(metadata) == 0 {
			return
		}
		cfg.metadata = copyMetadata(metadata)
	}
}

// NewScope builds a Scope with the supplied configuration. Validation is
// deferred to Stack construction so callers can assemble scopes before
// deciding precedence.
func NewScope(name string, priority int, opts ...ScopeOption) Scope {
	cfg := scopeConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return Scope{
		Name:     name,
		Label:    cfg.label,
		Priority: priority,
		Metadata: copyMetadata(cfg.metadata),
	}
}

// Clone returns a copy of s, ensuring Metadata is detached from the
// original.
func (s Scope) Clone() Scope {
	return Scope{
		Name:     s.Name,
		Label:    s.Label,
		Priority: s.Priority,
		Metadata: copyMetadata(s.Metadata),
	}
}

// Layer pairs a scope definition with the document captured for that scope.
type Layer struct {
	Scope      Scope
	Document   Document
	SnapshotID string
}

// LayerOption configures optional metadata for a layer.
type LayerOption func(*Layer)

// WithSnapshotID sets the snapshot identifier used for auditing.
func WithSnapshotID(id string) LayerOption {
	return func(layer *Layer) {
		layer.SnapshotID = id
	}
}

// NewLayer constructs a Layer with immutable copies of both the scope
// metadata and document payload.
func NewLayer(scope Scope, doc Document, opts ...LayerOption) Layer {
	layer := Layer{
		Scope:    scope.Clone(),
		Document: CloneDocument(doc),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&layer)
	}
	return layer
}

var (
	// ErrScopeNameRequired indicates a missing scope name.
	ErrScopeNameRequired = errors.New("scope: name must be provided")
	// ErrDuplicateScopeName indicates Stack construction received multiple
	// layers with the same scope name.
	ErrDuplicateScopeName = errors.New("scope: names must be unique")
	// ErrPriorityOrder indicates Stack construction detected duplicate or
	// unsorted priorities.
	ErrPriorityOrder = errors.New("scope: priorities must be strictly ordered")
)

// Stack represents an immutable, scope-aware layering configuration ordered
// from strongest to weakest precedence.
type Stack struct {
	layers []Layer
}

// NewStack validates and sorts the supplied layers so that the strongest
// scope (highest priority) is first. Layers and their documents are deep
// copied to guarantee read-only safety after construction.
func NewStack(layers ...Layer) (*Stack, error) {
	if len(layers) == 0 {
		return &Stack{}, nil
	}

	seenNames := make(map[string]struct{}, len(layers))
	copied := make([]Layer, len(layers))
	for i, layer := range layers {
		layer := cloneLayer(layer)
		if layer.Scope.Name == "" {
			return nil, ErrScopeNameRequired
		}
		if _, ok := seenNames[layer.Scope.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScopeName, layer.Scope.Name)
		}
		seenNames[layer.Scope.Name] = struct{}{}
		copied[i] = layer
	}

	sort.Slice(copied, func(i, j int) bool {
		if copied[i].Scope.Priority == copied[j].Scope.Priority {
			return copied[i].Scope.Name < copied[j].Scope.Name
		}
		return copied[i].Scope.Priority > copied[j].Scope.Priority
	})

	for i := 1; i < len(copied); i++ {
		if copied[i-1].Scope.Priority <= copied[i].Scope.Priority {
			return nil, fmt.Errorf("%w: %d", ErrPriorityOrder, copied[i].Scope.Priority)
		}
	}

	return &Stack{layers: copied}, nil
}

// Layers returns a defensive copy of the underlying layers to preserve
// immutability guarantees.
func (s *Stack) Layers() []Layer {
	if s == nil || len(s.layers) == 0 {
		return nil
	}
	out := make([]Layer, len(s.layers))
	for i := range s.layers {
		out[i] = cloneLayer(s.layers[i])
	}
	return out
}

// Len returns the number of layers in the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.layers)
}

// Merge resolves the stack into the single effective document, strongest
// layer winning key by key.
func (s *Stack) Merge() (Document, error) {
	if s == nil || len(s.layers) == 0 {
		return nil, fmt.Errorf("scope: stack must include at least one layer")
	}
	docs := make([]Document, len(s.layers))
	for i := range s.layers {
		docs[i] = CloneDocument(s.layers[i].Document)
	}
	return MergeDocuments(docs...), nil
}

func cloneLayer(layer Layer) Layer {
	return Layer{
		Scope:      layer.Scope.Clone(),
		Document:   CloneDocument(layer.Document),
		SnapshotID: layer.SnapshotID,
	}
}

func copyMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
