package permstore

import (
	"errors"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	// Every scalar round-trips, including zero-ish values that a naive
	// truthiness fallback would swallow.
	scalars := []any{"value", 42, 3.14, true, false, 0, ""}
	for _, scalar := range scalars {
		store := New()
		returned, err := store.Write("k", scalar)
		if err != nil {
			t.Fatalf("write %#v: %v", scalar, err)
		}
		if returned != scalar {
			t.Fatalf("expected Write to return the value passed in, got %#v", returned)
		}
		got, err := store.Read("k")
		if err != nil {
			t.Fatalf("read %#v: %v", scalar, err)
		}
		if got != scalar {
			t.Fatalf("round trip mismatch: wrote %#v, read %#v", scalar, got)
		}
	}
}

func TestNestedMaterialization(t *testing.T) {
	store := New()
	if _, err := store.Write("a", map[string]any{"b": 1, "c": 2}); err != nil {
		t.Fatalf("write: %v", err)
	}

	value, err := store.Read("a")
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	child, ok := value.(*Store)
	if !ok {
		t.Fatalf("expected structured write to materialize a nested store, got %T", value)
	}

	if got, err := child.Read("b"); err != nil || got != 1 {
		t.Fatalf("child read b = %#v, %v; want 1", got, err)
	}
	if got, err := child.Read("c"); err != nil || got != 2 {
		t.Fatalf("child read c = %#v, %v; want 2", got, err)
	}

	if got, err := store.Read("a:b"); err != nil || got != 1 {
		t.Fatalf("path read a:b = %#v, %v; want 1", got, err)
	}
}

func TestDeepStructuredWrite(t *testing.T) {
	store := New()
	if _, err := store.Write("cfg", map[string]any{
		"server": map[string]any{
			"port": 8080,
			"tls":  map[string]any{"enabled": true},
		},
		"name": "api",
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got, err := store.Read("cfg:server:tls:enabled"); err != nil || got != true {
		t.Fatalf("deep read = %#v, %v; want true", got, err)
	}
	if got, err := store.Read("cfg:name"); err != nil || got != "api" {
		t.Fatalf("read cfg:name = %#v, %v; want api", got, err)
	}
}

func TestMissingKeyFallsBackToNearestContainer(t *testing.T) {
	store := New()
	value, err := store.Read("nope")
	if err != nil {
		t.Fatalf("read of missing key must not fail: %v", err)
	}
	if value != any(store) {
		t.Fatalf("expected read of missing key to return the store itself, got %#v", value)
	}

	// A partially resolvable path lands on the deepest container reached.
	if _, err := store.Write("a", map[string]any{"b": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	value, err = store.Read("a:missing")
	if err != nil {
		t.Fatalf("read a:missing: %v", err)
	}
	child, ok := value.(*Store)
	if !ok {
		t.Fatalf("expected nearest container, got %T", value)
	}
	if got, err := child.Read("b"); err != nil || got != 1 {
		t.Fatalf("fallback container read b = %#v, %v; want 1", got, err)
	}
}

func TestEmptyPathReadsStoreItself(t *testing.T) {
	store := New()
	value, err := store.Read("")
	if err != nil {
		t.Fatalf("read empty path: %v", err)
	}
	if value != any(store) {
		t.Fatalf("expected store itself, got %#v", value)
	}
}

func TestArrayStoredAsOpaqueLeaf(t *testing.T) {
	store := New()
	items := []any{"a", map[string]any{"x": 1}, 3}
	if _, err := store.Write("list", items); err != nil {
		t.Fatalf("write: %v", err)
	}
	value, err := store.Read("list")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got, ok := value.([]any)
	if !ok {
		t.Fatalf("expected array leaf, got %T", value)
	}
	if len(got) != 3 {
		t.Fatalf("expected array to survive intact, got %#v", got)
	}
	if _, ok := got[1].(map[string]any); !ok {
		t.Fatalf("expected array contents untouched, got %#v", got[1])
	}
}

func TestStructuredWriteReplacesExistingEntry(t *testing.T) {
	store := New()
	if _, err := store.Write("k", "scalar"); err != nil {
		t.Fatalf("write scalar: %v", err)
	}
	if _, err := store.Write("k", map[string]any{"n": 1}); err != nil {
		t.Fatalf("write structured: %v", err)
	}
	value, err := store.Read("k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, ok := value.(*Store); !ok {
		t.Fatalf("expected structured write to replace the scalar, got %T", value)
	}
}

func TestWriteDelegatesIntoNestedStore(t *testing.T) {
	store := New()
	if _, err := store.Write("a", map[string]any{"b": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Write("a:b", 2); err != nil {
		t.Fatalf("delegated write: %v", err)
	}
	if got, err := store.Read("a:b"); err != nil || got != 2 {
		t.Fatalf("read a:b = %#v, %v; want 2", got, err)
	}
	// The original container is still in place.
	if _, err := store.Write("a:c", 3); err != nil {
		t.Fatalf("write a:c: %v", err)
	}
	if got, err := store.Read("a:c"); err != nil || got != 3 {
		t.Fatalf("read a:c = %#v, %v; want 3", got, err)
	}
}

func TestStructuredWriteRejectsSeparatorInLiteralKeys(t *testing.T) {
	store := New()
	if _, err := store.Write("cfg", map[string]any{"x:y": 1}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for literal key with separator, got %v", err)
	}
	// The rejected document was never bound.
	value, err := store.Read("cfg")
	if err != nil {
		t.Fatalf("read cfg: %v", err)
	}
	if value != any(store) {
		t.Fatalf("expected cfg unwritten, got %#v", value)
	}

	// Deeper levels are held to the same rule.
	if _, err := store.Write("cfg", map[string]any{"ok": map[string]any{"a:b": 1}}); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected nested literal key rejected, got %v", err)
	}
}

func TestWriteEntriesKeysArePaths(t *testing.T) {
	store := New()
	if _, err := store.Write("m", map[string]any{"x": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.WriteEntries(map[string]any{"m:x": 2}); err != nil {
		t.Fatalf("write entries: %v", err)
	}
	if got, err := store.Read("m:x"); err != nil || got != 2 {
		t.Fatalf("read m:x = %#v, %v; want 2", got, err)
	}
}

func TestWriteEmptyPathRejected(t *testing.T) {
	store := New()
	if _, err := store.Write("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for empty write path, got %v", err)
	}
}

func TestWriteRejectsCycle(t *testing.T) {
	store := New()
	if _, err := store.Write("child", map[string]any{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	value, err := store.Read("child")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	child := value.(*Store)

	if _, err := child.Write("loop", store); !errors.Is(err, ErrCyclicStore) {
		t.Fatalf("expected ErrCyclicStore writing owner into child, got %v", err)
	}
	if _, err := store.Write("self", store); !errors.Is(err, ErrCyclicStore) {
		t.Fatalf("expected ErrCyclicStore writing store into itself, got %v", err)
	}
}

func TestProducerInvokedAfreshOnEachAccess(t *testing.T) {
	store := New()
	current := "first"
	if _, err := store.Write("status", Producer(func() any {
		return current
	})); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got, err := store.Read("status"); err != nil || got != "first" {
		t.Fatalf("first read = %#v, %v; want first", got, err)
	}
	current = "second"
	if got, err := store.Read("status"); err != nil || got != "second" {
		t.Fatalf("second read = %#v, %v; want second (no memoization)", got, err)
	}
}

func TestProducerYieldingStoreIsTransparent(t *testing.T) {
	inner := New()
	if _, err := inner.Write("x", 99); err != nil {
		t.Fatalf("write inner: %v", err)
	}
	store := New(WithProducerField("lazy", func() any { return inner }))

	if got, err := store.Read("lazy:x"); err != nil || got != 99 {
		t.Fatalf("read lazy:x = %#v, %v; want 99", got, err)
	}
	if _, err := store.Write("lazy:y", 7); err != nil {
		t.Fatalf("write lazy:y: %v", err)
	}
	if got, err := inner.Read("y"); err != nil || got != 7 {
		t.Fatalf("expected delegated write to land in produced store, got %#v, %v", got, err)
	}
}

func TestEntriesShadowDeclaredFields(t *testing.T) {
	declared := New()
	store := New(WithSubStore("cfg", declared), WithProducerField("version", func() any { return "v1" }))

	if got, err := store.Read("version"); err != nil || got != "v1" {
		t.Fatalf("read declared producer = %#v, %v; want v1", got, err)
	}

	// A local write shadows the declared field.
	if _, err := store.Write("version", "v2"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := store.Read("version"); err != nil || got != "v2" {
		t.Fatalf("read shadowed field = %#v, %v; want v2", got, err)
	}
}
