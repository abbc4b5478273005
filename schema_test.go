package permstore

import "testing"

func TestDescribeFlattensTree(t *testing.T) {
	store := New(
		WithOverride("serial", LevelRead),
		WithProducerField("uptime", func() any { return 1 }),
	)
	if _, err := store.Write("name", "sensor"); err != nil {
		t.Fatalf("write: %v", err)
	}
	store.entries["serial"] = scalarEntry("SN-1")
	if _, err := store.Write("net", map[string]any{"port": 8080}); err != nil {
		t.Fatalf("write: %v", err)
	}

	descriptors := Describe(store)
	byPath := map[string]FieldDescriptor{}
	for _, descriptor := range descriptors {
		byPath[descriptor.Path] = descriptor
	}

	if got := byPath["name"]; got.Kind != "scalar" || got.Level != "readwrite" {
		t.Fatalf("unexpected descriptor for name: %#v", got)
	}
	if got := byPath["serial"]; got.Level != "read" {
		t.Fatalf("expected override level surfaced, got %#v", got)
	}
	if got := byPath["uptime"]; got.Kind != "producer" {
		t.Fatalf("expected producer reported without invocation, got %#v", got)
	}
	if got := byPath["net:port"]; got.Kind != "scalar" {
		t.Fatalf("expected nested store expanded, got %#v", got)
	}
	if _, found := byPath["net"]; found {
		t.Fatalf("non-empty nested store must be expanded, not listed: %#v", byPath)
	}

	// Sorted by path.
	for i := 1; i < len(descriptors); i++ {
		if descriptors[i-1].Path > descriptors[i].Path {
			t.Fatalf("descriptors out of order: %#v", descriptors)
		}
	}
}

func TestDescribeEmptyChildListedAsStore(t *testing.T) {
	store := New(WithSubStore("empty", New()))
	descriptors := Describe(store)
	if len(descriptors) != 1 {
		t.Fatalf("expected a single descriptor, got %#v", descriptors)
	}
	if descriptors[0].Path != "empty" || descriptors[0].Kind != "store" {
		t.Fatalf("unexpected descriptor: %#v", descriptors[0])
	}
}

func TestDescribeNilStore(t *testing.T) {
	if got := Describe(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}
