package layering

import "testing"

func TestMergeDocumentsStrongestWins(t *testing.T) {
	strong := Document{"theme": "dark", "limits": map[string]any{"cpu": 2}}
	weak := Document{"theme": "light", "region": "us-east-1", "limits": map[string]any{"cpu": 1, "mem": 512}}

	merged := MergeDocuments(strong, weak)
	if merged["theme"] != "dark" {
		t.Fatalf("expected strong scalar to win, got %#v", merged["theme"])
	}
	if merged["region"] != "us-east-1" {
		t.Fatalf("expected weak-only key to survive, got %#v", merged["region"])
	}
	limits, ok := merged["limits"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested merge, got %#v", merged["limits"])
	}
	if limits["cpu"] != 2 || limits["mem"] != 512 {
		t.Fatalf("unexpected nested merge result: %#v", limits)
	}
}

func TestMergeDocumentsArraysReplaceWholesale(t *testing.T) {
	strong := Document{"tags": []any{"a"}}
	weak := Document{"tags": []any{"b", "c"}}
	merged := MergeDocuments(strong, weak)
	tags, ok := merged["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "a" {
		t.Fatalf("expected strong array to replace weak, got %#v", merged["tags"])
	}
}

func TestMergeDocumentsEmptyInput(t *testing.T) {
	if got := MergeDocuments(); got != nil {
		t.Fatalf("expected nil for no layers, got %#v", got)
	}
	merged := MergeDocuments(nil, Document{"k": 1})
	if merged["k"] != 1 {
		t.Fatalf("expected nil strong layer ignored, got %#v", merged)
	}
}

func TestCloneDocumentDetachesNestedState(t *testing.T) {
	original := Document{"nested": map[string]any{"k": 1}, "list": []any{1, 2}}
	clone := CloneDocument(original)

	clone["nested"].(map[string]any)["k"] = 99
	clone["list"].([]any)[0] = 99

	if original["nested"].(map[string]any)["k"] != 1 {
		t.Fatalf("nested map leaked: %#v", original)
	}
	if original["list"].([]any)[0] != 1 {
		t.Fatalf("array leaked: %#v", original)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	strong := Document{"limits": map[string]any{"cpu": 2}}
	weak := Document{"limits": map[string]any{"mem": 512}}
	merged := MergeDocuments(strong, weak)
	merged["limits"].(map[string]any)["cpu"] = 99

	if strong["limits"].(map[string]any)["cpu"] != 2 {
		t.Fatalf("strong input mutated: %#v", strong)
	}
	if _, found := weak["limits"].(map[string]any)["cpu"]; found {
		t.Fatalf("weak input mutated: %#v", weak)
	}
}
