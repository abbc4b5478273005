package permstore

import "sort"

// FieldDescriptor describes one addressable key: its full path, the kind of
// value bound there, and the level its owning store resolves for it.
type FieldDescriptor struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Level string `json:"level"`
}

// Describe flattens a store tree into sorted field descriptors. Nested
// stores are expanded recursively; producers are reported as declared, not
// invoked.
func Describe(s *Store) []FieldDescriptor {
	if s == nil {
		return []FieldDescriptor{}
	}
	descriptors := deriveFieldDescriptors(s, "")
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Path < descriptors[j].Path
	})
	return descriptors
}

func deriveFieldDescriptors(s *Store, prefix string) []FieldDescriptor {
	var fields []FieldDescriptor
	for key, entry := range s.mergedView() {
		path := childPath(prefix, key)
		if child, ok := entry.AsStore(); ok {
			nested := deriveFieldDescriptors(child, path)
			if nested == nil {
				fields = append(fields, FieldDescriptor{
					Path:  path,
					Kind:  KindStore.String(),
					Level: s.Permission(key).String(),
				})
				continue
			}
			fields = append(fields, nested...)
			continue
		}
		fields = append(fields, FieldDescriptor{
			Path:  path,
			Kind:  entry.Kind().String(),
			Level: s.Permission(key).String(),
		})
	}
	return fields
}
