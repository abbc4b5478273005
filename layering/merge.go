package layering

// Document is a JSON-like structured payload: string keys bound to scalars,
// arrays, or nested documents. Documents are what stores materialize from
// and what scoped layers carry.
type Document = map[string]any

// MergeDocuments composes documents ordered from strongest to weakest,
// returning a new document that keeps explicit settings from stronger
// layers while filling any missing data from weaker ones. Nested documents
// merge recursively; arrays and scalars from the strongest layer replace
// weaker values wholesale.
func MergeDocuments(layers ...Document) Document {
	if len(layers) == 0 {
		return nil
	}

	merged := CloneDocument(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeDocument(layers[i], merged)
	}
	return merged
}

func mergeDocument(strong, weak Document) Document {
	if strong == nil {
		return CloneDocument(weak)
	}
	result := CloneDocument(weak)
	if result == nil {
		result = Document{}
	}
	for key, value := range strong {
		existing, ok := result[key]
		if !ok {
			result[key] = cloneValue(value)
			continue
		}
		strongDoc, strongIsDoc := value.(map[string]any)
		weakDoc, weakIsDoc := existing.(map[string]any)
		if strongIsDoc && weakIsDoc {
			result[key] = mergeDocument(strongDoc, weakDoc)
			continue
		}
		result[key] = cloneValue(value)
	}
	return result
}

// CloneDocument deep-copies a document so later mutation of either side
// cannot leak into the other.
func CloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneDocument(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
