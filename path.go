package permstore

import "strings"

// Separator joins the keys of a path. It is reserved: literal keys must not
// contain it.
const Separator = ":"

// splitPath peels the first segment off a colon-delimited path.
func splitPath(path string) (head, rest string) {
	if idx := strings.Index(path, Separator); idx >= 0 {
		return path[:idx], path[idx+len(Separator):]
	}
	return path, ""
}

// segments returns every key of the path in order. An empty path has no
// segments.
func segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// JoinPath assembles a path from literal keys.
func JoinPath(keys ...string) string {
	return strings.Join(keys, Separator)
}

func validKey(key string) bool {
	return !strings.Contains(key, Separator)
}
