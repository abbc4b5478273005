package permstore

// Level encodes the access granted for a single key. Membership is what
// matters, not ordering: a level either grants read, grants write, both, or
// neither.
type Level int

const (
	// LevelNone denies both reads and writes. Unrecognised string inputs also
	// parse to LevelNone so misconfiguration fails closed.
	LevelNone Level = iota
	// LevelRead grants reads only.
	LevelRead
	// LevelWrite grants writes only.
	LevelWrite
	// LevelReadWrite grants both capabilities and is the top-level default.
	LevelReadWrite
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelRead:
		return "read"
	case LevelWrite:
		return "write"
	case LevelReadWrite:
		return "readwrite"
	default:
		return "none"
	}
}

// CanRead reports whether the level grants read access.
func (l Level) CanRead() bool {
	return l == LevelRead || l == LevelReadWrite
}

// CanWrite reports whether the level grants write access.
func (l Level) CanWrite() bool {
	return l == LevelWrite || l == LevelReadWrite
}

// ParseLevel converts a string representation into the corresponding Level.
// Unrecognised values return LevelNone.
func ParseLevel(value string) Level {
	switch value {
	case "read", "READ", "r":
		return LevelRead
	case "write", "WRITE", "w":
		return LevelWrite
	case "readwrite", "READWRITE", "rw":
		return LevelReadWrite
	default:
		return LevelNone
	}
}
