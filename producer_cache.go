package permstore

// ProgramCache stores compiled expression programs keyed by expression
// strings. Implementations decide eviction.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
