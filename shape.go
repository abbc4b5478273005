package permstore

// Shape is an immutable, type-level declaration of a store layout: named
// sub-stores, named producers, and per-key level overrides that every
// instance built from the shape inherits. Instances overlay their own
// overrides on top; instance overrides win, shape overrides beat the
// instance default level.
//
// Shapes replace any notion of a global mutable permission registry: the
// table is built once at definition time and copied into each instance at
// construction.
type Shape struct {
	overrides map[string]Level
	subShapes map[string]*Shape
	producers map[string]Producer
	level     *Level
}

// ShapeOption configures a Shape during construction.
type ShapeOption func(*shapeConfig)

type shapeConfig struct {
	overrides map[string]Level
	subShapes map[string]*Shape
	producers map[string]Producer
	level     *Level
}

// ShapeWithOverride declares the level every instance applies to key unless
// the instance sets its own override for the same key.
func ShapeWithOverride(key string, level Level) ShapeOption {
	return func(cfg *shapeConfig) {
		if !validKey(key) {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = map[string]Level{}
		}
		cfg.overrides[key] = level
	}
}

// ShapeWithField declares a named sub-store. Each instance materializes its
// own child built from sub at construction.
func ShapeWithField(name string, sub Shape) ShapeOption {
	return func(cfg *shapeConfig) {
		if !validKey(name) {
			return
		}
		if cfg.subShapes == nil {
			cfg.subShapes = map[string]*Shape{}
		}
		clone := sub.clone()
		cfg.subShapes[name] = &clone
	}
}

// ShapeWithProducer declares a named producer field shared by every
// instance of the shape.
func ShapeWithProducer(name string, fn Producer) ShapeOption {
	return func(cfg *shapeConfig) {
		if !validKey(name) || fn == nil {
			return
		}
		if cfg.producers == nil {
			cfg.producers = map[string]Producer{}
		}
		cfg.producers[name] = fn
	}
}

// ShapeWithDefaultLevel sets the default level instances start from. Without
// it instances default to LevelReadWrite.
func ShapeWithDefaultLevel(level Level) ShapeOption {
	return func(cfg *shapeConfig) {
		cfg.level = &level
	}
}

// NewShape builds an immutable Shape from the supplied declarations. The
// configuration is copied so later mutation of caller-held maps cannot leak
// into instances.
func NewShape(opts ...ShapeOption) Shape {
	cfg := shapeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	shape := Shape{
		overrides: copyLevels(cfg.overrides),
		subShapes: cfg.subShapes,
		producers: cfg.producers,
	}
	if cfg.level != nil {
		level := *cfg.level
		shape.level = &level
	}
	return shape
}

// Override returns the declared level for key, if any.
func (s Shape) Override(key string) (Level, bool) {
	level, ok := s.overrides[key]
	return level, ok
}

func (s Shape) clone() Shape {
	out := Shape{overrides: copyLevels(s.overrides)}
	if len(s.subShapes) > 0 {
		out.subShapes = make(map[string]*Shape, len(s.subShapes))
		for name, sub := range s.subShapes {
			clone := sub.clone()
			out.subShapes[name] = &clone
		}
	}
	if len(s.producers) > 0 {
		out.producers = make(map[string]Producer, len(s.producers))
		for name, fn := range s.producers {
			out.producers[name] = fn
		}
	}
	if s.level != nil {
		level := *s.level
		out.level = &level
	}
	return out
}

func copyLevels(origin map[string]Level) map[string]Level {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]Level, len(origin))
	for key, level := range origin {
		out[key] = level
	}
	return out
}
