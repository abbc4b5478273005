package permstore

import (
	"context"
	"time"

	"github.com/goliatone/go-permstore/pkg/activity"
)

// AccessEvent describes one access attempt for logging.
type AccessEvent struct {
	Op       string
	Path     string
	Level    Level
	Allowed  bool
	Duration time.Duration
	Err      error
}

// AccessLogger records access events.
type AccessLogger interface {
	LogAccess(AccessEvent)
}

// AccessLoggerFunc adapts a function to AccessLogger.
type AccessLoggerFunc func(AccessEvent)

// LogAccess implements AccessLogger.
func (f AccessLoggerFunc) LogAccess(event AccessEvent) {
	if f != nil {
		f(event)
	}
}

type noopAccessLogger struct{}

func (noopAccessLogger) LogAccess(AccessEvent) {}

func (s *Store) accessLogger() AccessLogger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopAccessLogger{}
}

// observe records one access on the logger and, when an emitter is wired,
// fans a normalized activity event out to hooks. Denials emit under the
// "denied" verb regardless of the attempted operation.
func (s *Store) observe(op, path string, level Level, allowed bool, start time.Time, err error) {
	s.accessLogger().LogAccess(AccessEvent{
		Op:       op,
		Path:     path,
		Level:    level,
		Allowed:  allowed,
		Duration: time.Since(start),
		Err:      err,
	})
	emitter := s.cfg.emitter
	if !emitter.Enabled() {
		return
	}
	verb := op
	if !allowed {
		verb = activity.VerbDenied
	}
	_ = emitter.Emit(context.Background(), activity.Event{
		Verb:    verb,
		StoreID: s.cfg.storeID,
		Path:    path,
		Level:   level.String(),
	})
}
