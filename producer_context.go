package permstore

import "time"

// ProducerContext carries inputs needed when evaluating a rule-backed
// producer. Snapshot is the flat scalar view of the owning store at
// invocation time.
type ProducerContext struct {
	Snapshot map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Key      string
}

func (ctx ProducerContext) withDefaultNow() ProducerContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx ProducerContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx ProducerContext) withDefaultMaps() ProducerContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx ProducerContext) keyLabel() string {
	if ctx.Key != "" {
		return ctx.Key
	}
	return "unknown"
}

// Evaluator executes rule expressions against a producer context.
type Evaluator interface {
	Evaluate(ctx ProducerContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx ProducerContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}
