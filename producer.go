package permstore

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("permstore: evaluator not configured")

// RuleOption configures a rule-backed producer.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	evaluator Evaluator
	logger    AccessLogger
	cache     ProgramCache
	functions *FunctionRegistry
	args      map[string]any
	metadata  map[string]any
}

// RuleWithEvaluator selects the engine evaluating the rule. Without it the
// expr engine is used.
func RuleWithEvaluator(e Evaluator) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.evaluator = e
	}
}

// RuleWithLogger overrides the logger receiving produce events.
func RuleWithLogger(logger AccessLogger) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.logger = logger
	}
}

// RuleWithProgramCache wires a ProgramCache into the default engine.
func RuleWithProgramCache(cache ProgramCache) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.cache = cache
	}
}

// RuleWithFunctionRegistry wires a FunctionRegistry into the default engine.
func RuleWithFunctionRegistry(registry *FunctionRegistry) RuleOption {
	return func(cfg *ruleConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// RuleWithArgs supplies static arguments visible to the expression.
func RuleWithArgs(args map[string]any) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.args = args
	}
}

// RuleWithMetadata supplies static metadata visible to the expression.
func RuleWithMetadata(metadata map[string]any) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.metadata = metadata
	}
}

// RuleProducer compiles expression once and returns a Producer evaluating
// it against owner's scalar snapshot on each invocation. The producer stays
// zero-argument and side-effect-safe: every access re-evaluates the rule
// against the snapshot taken at that moment, and evaluation failures yield
// nil after being logged.
func RuleProducer(owner *Store, key, expression string, opts ...RuleOption) (Producer, error) {
	if expression == "" {
		return nil, fmt.Errorf("permstore: expression must not be empty")
	}
	cfg := ruleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	evaluator := cfg.evaluator
	if evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.cache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		evaluator = NewExprEvaluator(exprOpts...)
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)

	return func() any {
		ctx := ProducerContext{
			Key:      key,
			Args:     cfg.args,
			Metadata: cfg.metadata,
		}
		if owner != nil {
			ctx.Snapshot = owner.Entries()
		}
		ctx = ctx.withDefaultNow().withDefaultMaps()

		start := time.Now()
		value, evalErr := rule.Evaluate(ctx)
		evalErr = wrapEvaluationError(engine, expression, key, evalErr)
		ruleLogger(owner, cfg).LogAccess(AccessEvent{
			Op:       "produce",
			Path:     key,
			Allowed:  true,
			Duration: time.Since(start),
			Err:      evalErr,
		})
		if evalErr != nil {
			return nil
		}
		return value
	}, nil
}

func ruleLogger(owner *Store, cfg ruleConfig) AccessLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	if owner != nil {
		return owner.accessLogger()
	}
	return noopAccessLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*permstore.exprEvaluator":
		return "expr"
	case "*permstore.celEvaluator":
		return "cel"
	case "*permstore.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
