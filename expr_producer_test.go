package permstore

import (
	"errors"
	"strings"
	"testing"
)

type mapCache struct {
	entries map[string]any
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	value, ok := c.entries[key]
	return value, ok
}

func (c *mapCache) Set(key string, value any) {
	c.sets++
	c.entries[key] = value
}

func TestExprEvaluateAgainstSnapshot(t *testing.T) {
	evaluator := NewExprEvaluator()
	result, err := evaluator.Evaluate(ProducerContext{
		Snapshot: map[string]any{"base": 10, "rate": 3},
	}, "base * rate")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result != 30 {
		t.Fatalf("result = %#v, want 30", result)
	}
}

func TestExprEvaluateRejectsEmptyExpression(t *testing.T) {
	if _, err := NewExprEvaluator().Evaluate(ProducerContext{}, ""); err == nil {
		t.Fatal("expected error for empty expression")
	}
}

func TestExprCompiledRuleReusesProgram(t *testing.T) {
	cache := newMapCache()
	evaluator := NewExprEvaluator(ExprWithProgramCache(cache))
	rule, err := evaluator.Compile("base + 1")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for want, snapshot := range map[int]map[string]any{
		11: {"base": 10},
		21: {"base": 20},
	} {
		result, err := rule.Evaluate(ProducerContext{Snapshot: snapshot})
		if err != nil {
			t.Fatalf("evaluate: %v", err)
		}
		if result != want {
			t.Fatalf("result = %#v, want %d", result, want)
		}
	}
	if cache.sets != 1 {
		t.Fatalf("expected a single compilation, got %d cache sets", cache.sets)
	}
}

func TestExprFunctionRegistryCalls(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		return args[0].(int) * 2, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	evaluator := NewExprEvaluator(ExprWithFunctionRegistry(registry))

	result, err := evaluator.Evaluate(ProducerContext{}, "double(21)")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %#v, want 42", result)
	}

	result, err = evaluator.Evaluate(ProducerContext{}, `call("double", 21)`)
	if err != nil {
		t.Fatalf("evaluate via call: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %#v, want 42", result)
	}
}

func TestExprErrorCarriesEngineAndExpression(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("boom", func(args ...any) (any, error) {
		return nil, errors.New("exploded")
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	evaluator := NewExprEvaluator(ExprWithFunctionRegistry(registry))
	_, err := evaluator.Evaluate(ProducerContext{Key: "total"}, "boom()")
	if err == nil {
		t.Fatal("expected evaluation error")
	}
	if !strings.Contains(err.Error(), "permstore:") {
		t.Fatalf("expected wrapped error, got %q", err.Error())
	}
}
