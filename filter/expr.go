package filter

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the number of compiled expressions a Compiler keeps
const DefaultCacheSize = 64

// Recorder is anything that can be flattened into a filter record
type Recorder interface {
	Record() map[string]any
}

// Filter is a compiled boolean expression
type Filter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Compiler compiles expressions and caches the results
type Compiler struct {
	helpers map[string]any
	cache   *programCache
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCacheSize sets the LRU size; zero or less disables caching
func WithCacheSize(size int) CompilerOption {
	return func(c *Compiler) {
		if size <= 0 {
			c.cache = nil
			return
		}
		c.cache = newProgramCache(size)
	}
}

// WithFunctions adds helper functions available inside expressions
func WithFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// NewCompiler creates a compiler with the default helpers and cache
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helpers: helperFunctions(),
		cache:   newProgramCache(DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var defaultCompiler = NewCompiler()

// Compile compiles an expression with the package-level compiler
func Compile(expression string) (*Filter, error) {
	return defaultCompiler.Compile(expression)
}

// Compile compiles an expression into a Filter
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.get(expression); ok {
			return cached, nil
		}
	}

	// Record fields are unknown at compile time
	program, err := expr.Compile(expression,
		expr.Env(c.helpers),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
	}

	if c.cache != nil {
		c.cache.put(expression, f)
	}

	return f, nil
}

// Cached returns the number of cached filters
func (c *Compiler) Cached() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.len()
}

// Clear drops every cached filter
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Expression returns the source expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against one record
func (f *Filter) Match(record map[string]any) (bool, error) {
	env := make(map[string]any, len(f.helpers)+len(record))
	maps.Copy(env, f.helpers)
	maps.Copy(env, record)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RecordID:   recordID(record),
			Err:        err,
		}
	}

	// undefined variables can still produce a non-bool at runtime
	switch v := result.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	default:
		return false, &EvaluationError{
			Expression: f.expression,
			RecordID:   recordID(record),
			Err:        fmt.Errorf("expression returned %T, expected bool", v),
		}
	}
}

// Apply keeps the records the filter matches, preserving order
func (f *Filter) Apply(records []map[string]any) ([]map[string]any, error) {
	var kept []map[string]any
	for _, record := range records {
		ok, err := f.Match(record)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, record)
		}
	}
	return kept, nil
}

// Select keeps the items whose record the filter matches
func Select[T Recorder](f *Filter, items []T) ([]T, error) {
	var kept []T
	for _, item := range items {
		ok, err := f.Match(item.Record())
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

func recordID(record map[string]any) string {
	if id, ok := record["id"]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return ""
}

func helperFunctions() map[string]any {
	return map[string]any{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"number":    number,
		"daysSince": func(t time.Time) int { return int(time.Since(t).Hours() / 24) },
	}
}

// number coerces values like "172", "1,358" or 77 to a float, 0 when unknown
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
