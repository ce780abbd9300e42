// Package fhirpath evaluates FHIRPath expressions against JSON-like
// documents.
//
// FHIRPath is a path-based navigation and extraction language for
// tree-shaped resources. This package implements the core subset used to
// extract, filter, and project fields out of clinical documents: member
// access, escaped identifiers, indexing, collection functions (first,
// last, count, exists, empty), and equality/ordering comparison with
// chronological handling of ISO-8601 date-valued strings.
//
// # Quick Start
//
//	// One-shot evaluation
//	result, err := fhirpath.Evaluate("name.given", patient)
//
//	// Compile once, evaluate many times
//	expr, err := fhirpath.Parse("name[0].given.first()")
//	result1, _ := fhirpath.EvaluateAST(expr, patient1)
//	result2, _ := fhirpath.EvaluateAST(expr, patient2)
//
// Documents are interface{} trees as produced by encoding/json or gjson:
// map[string]interface{}, []interface{}, string, float64, bool, nil.
//
// # Absence is data
//
// Following the FHIRPath specification, a path that does not resolve
// against a document is not an error: Evaluate returns an empty
// collection. Hard errors are reserved for invalid expression text and
// unsupported or ill-typed operations.
package fhirpath

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/emberhealth/fhirpath/pkg/cache"
	"github.com/emberhealth/fhirpath/pkg/evaluator"
	"github.com/emberhealth/fhirpath/pkg/parser"
	"github.com/emberhealth/fhirpath/pkg/types"
)

// Version returns the current version of the library.
func Version() string {
	return "v0.1.0-dev"
}

// Parse compiles a FHIRPath expression for repeated evaluation.
//
// The compiled expression is immutable and safe for concurrent use.
func Parse(expression string) (*types.Expression, error) {
	return parser.Parse(expression)
}

// MustParse is like Parse but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(expression string) *types.Expression {
	expr, err := Parse(expression)
	if err != nil {
		panic(fmt.Sprintf("fhirpath: Parse(%q): %v", expression, err))
	}
	return expr
}

// Evaluate is a convenience function that compiles and evaluates an
// expression in a single call.
//
// For repeated evaluations of the same expression, use Parse plus
// EvaluateAST, or an Engine, instead.
func Evaluate(expression string, document interface{}, opts ...evaluator.EvalOption) (interface{}, error) {
	expr, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return evaluator.New(opts...).Eval(expr, document)
}

// EvaluateAST evaluates a precompiled expression against a document.
func EvaluateAST(expr *types.Expression, document interface{}, opts ...evaluator.EvalOption) (interface{}, error) {
	return evaluator.New(opts...).Eval(expr, document)
}

// EvaluateBytes evaluates an expression against a raw JSON document.
// The document is validated and materialized with gjson before the walk.
func EvaluateBytes(expression string, document []byte, opts ...evaluator.EvalOption) (interface{}, error) {
	if !gjson.ValidBytes(document) {
		return nil, fmt.Errorf("fhirpath: invalid JSON document")
	}
	return Evaluate(expression, gjson.ParseBytes(document).Value(), opts...)
}

// Engine couples an evaluator with an LRU cache of compiled expressions,
// for callers that apply a recurring set of query strings to a stream of
// documents. Safe for concurrent use.
type Engine struct {
	cache *cache.Cache
	eval  *evaluator.Evaluator
}

// NewEngine creates an Engine whose cache holds up to cacheSize compiled
// expressions (<= 0 selects the default capacity).
func NewEngine(cacheSize int, opts ...evaluator.EvalOption) *Engine {
	return &Engine{
		cache: cache.New(cacheSize),
		eval:  evaluator.New(opts...),
	}
}

// Evaluate compiles expression (or reuses a cached compilation) and
// evaluates it against document.
func (e *Engine) Evaluate(expression string, document interface{}) (interface{}, error) {
	expr, err := e.cache.GetOrCompile(expression, func() (*types.Expression, error) {
		return parser.Parse(expression)
	})
	if err != nil {
		return nil, err
	}
	return e.eval.Eval(expr, document)
}

// EvaluateBytes is Evaluate over a raw JSON document.
func (e *Engine) EvaluateBytes(expression string, document []byte) (interface{}, error) {
	if !gjson.ValidBytes(document) {
		return nil, fmt.Errorf("fhirpath: invalid JSON document")
	}
	return e.Evaluate(expression, gjson.ParseBytes(document).Value())
}
