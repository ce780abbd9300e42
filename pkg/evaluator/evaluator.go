// Package evaluator implements the FHIRPath tree-walking evaluation engine.
//
// The evaluator receives a compiled expression from the parser and walks
// its arena-backed tree against a JSON-like document (interface{} trees of
// map[string]interface{}, []interface{} and scalars). Evaluation is a pure
// function of (expression, document): the arena is never mutated and the
// document is read-only, so one compiled expression may be evaluated
// concurrently against many documents without synchronization.
//
// # Example
//
//	expr, _ := parser.Parse("name.given")
//	eval := evaluator.New()
//	result, err := eval.Eval(expr, document)
//
// Per the FHIRPath convention that absence is data rather than failure,
// lookup failures (missing field, index out of range, shape mismatch) are
// converted into an empty collection at this package's outer boundary.
// Syntax, coercion, and unsupported-operation errors always surface.
package evaluator

import (
	"fmt"
	"log/slog"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// Evaluator evaluates compiled FHIRPath expressions against documents.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits evaluation recursion depth. Zero disables the guard.
	MaxDepth int
	// Logger for structured logging.
	Logger *slog.Logger
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 10000,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// Eval evaluates a compiled expression against a document.
//
// A lookup failure anywhere in the walk is caught exactly once here and
// converted into an empty collection; every other error propagates.
func (e *Evaluator) Eval(expr *types.Expression, document interface{}) (interface{}, error) {
	if expr == nil || expr.Arena() == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	st := &evalState{
		arena:    expr.Arena(),
		root:     document,
		maxDepth: e.opts.MaxDepth,
	}

	result, err := st.eval(expr.Root(), 0)
	if err != nil {
		if types.IsLookup(err) {
			e.logger.Debug("path did not resolve, returning empty collection",
				"expression", expr.Source(),
				"reason", err)
			return []interface{}{}, nil
		}
		return nil, err
	}

	return result.v, nil
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithMaxDepth sets the maximum evaluation recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}
