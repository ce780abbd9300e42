// Package parser implements the FHIRPath lexer and recursive descent parser.
//
// The parser consumes the lexer's span-only token stream plus the original
// expression text and builds a handle-addressed expression tree inside a
// [types.Arena], returning it as a compiled [types.Expression].
//
// # Example
//
//	expr, err := parser.Parse("Patient.name[0].given.first()")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	root := expr.Arena().Get(expr.Root())
package parser

import (
	"github.com/emberhealth/fhirpath/pkg/types"
)

// Parse parses a FHIRPath expression and returns the compiled Expression.
//
// The function tokenizes the input, builds the arena-backed tree, and
// validates the syntax. Parse errors carry the offending token and its
// source position.
func Parse(input string) (*types.Expression, error) {
	p := NewParser(input)
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(input string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(input, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxNodes caps the number of arena nodes a single expression may
	// allocate. Zero means the NodeRef handle-width bound applies.
	MaxNodes int
}

// WithMaxNodes caps the arena node count for a single expression.
func WithMaxNodes(n int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxNodes = n
	}
}
