// Package types defines the core type system for the FHIRPath engine.
//
// This package contains type definitions for:
//   - Expression: compiled FHIRPath expressions
//   - ExprNode / Arena / NodeRef: the handle-addressed expression tree
//   - Error types: structured errors with codes
package types

// Expression represents a compiled FHIRPath expression.
//
// An Expression owns one Arena plus the handle of the root node. It is
// immutable after construction and may be evaluated repeatedly against
// different documents, including concurrently from multiple goroutines.
type Expression struct {
	arena  *Arena
	root   NodeRef
	source string
}

// NewExpression creates a new Expression from a parsed arena and root handle.
func NewExpression(arena *Arena, root NodeRef, source string) *Expression {
	return &Expression{
		arena:  arena,
		root:   root,
		source: source,
	}
}

// Arena returns the node store of the expression.
func (e *Expression) Arena() *Arena {
	return e.arena
}

// Root returns the handle of the root node.
func (e *Expression) Root() NodeRef {
	return e.root
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// String returns the original expression text.
func (e *Expression) String() string {
	return e.source
}
