package types

import "fmt"

// NodeType identifies the type of an expression node.
type NodeType string

const (
	NodeIdentifier   NodeType = "identifier"
	NodeMemberAccess NodeType = "member"
	NodeIndex        NodeType = "index"
	NodeFunctionCall NodeType = "function"
	NodeBinary       NodeType = "binary"

	// Literals
	NodeString   NodeType = "string"
	NodeInteger  NodeType = "integer"
	NodeNumber   NodeType = "number"
	NodeBoolean  NodeType = "boolean"
	NodeDate     NodeType = "date"
	NodeDateTime NodeType = "datetime"
)

// Operator is a binary comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// NodeRef is a handle to an expression node inside an Arena.
//
// A NodeRef is a small copyable value and is only meaningful against the
// arena that produced it. The handle width bounds the number of nodes a
// single expression may allocate; Arena.Add fails cleanly when the bound
// is reached instead of wrapping.
type NodeRef uint16

// maxArenaNodes is the number of handles representable by NodeRef.
const maxArenaNodes = 1 << 16

// ExprNode is a node of the expression tree. Go has no sum types, so one
// struct carries the fields of every variant; Type selects which fields
// are meaningful:
//
//	NodeIdentifier    StrValue (name)
//	NodeMemberAccess  Object, StrValue (member name)
//	NodeIndex         Object, Index
//	NodeFunctionCall  Object+HasObject (receiver), Function, Arguments
//	NodeBinary        Op, LHS, RHS
//	NodeString        StrValue
//	NodeInteger       IntValue
//	NodeNumber        NumValue
//	NodeBoolean       BoolValue
//	NodeDate/DateTime StrValue (literal text, validated at coercion time)
//
// Child references are NodeRef handles, never pointers.
type ExprNode struct {
	Type     NodeType
	Position int

	StrValue  string
	IntValue  int64
	NumValue  float64
	BoolValue bool
	Op        Operator

	Object    NodeRef
	HasObject bool
	Index     NodeRef
	Function  NodeRef
	Arguments []NodeRef
	LHS       NodeRef
	RHS       NodeRef
}

// String returns a short description of the node for error messages.
func (n *ExprNode) String() string {
	switch n.Type {
	case NodeIdentifier, NodeMemberAccess, NodeString, NodeDate, NodeDateTime:
		return fmt.Sprintf("%s(%s)", n.Type, n.StrValue)
	case NodeInteger:
		return fmt.Sprintf("integer(%d)", n.IntValue)
	default:
		return string(n.Type)
	}
}

// Arena is a dense, append-only store of expression nodes addressed by
// NodeRef handles. One arena owns every node of a parsed expression.
//
// Handles are never relocated or reused. After parsing completes the
// arena is immutable; the single sanctioned mutation during parsing is
// PatchFunctionReceiver, used to attach a dot-chained call's receiver
// once the left side of the chain is known.
//
// Arena is not safe for concurrent mutation, but a fully parsed arena is
// read-only and may be shared across goroutines freely.
type Arena struct {
	nodes []ExprNode
}

// NewArena allocates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add appends a node and returns its handle. It fails when the node count
// would exceed the NodeRef handle range.
func (a *Arena) Add(node ExprNode) (NodeRef, error) {
	if len(a.nodes) >= maxArenaNodes {
		return 0, NewError(ErrNodeLimit, "expression node limit exceeded", node.Position)
	}
	a.nodes = append(a.nodes, node)
	return NodeRef(len(a.nodes) - 1), nil
}

// Get returns the node for ref. The handle must come from this arena;
// an out-of-range handle is a programming error and panics.
func (a *Arena) Get(ref NodeRef) *ExprNode {
	return &a.nodes[ref]
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// PatchFunctionReceiver attaches object as the receiver of the function
// call node at ref. This is the only post-allocation mutation the arena
// permits: a dot-chained call like a.b() is parsed as a receiver-less
// call before the chain context is known, then patched exactly once.
// It is a no-op when ref does not address a function call node.
func (a *Arena) PatchFunctionReceiver(ref, object NodeRef) {
	node := &a.nodes[ref]
	if node.Type != NodeFunctionCall {
		return
	}
	node.Object = object
	node.HasObject = true
}
