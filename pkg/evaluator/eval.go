package evaluator

import (
	"fmt"
	"math"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// evalState carries the immutable inputs of one evaluation: the arena of
// the compiled expression and the root document. Identifiers always
// resolve against the root.
type evalState struct {
	arena    *types.Arena
	root     interface{}
	maxDepth int
}

// eval recursively evaluates the node at ref.
func (s *evalState) eval(ref types.NodeRef, depth int) (value, error) {
	if s.maxDepth > 0 && depth > s.maxDepth {
		return value{}, types.NewError(types.ErrDepthExceeded, "evaluation recursion depth exceeded", -1)
	}

	node := s.arena.Get(ref)
	switch node.Type {
	case types.NodeIdentifier:
		return s.evalIdentifier(node)
	case types.NodeMemberAccess:
		return s.evalMemberAccess(node, depth)
	case types.NodeIndex:
		return s.evalIndexAccess(node, depth)
	case types.NodeFunctionCall:
		return s.evalFunctionCall(node, depth)
	case types.NodeBinary:
		return s.evalBinary(node, depth)
	case types.NodeString, types.NodeDate, types.NodeDateTime:
		return owned(node.StrValue), nil
	case types.NodeInteger:
		return owned(node.IntValue), nil
	case types.NodeNumber:
		return owned(node.NumValue), nil
	case types.NodeBoolean:
		return owned(node.BoolValue), nil
	default:
		return value{}, types.NewError(types.ErrNotImplemented,
			fmt.Sprintf("expression not implemented: %s", node.Type), node.Position)
	}
}

// evalIdentifier resolves a bare identifier against the root document: a
// match on the document's own resourceType selects the whole document,
// otherwise the identifier names a field.
func (s *evalState) evalIdentifier(node *types.ExprNode) (value, error) {
	if m, ok := s.root.(map[string]interface{}); ok {
		if rt, ok := m["resourceType"].(string); ok && rt == node.StrValue {
			return borrowed(s.root), nil
		}
		if v, ok := m[node.StrValue]; ok {
			return borrowed(v), nil
		}
	}
	return value{}, types.NewError(types.ErrFieldNotFound,
		fmt.Sprintf("could not find field or resource type: %s", node.StrValue), node.Position)
}

// evalMemberAccess evaluates the receiver, then projects the member.
// Over a collection the per-element results are merged with one level of
// flattening; elements lacking the member contribute nothing.
func (s *evalState) evalMemberAccess(node *types.ExprNode, depth int) (value, error) {
	object, err := s.eval(node.Object, depth+1)
	if err != nil {
		return value{}, err
	}

	switch recv := object.v.(type) {
	case []interface{}:
		out := make([]interface{}, 0, len(recv))
		for _, item := range recv {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			v, ok := m[node.StrValue]
			if !ok {
				continue
			}
			if nested, ok := v.([]interface{}); ok {
				out = append(out, nested...)
			} else {
				out = append(out, v)
			}
		}
		return owned(out), nil

	case map[string]interface{}:
		return getFromObject(object, node.StrValue, node.Position)

	default:
		return value{}, types.NewError(types.ErrShapeMismatch,
			fmt.Sprintf("member access on non-structured value: %s", node.StrValue), node.Position)
	}
}

// evalIndexAccess evaluates the receiver and fetches the element at the
// literal index position.
func (s *evalState) evalIndexAccess(node *types.ExprNode, depth int) (value, error) {
	object, err := s.eval(node.Object, depth+1)
	if err != nil {
		return value{}, err
	}
	index, err := s.evalIndex(node.Index)
	if err != nil {
		return value{}, err
	}
	return getFromArray(object, index, node.Position)
}

// evalIndex resolves an index expression to a non-negative machine index.
// Only integer literals are accepted; anything else is unrecoverable. A
// value outside the index width is a distinct representation error so it
// can never silently truncate.
func (s *evalState) evalIndex(ref types.NodeRef) (int, error) {
	node := s.arena.Get(ref)
	if node.Type != types.NodeInteger {
		return 0, types.NewError(types.ErrIndexExpression,
			fmt.Sprintf("unsupported index expression: %s", node), node.Position)
	}
	if node.IntValue < 0 || node.IntValue > math.MaxInt32 {
		return 0, types.NewError(types.ErrIndexNegative,
			fmt.Sprintf("index cannot be represented: %d", node.IntValue), node.Position)
	}
	return int(node.IntValue), nil
}

// evalFunctionCall evaluates the receiver and dispatches the builtin.
func (s *evalState) evalFunctionCall(node *types.ExprNode, depth int) (value, error) {
	if !node.HasObject {
		return value{}, types.NewError(types.ErrStandaloneFunction,
			"standalone functions are not supported", node.Position)
	}

	receiver, err := s.eval(node.Object, depth+1)
	if err != nil {
		return value{}, err
	}

	fn := s.arena.Get(node.Function)
	if fn.Type != types.NodeIdentifier {
		return value{}, types.NewError(types.ErrFunctionName,
			"function name must be an identifier", node.Position)
	}

	return callFunction(fn.StrValue, receiver, node.Position)
}

// evalBinary evaluates both sides, coerces each into its comparable form,
// and applies the equality/ordering operator.
func (s *evalState) evalBinary(node *types.ExprNode, depth int) (value, error) {
	lhs, err := s.eval(node.LHS, depth+1)
	if err != nil {
		return value{}, err
	}
	rhs, err := s.eval(node.RHS, depth+1)
	if err != nil {
		return value{}, err
	}

	lc, err := toComparable(lhs.v, node.Position)
	if err != nil {
		return value{}, err
	}
	rc, err := toComparable(rhs.v, node.Position)
	if err != nil {
		return value{}, err
	}

	result, err := compareValues(node.Op, lc, rc, node.Position)
	if err != nil {
		return value{}, err
	}
	return owned(result), nil
}
