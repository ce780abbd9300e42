package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberhealth/fhirpath/pkg/types"
)

func parseExpr(t *testing.T, input string) *types.Expression {
	t.Helper()
	expr, err := Parse(input)
	require.NoError(t, err, "parse %q", input)
	return expr
}

func rootNode(t *testing.T, input string) (*types.Expression, *types.ExprNode) {
	t.Helper()
	expr := parseExpr(t, input)
	return expr, expr.Arena().Get(expr.Root())
}

func expectParseError(t *testing.T, input string, code types.ErrorCode) {
	t.Helper()
	_, err := Parse(input)
	require.Error(t, err, "parse %q", input)
	var ee *types.Error
	require.True(t, errors.As(err, &ee), "error type for %q", input)
	require.Equal(t, code, ee.Code, "error code for %q", input)
}

func TestParseIdentifier(t *testing.T) {
	_, root := rootNode(t, "name")
	require.Equal(t, types.NodeIdentifier, root.Type)
	require.Equal(t, "name", root.StrValue)
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, n *types.ExprNode)
	}{
		{"string", `'hello'`, func(t *testing.T, n *types.ExprNode) {
			require.Equal(t, types.NodeString, n.Type)
			require.Equal(t, "hello", n.StrValue)
		}},
		{"integer", "42", func(t *testing.T, n *types.ExprNode) {
			require.Equal(t, types.NodeInteger, n.Type)
			require.Equal(t, int64(42), n.IntValue)
		}},
		{"number", "3.14", func(t *testing.T, n *types.ExprNode) {
			require.Equal(t, types.NodeNumber, n.Type)
			require.Equal(t, 3.14, n.NumValue)
		}},
		{"boolean", "true", func(t *testing.T, n *types.ExprNode) {
			require.Equal(t, types.NodeBoolean, n.Type)
			require.True(t, n.BoolValue)
		}},
		{"date", "@1974-12-25", func(t *testing.T, n *types.ExprNode) {
			require.Equal(t, types.NodeDate, n.Type)
			require.Equal(t, "1974-12-25", n.StrValue)
		}},
		{"datetime", "@2015-02-04T14:34:28", func(t *testing.T, n *types.ExprNode) {
			require.Equal(t, types.NodeDateTime, n.Type)
			require.Equal(t, "2015-02-04T14:34:28", n.StrValue)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, root := rootNode(t, tt.input)
			tt.check(t, root)
		})
	}
}

func TestParseMemberAccess(t *testing.T) {
	expr, root := rootNode(t, "name.given")
	require.Equal(t, types.NodeMemberAccess, root.Type)
	require.Equal(t, "given", root.StrValue)

	object := expr.Arena().Get(root.Object)
	require.Equal(t, types.NodeIdentifier, object.Type)
	require.Equal(t, "name", object.StrValue)
}

func TestParseMemberAccessChain(t *testing.T) {
	expr, root := rootNode(t, "a.b.c")
	require.Equal(t, types.NodeMemberAccess, root.Type)
	require.Equal(t, "c", root.StrValue)

	mid := expr.Arena().Get(root.Object)
	require.Equal(t, types.NodeMemberAccess, mid.Type)
	require.Equal(t, "b", mid.StrValue)

	base := expr.Arena().Get(mid.Object)
	require.Equal(t, types.NodeIdentifier, base.Type)
	require.Equal(t, "a", base.StrValue)
}

func TestParseIndex(t *testing.T) {
	expr, root := rootNode(t, "name[0]")
	require.Equal(t, types.NodeIndex, root.Type)

	object := expr.Arena().Get(root.Object)
	require.Equal(t, types.NodeIdentifier, object.Type)

	index := expr.Arena().Get(root.Index)
	require.Equal(t, types.NodeInteger, index.Type)
	require.Equal(t, int64(0), index.IntValue)
}

func TestParseRepeatedIndex(t *testing.T) {
	expr, root := rootNode(t, "a[0][1]")
	require.Equal(t, types.NodeIndex, root.Type)
	require.Equal(t, int64(1), expr.Arena().Get(root.Index).IntValue)

	inner := expr.Arena().Get(root.Object)
	require.Equal(t, types.NodeIndex, inner.Type)
	require.Equal(t, int64(0), expr.Arena().Get(inner.Index).IntValue)
}

func TestParseFunctionCallReceiverPatched(t *testing.T) {
	// a.first() is parsed as a receiver-less call, then the left side of
	// the dot is attached in place.
	expr, root := rootNode(t, "a.first()")
	require.Equal(t, types.NodeFunctionCall, root.Type)
	require.True(t, root.HasObject)
	require.Empty(t, root.Arguments)

	receiver := expr.Arena().Get(root.Object)
	require.Equal(t, types.NodeIdentifier, receiver.Type)
	require.Equal(t, "a", receiver.StrValue)

	fn := expr.Arena().Get(root.Function)
	require.Equal(t, types.NodeIdentifier, fn.Type)
	require.Equal(t, "first", fn.StrValue)
}

func TestParseStandaloneCall(t *testing.T) {
	// Syntactically valid; rejected at evaluation time.
	_, root := rootNode(t, "first()")
	require.Equal(t, types.NodeFunctionCall, root.Type)
	require.False(t, root.HasObject)
}

func TestParseCallArguments(t *testing.T) {
	expr, root := rootNode(t, "a.fn(1, 'two')")
	require.Equal(t, types.NodeFunctionCall, root.Type)
	require.Len(t, root.Arguments, 2)
	require.Equal(t, types.NodeInteger, expr.Arena().Get(root.Arguments[0]).Type)
	require.Equal(t, types.NodeString, expr.Arena().Get(root.Arguments[1]).Type)
}

func TestParseChainedCallReceiver(t *testing.T) {
	expr, root := rootNode(t, "name[0].given.first()")
	require.Equal(t, types.NodeFunctionCall, root.Type)
	require.True(t, root.HasObject)

	member := expr.Arena().Get(root.Object)
	require.Equal(t, types.NodeMemberAccess, member.Type)
	require.Equal(t, "given", member.StrValue)

	index := expr.Arena().Get(member.Object)
	require.Equal(t, types.NodeIndex, index.Type)
}

func TestParseBacktickedIdentifier(t *testing.T) {
	expr, root := rootNode(t, "text.`div`")
	require.Equal(t, types.NodeMemberAccess, root.Type)
	require.Equal(t, "div", root.StrValue)
	require.Equal(t, "text", expr.Arena().Get(root.Object).StrValue)
}

func TestParseKeywordAsName(t *testing.T) {
	// Names colliding with the keyword table remain addressable.
	_, root := rootNode(t, "name.exists()")
	require.Equal(t, types.NodeFunctionCall, root.Type)

	_, root = rootNode(t, "item.where")
	require.Equal(t, types.NodeMemberAccess, root.Type)
	require.Equal(t, "where", root.StrValue)
}

func TestParseBinary(t *testing.T) {
	tests := []struct {
		input string
		op    types.Operator
	}{
		{"a = b", types.OpEqual},
		{"a != b", types.OpNotEqual},
		{"a < b", types.OpLess},
		{"a <= b", types.OpLessEqual},
		{"a > b", types.OpGreater},
		{"a >= b", types.OpGreaterEqual},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, root := rootNode(t, tt.input)
			require.Equal(t, types.NodeBinary, root.Type)
			require.Equal(t, tt.op, root.Op)
			require.Equal(t, types.NodeIdentifier, expr.Arena().Get(root.LHS).Type)
			require.Equal(t, types.NodeIdentifier, expr.Arena().Get(root.RHS).Type)
		})
	}
}

func TestParseBinaryOverChains(t *testing.T) {
	expr, root := rootNode(t, "birthDate < @2000-01-01")
	require.Equal(t, types.NodeBinary, root.Type)
	require.Equal(t, types.NodeIdentifier, expr.Arena().Get(root.LHS).Type)
	require.Equal(t, types.NodeDate, expr.Arena().Get(root.RHS).Type)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  types.ErrorCode
	}{
		{"empty", "", types.ErrSyntaxError},
		{"blank", "   ", types.ErrSyntaxError},
		{"trailing dot", "name.", types.ErrExpectedToken},
		{"unclosed arguments", "a.first(", types.ErrUnexpectedEnd},
		{"unclosed arguments with content", "a.fn(1, 2", types.ErrUnexpectedEnd},
		{"unclosed bracket", "name[0", types.ErrExpectedToken},
		{"trailing token", "a b", types.ErrSyntaxError},
		{"dangling operator", "a <", types.ErrSyntaxError},
		{"dot literal", "name.5", types.ErrExpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectParseError(t, tt.input, tt.code)
		})
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := Parse("name[0")
	require.Error(t, err)
	var ee *types.Error
	require.True(t, errors.As(err, &ee))
	require.Equal(t, len("name[0"), ee.Position)
}

func TestCompileMaxNodes(t *testing.T) {
	_, err := Compile("a.b.c.d.e", WithMaxNodes(3))
	require.Error(t, err)
	var ee *types.Error
	require.True(t, errors.As(err, &ee))
	require.Equal(t, types.ErrNodeLimit, ee.Code)

	_, err = Compile("a.b", WithMaxNodes(3))
	require.NoError(t, err)
}

func TestExpressionSource(t *testing.T) {
	expr := parseExpr(t, "name.given")
	require.Equal(t, "name.given", expr.Source())
	require.Equal(t, "name.given", expr.String())
}
