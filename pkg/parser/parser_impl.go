package parser

import (
	"fmt"
	"strconv"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// Parser implements a recursive descent parser with one token of
// lookahead. Grammar:
//
//	expression := postfix [ ('=' | '!=' | '<' | '<=' | '>' | '>=') postfix ]
//	postfix    := term { '.' invocation | '[' expression ']' }
//	term       := literal | invocation
//	invocation := identifier [ '(' argument_list ')' ]
//
// Backtick tokens are consumed transparently around identifiers and never
// produce a node.
type Parser struct {
	input  string
	tokens []Token
	pos    int
	arena  *types.Arena
	opts   CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	var options CompileOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{
		input: input,
		opts:  options,
	}
}

// Parse tokenizes the input and parses the whole token sequence, returning
// the compiled expression.
func (p *Parser) Parse() (*types.Expression, error) {
	tokens, err := NewLexer(p.input).Tokenize()
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.pos = 0
	p.arena = types.NewArena()

	if p.peek().Type == TokenEOF {
		return nil, p.errorf(types.ErrSyntaxError, "empty expression")
	}

	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.peek().Type != TokenEOF {
		return nil, p.errorf(types.ErrSyntaxError, "unexpected token: %s", p.peek().Type)
	}

	return types.NewExpression(p.arena, root, p.input), nil
}

// parseExpression parses a postfix chain, optionally followed by a single
// equality/ordering operator and a second postfix chain.
func (p *Parser) parseExpression() (types.NodeRef, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return 0, err
	}

	op, ok := binaryOperator(p.peek().Type)
	if !ok {
		return left, nil
	}
	opToken := p.peek()
	p.advance()

	right, err := p.parsePostfix()
	if err != nil {
		return 0, err
	}

	return p.add(types.ExprNode{
		Type:     types.NodeBinary,
		Op:       op,
		LHS:      left,
		RHS:      right,
		Position: opToken.Start,
	})
}

// parsePostfix parses a term followed by any number of '.' invocations and
// '[' index ']' groups. Bracket groups may repeat without an intervening
// dot (a[0][1]).
func (p *Parser) parsePostfix() (types.NodeRef, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek().Type {
		case TokenDot:
			p.advance()
			inv, err := p.parseInvocation()
			if err != nil {
				return 0, err
			}
			switch node := p.arena.Get(inv); node.Type {
			case types.NodeFunctionCall:
				// The invocation was allocated as a receiver-less call
				// before the dot-chain context was known. Attach the left
				// side in place; this is the arena's single sanctioned
				// post-allocation mutation.
				p.arena.PatchFunctionReceiver(inv, expr)
				expr = inv
			case types.NodeIdentifier:
				expr, err = p.add(types.ExprNode{
					Type:     types.NodeMemberAccess,
					Object:   expr,
					StrValue: node.StrValue,
					Position: node.Position,
				})
				if err != nil {
					return 0, err
				}
			default:
				return 0, p.errorf(types.ErrSyntaxError, "invalid invocation after '.': %s", node)
			}

		case TokenBracketOpen:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return 0, err
			}
			if err := p.expect(TokenBracketClose); err != nil {
				return 0, err
			}
			expr, err = p.add(types.ExprNode{
				Type:     types.NodeIndex,
				Object:   expr,
				Index:    index,
				Position: p.arena.Get(index).Position,
			})
			if err != nil {
				return 0, err
			}

		default:
			return expr, nil
		}
	}
}

// parseTerm parses a literal or an invocation.
func (p *Parser) parseTerm() (types.NodeRef, error) {
	t := p.peek()
	switch t.Type {
	case TokenString:
		p.advance()
		return p.add(types.ExprNode{Type: types.NodeString, StrValue: t.Text(p.input), Position: t.Start})

	case TokenInteger:
		p.advance()
		i, err := strconv.ParseInt(t.Text(p.input), 10, 64)
		if err != nil {
			return 0, p.errorf(types.ErrSyntaxError, "invalid integer literal: %s", t.Text(p.input))
		}
		return p.add(types.ExprNode{Type: types.NodeInteger, IntValue: i, Position: t.Start})

	case TokenNumber:
		p.advance()
		f, err := strconv.ParseFloat(t.Text(p.input), 64)
		if err != nil {
			return 0, p.errorf(types.ErrSyntaxError, "invalid number literal: %s", t.Text(p.input))
		}
		return p.add(types.ExprNode{Type: types.NodeNumber, NumValue: f, Position: t.Start})

	case TokenBoolean:
		p.advance()
		return p.add(types.ExprNode{Type: types.NodeBoolean, BoolValue: t.Text(p.input) == "true", Position: t.Start})

	case TokenDate:
		p.advance()
		return p.add(types.ExprNode{Type: types.NodeDate, StrValue: t.Text(p.input), Position: t.Start})

	case TokenDateTime:
		p.advance()
		return p.add(types.ExprNode{Type: types.NodeDateTime, StrValue: t.Text(p.input), Position: t.Start})

	case TokenIdentifier, TokenBacktick:
		return p.parseInvocation()

	default:
		if isKeyword(t.Type) {
			return p.parseInvocation()
		}
		return 0, p.errorf(types.ErrSyntaxError, "couldn't parse term, got %s", t.Type)
	}
}

// parseInvocation parses an identifier, optionally followed by a call's
// argument list. A call is allocated without a receiver; parsePostfix
// patches one in when the invocation turns out to be dot-chained.
func (p *Parser) parseInvocation() (types.NodeRef, error) {
	ident, err := p.parseIdentifier()
	if err != nil {
		return 0, err
	}

	if p.peek().Type != TokenParenOpen {
		return ident, nil
	}
	callPos := p.arena.Get(ident).Position
	p.advance()

	var arguments []types.NodeRef
	for p.peek().Type != TokenParenClose {
		if p.peek().Type == TokenEOF {
			return 0, p.errorf(types.ErrUnexpectedEnd, "unclosed argument list")
		}
		arg, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		arguments = append(arguments, arg)
		if p.peek().Type == TokenComma {
			p.advance()
		}
	}
	p.advance() // consume ')'

	return p.add(types.ExprNode{
		Type:      types.NodeFunctionCall,
		Function:  ident,
		Arguments: arguments,
		Position:  callPos,
	})
}

// parseIdentifier parses an identifier token into an identifier node.
// Backticks around the identifier are consumed and discarded; keyword
// tokens are accepted as names.
func (p *Parser) parseIdentifier() (types.NodeRef, error) {
	if p.peek().Type == TokenBacktick {
		p.advance()
	}

	t := p.peek()
	if t.Type != TokenIdentifier && !isKeyword(t.Type) {
		return 0, p.errorf(types.ErrExpectedToken, "expected identifier, got %s", t.Type)
	}
	p.advance()

	if p.peek().Type == TokenBacktick {
		p.advance()
	}

	return p.add(types.ExprNode{
		Type:     types.NodeIdentifier,
		StrValue: t.Text(p.input),
		Position: t.Start,
	})
}

// binaryOperator maps a comparison token to its operator.
func binaryOperator(tt TokenType) (types.Operator, bool) {
	switch tt {
	case TokenEqual:
		return types.OpEqual, true
	case TokenNotEqual:
		return types.OpNotEqual, true
	case TokenLess:
		return types.OpLess, true
	case TokenLessEqual:
		return types.OpLessEqual, true
	case TokenGreater:
		return types.OpGreater, true
	case TokenGreaterEqual:
		return types.OpGreaterEqual, true
	default:
		return "", false
	}
}

// add appends a node to the arena, honoring the configured node cap.
func (p *Parser) add(node types.ExprNode) (types.NodeRef, error) {
	if p.opts.MaxNodes > 0 && p.arena.Len() >= p.opts.MaxNodes {
		return 0, types.NewError(types.ErrNodeLimit, "expression node limit exceeded", node.Position)
	}
	return p.arena.Add(node)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

// advance consumes the current token.
func (p *Parser) advance() {
	if p.tokens[p.pos].Type != TokenEOF {
		p.pos++
	}
}

// expect consumes the current token if it matches tt, erroring otherwise.
func (p *Parser) expect(tt TokenType) error {
	if p.peek().Type != tt {
		return p.errorf(types.ErrExpectedToken, "expected %s, got %s", tt, p.peek().Type)
	}
	p.advance()
	return nil
}

// errorf creates a parse error at the current token.
func (p *Parser) errorf(code types.ErrorCode, format string, args ...interface{}) error {
	t := p.peek()
	return types.NewError(code, fmt.Sprintf(format, args...), t.Start).WithToken(t.Text(p.input))
}
