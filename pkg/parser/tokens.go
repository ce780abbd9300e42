package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Identifiers and literals
	TokenIdentifier // fieldName
	TokenString     // "hello" or 'hello'
	TokenInteger    // 123
	TokenNumber     // 3.14
	TokenBoolean    // true, false
	TokenDate       // @1974-12-25
	TokenDateTime   // @2015-02-04T14:34:28
	TokenBacktick   // ` (escaped-identifier delimiter)

	// Operators
	TokenDot          // .
	TokenPlus         // +
	TokenMinus        // -
	TokenMult         // *
	TokenDiv          // /
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Delimiters
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenComma        // ,
	TokenPipe         // |

	// Keywords. Kept contiguous so isKeyword can range-check.
	TokenAnd    // and
	TokenOr     // or
	TokenXor    // xor
	TokenNot    // not
	TokenIs     // is
	TokenAs     // as
	TokenMod    // mod
	TokenWhere  // where
	TokenSelect // select
	TokenAll    // all
	TokenAny    // any
	TokenExists // exists
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenIdentifier:
		return "(identifier)"
	case TokenString:
		return "(string)"
	case TokenInteger:
		return "(integer)"
	case TokenNumber:
		return "(number)"
	case TokenBoolean:
		return "(boolean)"
	case TokenDate:
		return "(date)"
	case TokenDateTime:
		return "(datetime)"
	case TokenBacktick:
		return "`"
	case TokenDot:
		return "."
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenEqual:
		return "="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenComma:
		return ","
	case TokenPipe:
		return "|"
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenXor:
		return "xor"
	case TokenNot:
		return "not"
	case TokenIs:
		return "is"
	case TokenAs:
		return "as"
	case TokenMod:
		return "mod"
	case TokenWhere:
		return "where"
	case TokenSelect:
		return "select"
	case TokenAll:
		return "all"
	case TokenAny:
		return "any"
	case TokenExists:
		return "exists"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token. It carries a kind and a byte-offset
// span into the original expression text; no substring is copied. String
// and date spans exclude their delimiters.
type Token struct {
	Type  TokenType
	Start int
	End   int
}

// Text slices the token's span out of the original input.
func (t Token) Text(input string) string {
	return input[t.Start:t.End]
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'.': TokenDot,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
	'=': TokenEqual,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	',': TokenComma,
	'|': TokenPipe,
	'`': TokenBacktick,
}

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns TokenEOF (0) if the byte is not a symbol.
func lookupSymbol1(c byte) TokenType {
	if int(c) >= len(symbols1) {
		return TokenEOF
	}
	return symbols1[c]
}

// lookupKeyword returns the token type for a keyword.
// Returns TokenEOF (0) if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "xor":
		return TokenXor
	case "not":
		return TokenNot
	case "is":
		return TokenIs
	case "as":
		return TokenAs
	case "mod":
		return TokenMod
	case "where":
		return TokenWhere
	case "select":
		return TokenSelect
	case "all":
		return TokenAll
	case "any":
		return TokenAny
	case "exists":
		return TokenExists
	case "true", "false":
		return TokenBoolean
	default:
		return TokenEOF
	}
}

// isKeyword reports whether tt is a keyword token. Keyword tokens are
// accepted in identifier position by the parser, so field and function
// names that collide with the keyword table (exists, where, ...) remain
// addressable without backticks.
func isKeyword(tt TokenType) bool {
	return tt >= TokenAnd && tt <= TokenExists
}
