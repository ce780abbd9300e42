package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/emberhealth/fhirpath/pkg/types"
)

// dateTimeSpanLen is the span length above which an @-literal is
// classified as a date-time rather than a plain date. A full calendar
// date (YYYY-MM-DD) is exactly 10 characters; anything longer must carry
// a time component. This is a syntactic hint only; calendar validation
// happens during comparison coercion.
const dateTimeSpanLen = 10

// Lexer scans a FHIRPath expression into a sequence of span-only tokens.
// Tokens carry byte offsets into the input; no substring is copied.
type Lexer struct {
	input   string
	length  int
	start   int // start position of current token
	current int // current position in input
}

// NewLexer creates a new lexer for the provided input string.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Tokenize scans the whole input and returns the token sequence. The
// sequence always terminates with a TokenEOF token, so the parser can use
// single-token lookahead without an explicit "no more tokens" state.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
		if t.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// next returns the next token from the input.
func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()

	if l.current >= l.length {
		return Token{Type: TokenEOF, Start: l.current, End: l.current}, nil
	}

	l.start = l.current
	c := l.input[l.current]

	// Two-character operators first: !=, <=, >= before their
	// single-character forms.
	switch c {
	case '!':
		l.current++
		if !l.acceptByte('=') {
			return Token{}, l.errorf(types.ErrUnexpectedChar, "unexpected character '!'")
		}
		return l.newToken(TokenNotEqual), nil
	case '<':
		l.current++
		if l.acceptByte('=') {
			return l.newToken(TokenLessEqual), nil
		}
		return l.newToken(TokenLess), nil
	case '>':
		l.current++
		if l.acceptByte('=') {
			return l.newToken(TokenGreaterEqual), nil
		}
		return l.newToken(TokenGreater), nil
	case '@':
		l.current++
		return l.scanDate(), nil
	case '\'', '"':
		l.current++
		return l.scanString(c)
	}

	if tt := lookupSymbol1(c); tt > TokenEOF {
		l.current++
		return l.newToken(tt), nil
	}

	if isDigit(c) {
		return l.scanNumber()
	}

	if isAlpha(c) || c == '_' {
		return l.scanIdentifier(), nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return Token{}, l.errorf(types.ErrUnexpectedChar, fmt.Sprintf("unexpected character %q", r))
}

// scanString reads a string literal. The opening quote has already been
// consumed. A backslash consumes the following character without
// interpreting it; escape decoding is not performed at this layer, the
// span is captured raw (without the surrounding quotes).
func (l *Lexer) scanString(quote byte) (Token, error) {
	contentStart := l.current
	for l.current < l.length {
		switch l.input[l.current] {
		case quote:
			t := Token{Type: TokenString, Start: contentStart, End: l.current}
			l.current++
			return t, nil
		case '\\':
			l.current++
			if l.current >= l.length {
				return Token{}, l.errorf(types.ErrStringNotClosed, "unterminated string literal")
			}
		}
		l.current++
	}
	return Token{}, l.errorf(types.ErrStringNotClosed, "unterminated string literal")
}

// scanNumber reads a contiguous run of digits and at most one '.'. The
// presence of a '.' selects the floating kind. The span is validated
// against the chosen numeric kind so overflow surfaces here rather than
// as silent truncation later.
func (l *Lexer) scanNumber() (Token, error) {
	isFloat := false
	for l.current < l.length {
		c := l.input[l.current]
		if c == '.' {
			if isFloat {
				break
			}
			isFloat = true
		} else if !isDigit(c) {
			break
		}
		l.current++
	}

	text := l.input[l.start:l.current]
	if isFloat {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return Token{}, l.errorf(types.ErrInvalidNumber, fmt.Sprintf("invalid number: %s", text))
		}
		return l.newToken(TokenNumber), nil
	}
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return Token{}, l.errorf(types.ErrInvalidNumber, fmt.Sprintf("invalid integer: %s", text))
	}
	return l.newToken(TokenInteger), nil
}

// scanDate reads an @-prefixed date or date-time literal. The '@' has
// already been consumed; the span excludes it. The scanner consumes up to
// the next whitespace, ')' or ',' and classifies by span length alone.
func (l *Lexer) scanDate() Token {
	contentStart := l.current
	for l.current < l.length {
		c := l.input[l.current]
		if isWhitespace(c) || c == ')' || c == ',' {
			break
		}
		l.current++
	}

	t := Token{Type: TokenDate, Start: contentStart, End: l.current}
	if t.End-t.Start > dateTimeSpanLen {
		t.Type = TokenDateTime
	}
	return t
}

// scanIdentifier reads a run of alphanumeric/underscore characters and
// maps it against the keyword table.
func (l *Lexer) scanIdentifier() Token {
	for l.current < l.length {
		c := l.input[l.current]
		if !isAlphanumeric(c) && c != '_' {
			break
		}
		l.current++
	}

	t := l.newToken(TokenIdentifier)
	if tt := lookupKeyword(t.Text(l.input)); tt > TokenEOF {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) newToken(tt TokenType) Token {
	return Token{Type: tt, Start: l.start, End: l.current}
}

func (l *Lexer) errorf(code types.ErrorCode, message string) error {
	return types.NewError(code, message, l.start)
}

func (l *Lexer) acceptByte(c byte) bool {
	if l.current < l.length && l.input[l.current] == c {
		l.current++
		return true
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	for l.current < l.length && isWhitespace(l.input[l.current]) {
		l.current++
	}
}

// Character classification functions

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphanumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
