package expr

import (
	"fmt"
	"strconv"
	"strings"

	"effcost/domain/core"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "unknown token"
	}
}

type token struct {
	kind  tokenKind
	pos   int
	text  string
	value Number
}

// lexer splits an expression into tokens. Only ASCII digits, '.', exponents,
// the four operators, parentheses and whitespace are accepted.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '+':
		l.pos++
		return token{kind: tokPlus, pos: start, text: "+"}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus, pos: start, text: "-"}, nil
	case '*':
		l.pos++
		return token{kind: tokStar, pos: start, text: "*"}, nil
	case '/':
		l.pos++
		return token{kind: tokSlash, pos: start, text: "/"}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	}

	if isDigit(c) || c == '.' {
		return l.number()
	}
	return token{}, l.errorf(start, "unexpected character %q", rune(c))
}

func (l *lexer) number() (token, error) {
	start := l.pos
	isFloat := false

	digits := l.digits()
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		isFloat = true
		l.pos++
		digits += l.digits()
	}
	if digits == 0 {
		return token{}, l.errorf(start, "malformed number")
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		isFloat = true
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.digits() == 0 {
			return token{}, l.errorf(start, "malformed exponent")
		}
	}

	text := l.src[start:l.pos]
	value, err := literalValue(text, isFloat)
	if err != nil {
		return token{}, l.errorf(start, "%v", err)
	}
	return token{kind: tokNumber, pos: start, text: text, value: value}, nil
}

func (l *lexer) digits() int {
	n := 0
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		n++
	}
	return n
}

func (l *lexer) errorf(offset int, format string, args ...interface{}) error {
	return &core.ExpressionError{
		Expr:   l.src,
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		Err:    core.ErrInvalidExpression,
	}
}

func literalValue(text string, isFloat bool) (Number, error) {
	if !isFloat {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(v), nil
		}
		// too large for int64
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Number{}, fmt.Errorf("number %s out of range", text)
	}
	return Float(f), nil
}

// ParseLiteral reports whether text is a single, optionally signed, numeric
// literal and returns its value.
func ParseLiteral(text string) (Number, bool) {
	s := strings.TrimSpace(text)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	if s == "" || !(isDigit(s[0]) || s[0] == '.') {
		return Number{}, false
	}

	l := &lexer{src: s}
	tok, err := l.number()
	if err != nil || l.pos != len(s) {
		return Number{}, false
	}
	if negative {
		return neg(tok.value), true
	}
	return tok.value, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
