// Package expr evaluates restricted arithmetic expressions: numeric literals,
// parentheses, unary sign and the binary operators + - * /. Nothing else is
// accepted, so cell text can never reach names, calls or side effects.
package expr

import (
	"fmt"

	"effcost/domain/core"
)

// MaxDepth bounds parenthesis and unary-operator nesting.
const MaxDepth = 256

// Eval parses and evaluates text.
func Eval(text string) (Number, error) {
	p := &parser{lex: lexer{src: text}}
	if err := p.advance(); err != nil {
		return Number{}, err
	}
	if p.tok.kind == tokEOF {
		return Number{}, p.errorf(p.tok.pos, "empty expression")
	}

	v, err := p.expr()
	if err != nil {
		return Number{}, err
	}
	if p.tok.kind != tokEOF {
		return Number{}, p.errorf(p.tok.pos, "unexpected %s after expression", p.describe())
	}
	return v, nil
}

type parser struct {
	lex   lexer
	tok   token
	depth int
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// expr := term (('+'|'-') term)*
func (p *parser) expr() (Number, error) {
	left, err := p.term()
	if err != nil {
		return Number{}, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok
		if err := p.advance(); err != nil {
			return Number{}, err
		}
		right, err := p.term()
		if err != nil {
			return Number{}, err
		}
		if op.kind == tokPlus {
			left = add(left, right)
		} else {
			left = sub(left, right)
		}
		if err := p.checkFinite(left, op.pos); err != nil {
			return Number{}, err
		}
	}
	return left, nil
}

// term := unary (('*'|'/') unary)*
func (p *parser) term() (Number, error) {
	left, err := p.unary()
	if err != nil {
		return Number{}, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := p.tok
		if err := p.advance(); err != nil {
			return Number{}, err
		}
		right, err := p.unary()
		if err != nil {
			return Number{}, err
		}
		if op.kind == tokStar {
			left = mul(left, right)
		} else {
			if right.IsZero() {
				return Number{}, &core.ExpressionError{
					Expr:   p.lex.src,
					Offset: op.pos,
					Reason: fmt.Sprintf("%s / %s", left, right),
					Err:    core.ErrDivisionByZero,
				}
			}
			left = div(left, right)
		}
		if err := p.checkFinite(left, op.pos); err != nil {
			return Number{}, err
		}
	}
	return left, nil
}

// unary := ('+'|'-') unary | primary
func (p *parser) unary() (Number, error) {
	if p.tok.kind != tokPlus && p.tok.kind != tokMinus {
		return p.primary()
	}
	op := p.tok
	if err := p.enter(op.pos); err != nil {
		return Number{}, err
	}
	defer p.leave()

	if err := p.advance(); err != nil {
		return Number{}, err
	}
	v, err := p.unary()
	if err != nil {
		return Number{}, err
	}
	if op.kind == tokMinus {
		return neg(v), nil
	}
	return v, nil
}

// primary := NUMBER | '(' expr ')'
func (p *parser) primary() (Number, error) {
	switch p.tok.kind {
	case tokNumber:
		v := p.tok.value
		if err := p.advance(); err != nil {
			return Number{}, err
		}
		return v, nil
	case tokLParen:
		open := p.tok.pos
		if err := p.enter(open); err != nil {
			return Number{}, err
		}
		defer p.leave()

		if err := p.advance(); err != nil {
			return Number{}, err
		}
		v, err := p.expr()
		if err != nil {
			return Number{}, err
		}
		if p.tok.kind != tokRParen {
			return Number{}, p.errorf(p.tok.pos, "expected ')' to close '(' at offset %d, got %s", open, p.describe())
		}
		if err := p.advance(); err != nil {
			return Number{}, err
		}
		return v, nil
	default:
		return Number{}, p.errorf(p.tok.pos, "expected number or '(', got %s", p.describe())
	}
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > MaxDepth {
		return p.errorf(pos, "nesting deeper than %d", MaxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) checkFinite(v Number, pos int) error {
	if v.finite() {
		return nil
	}
	return p.errorf(pos, "result is not a finite number")
}

func (p *parser) describe() string {
	if p.tok.kind == tokNumber {
		return "number " + p.tok.text
	}
	return p.tok.kind.String()
}

func (p *parser) errorf(offset int, format string, args ...interface{}) error {
	return p.lex.errorf(offset, format, args...)
}
