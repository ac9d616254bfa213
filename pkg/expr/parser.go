package expr

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
)

// Parse builds a tree from tokens using the grammar
//
//	Expression := Term (('+'|'-') Term)*
//	Term       := Factor (('*'|'/') Factor)*
//	Factor     := Primary ('^' Factor)?
//	Primary    := ('+'|'-') Primary | Number | Variable | '(' Expression ')'
//
// so '^' binds tightest and associates to the right.
func Parse(tokens []Token) (Node, error) {
	p := &parser{tokens: tokens}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.errorf("unexpected %s after end of expression", p.describe())
	}
	return n, nil
}

// ParseString tokenizes and parses src.
func ParseString(src string) (Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// MustParse is ParseString for formulas known to be valid.
func MustParse(src string) Node {
	n, err := ParseString(src)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) peekOp(ops string) (string, bool) {
	t, ok := p.peek()
	if !ok || t.Kind != TokenOperator || !strings.Contains(ops, t.Text) {
		return "", false
	}
	return t.Text, true
}

func (p *parser) describe() string {
	t, ok := p.peek()
	if !ok {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.WithStack(&SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)})
}

var binaryOps = map[string]BinaryOp{
	"+": OpAdd,
	"-": OpSub,
	"*": OpMul,
	"/": OpDiv,
	"^": OpPow,
}

func (p *parser) expression() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("+-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = Bin(binaryOps[op], left, right)
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("*/")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = Bin(binaryOps[op], left, right)
	}
}

func (p *parser) factor() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.peekOp("^"); !ok {
		return base, nil
	}
	p.pos++
	exp, err := p.factor()
	if err != nil {
		return nil, err
	}
	return Bin(OpPow, base, exp), nil
}

func (p *parser) primary() (Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input, expected a number, variable or '('")
	}
	switch t.Kind {
	case TokenOperator:
		var op UnaryOp
		switch t.Text {
		case "-":
			op = OpNeg
		case "+":
			op = OpPlus
		default:
			return nil, p.errorf("unexpected operator %q", t.Text)
		}
		p.pos++
		child, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Child: child}, nil

	case TokenNumber:
		d, err := parseNumber(t.Text)
		if err != nil {
			return nil, err
		}
		p.pos++
		return NumOf(d), nil

	case TokenVariable:
		p.pos++
		return Var(t.Text), nil

	case TokenLeftParen:
		p.pos++
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		if t, ok := p.peek(); !ok || t.Kind != TokenRightParen {
			return nil, p.errorf("expected ')' but found %s", p.describe())
		}
		p.pos++
		return n, nil

	default:
		return nil, p.errorf("unexpected %q", t.Text)
	}
}

// parseNumber reads a literal with '.' as the decimal separator and, failing
// that, with '.' as a thousands separator ("1.234.567").
func parseNumber(text string) (bigdec.Decimal, error) {
	d, err := bigdec.Parse(text)
	if err == nil {
		return d, nil
	}
	if grouped, ok := ungroup(text); ok {
		if d, gerr := bigdec.Parse(grouped); gerr == nil {
			return d, nil
		}
	}
	return bigdec.Decimal{}, errors.Wrapf(err, "numeric literal")
}

// ungroup strips '.' thousands separators when every group after the first
// has exactly three digits.
func ungroup(text string) (string, bool) {
	groups := strings.Split(text, ".")
	if len(groups) < 2 || groups[0] == "" || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}
