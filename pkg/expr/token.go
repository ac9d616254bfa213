package expr

import (
	"strings"
	"unicode"
)

// TokenKind classifies a token.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenVariable
	TokenOperator
	TokenLeftParen
	TokenRightParen
)

var tokenKindNames = map[TokenKind]string{
	TokenNumber:     "number",
	TokenVariable:   "variable",
	TokenOperator:   "operator",
	TokenLeftParen:  "left-paren",
	TokenRightParen: "right-paren",
}

func (k TokenKind) String() string { return tokenKindNames[k] }

// Token is a lexeme of formula source text.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	return t.Kind.String() + " " + t.Text
}

func isOperator(r rune) bool {
	return strings.ContainsRune("+-*/^", r)
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return r >= 'a' && r <= 'z' }

// Tokenize splits formula source into tokens. Whitespace is skipped and
// letters are lower-cased. Runs of digits and dots become numbers and runs
// of letters become variables; numeric text is validated by the parser.
// A multiplication operator is inserted between a number, variable or ')'
// and a following variable or '(', so "2z" lexes like "2*z".
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	var run strings.Builder
	runKind := TokenKind(-1)

	flush := func() {
		if run.Len() > 0 {
			tokens = append(tokens, Token{Kind: runKind, Text: run.String()})
			run.Reset()
		}
		runKind = -1
	}

	pos := 0
	for _, r := range src {
		r = unicode.ToLower(r)
		switch {
		case unicode.IsSpace(r):
			// Whitespace is stripped before lexing, so it never splits a run.
		case isDigit(r) || r == '.':
			if runKind != TokenNumber {
				flush()
				runKind = TokenNumber
			}
			run.WriteRune(r)
		case isLetter(r):
			if runKind != TokenVariable {
				flush()
				runKind = TokenVariable
			}
			run.WriteRune(r)
		case isOperator(r):
			flush()
			tokens = append(tokens, Token{Kind: TokenOperator, Text: string(r)})
		case r == '(':
			flush()
			tokens = append(tokens, Token{Kind: TokenLeftParen, Text: "("})
		case r == ')':
			flush()
			tokens = append(tokens, Token{Kind: TokenRightParen, Text: ")"})
		default:
			return nil, &LexError{Char: r, Pos: pos}
		}
		pos++
	}
	flush()
	return insertImplicitMul(tokens), nil
}

func insertImplicitMul(tokens []Token) []Token {
	if len(tokens) < 2 {
		return tokens
	}
	out := make([]Token, 0, len(tokens))
	for i, t := range tokens {
		if i > 0 && endsOperand(tokens[i-1].Kind) && startsOperand(t.Kind) {
			out = append(out, Token{Kind: TokenOperator, Text: "*"})
		}
		out = append(out, t)
	}
	return out
}

func endsOperand(k TokenKind) bool {
	return k == TokenNumber || k == TokenVariable || k == TokenRightParen
}

func startsOperand(k TokenKind) bool {
	return k == TokenVariable || k == TokenLeftParen
}
