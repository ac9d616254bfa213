package expr

import "fmt"

// LexError reports a character the tokenizer does not recognize. Pos is
// the rune offset in the source text.
type LexError struct {
	Char rune
	Pos  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

// SyntaxError reports a grammar violation. Pos is the index of the
// offending token; it equals the token count at end of input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at token %d: %s", e.Pos, e.Msg)
}

// UnboundVariableError reports a variable with no binding.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("variable %q is not bound", e.Name)
}

// UnsupportedOperationError reports an operation with no evaluation or
// differentiation rule.
type UnsupportedOperationError struct {
	Op     string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %s: %s", e.Op, e.Reason)
}
