package expr

import "fmt"

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

var unaryOpSymbols = map[UnaryOp]string{
	OpNeg:  "-",
	OpPlus: "+",
}

func (op BinaryOp) String() string { return binaryOpSymbols[op] }
func (op UnaryOp) String() string  { return unaryOpSymbols[op] }

// String methods print every operation in parentheses, so the output
// parses back to the same tree.

func (n *NumberNode) String() string {
	re, im := n.Value.Re, n.Value.Im
	if im.IsZero() {
		if re.Sign() < 0 {
			return "(" + re.Text() + ")"
		}
		return re.Text()
	}
	return fmt.Sprintf("(%s + %s * i)", re.Text(), im.Text())
}

func (v *VarNode) String() string {
	return v.Name
}

func (u *UnaryNode) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Child.String())
}

func (b *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// LaTeX methods

func (n *NumberNode) LaTeX() string {
	re, im := n.Value.Re, n.Value.Im
	if im.IsZero() {
		if re.Sign() < 0 {
			return "{" + re.Text() + "}"
		}
		return re.Text()
	}
	return fmt.Sprintf("(%s + %si)", re.Text(), im.Text())
}

func (v *VarNode) LaTeX() string {
	return v.Name
}

func (u *UnaryNode) LaTeX() string {
	return fmt.Sprintf("%s{%s}", u.Op, u.Child.LaTeX())
}

func (b *BinaryNode) LaTeX() string {
	left := b.Left.LaTeX()
	right := b.Right.LaTeX()
	switch b.Op {
	case OpAdd:
		return fmt.Sprintf("%s + %s", left, right)
	case OpSub:
		return fmt.Sprintf("%s - %s", left, latexParen(b.Right))
	case OpMul:
		return fmt.Sprintf("%s \\cdot %s", latexParen(b.Left), latexParen(b.Right))
	case OpDiv:
		return fmt.Sprintf("\\frac{%s}{%s}", left, right)
	case OpPow:
		return fmt.Sprintf("{%s}^{%s}", latexParen(b.Left), right)
	default:
		return ""
	}
}

// latexParen wraps compound operands so precedence survives rendering.
func latexParen(n Node) string {
	switch n.(type) {
	case *BinaryNode, *UnaryNode:
		return "\\left(" + n.LaTeX() + "\\right)"
	default:
		return n.LaTeX()
	}
}
