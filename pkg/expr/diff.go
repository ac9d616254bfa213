package expr

import (
	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
)

// Differentiate returns the derivative of node with respect to varName.
// The input tree is not modified; subtrees reused in the result are cloned.
//
// Powers are only differentiated when the exponent is constant, meaning it
// references no variable except the imaginary unit. Any other exponent is
// an *UnsupportedOperationError. The result is not simplified.
func Differentiate(node Node, varName string) (Node, error) {
	switch n := node.(type) {
	case *NumberNode:
		return Num(0), nil

	case *VarNode:
		if n.Name == varName && n.Name != ImaginaryUnit {
			return Num(1), nil
		}
		return Num(0), nil

	case *UnaryNode:
		d, err := Differentiate(n.Child, varName)
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: n.Op, Child: d}, nil

	case *BinaryNode:
		return diffBinary(n, varName)

	default:
		return nil, errors.AssertionFailedf("unknown node type %T", node)
	}
}

func diffBinary(n *BinaryNode, varName string) (Node, error) {
	if n.Op == OpPow {
		return diffPow(n, varName)
	}
	du, err := Differentiate(n.Left, varName)
	if err != nil {
		return nil, err
	}
	dv, err := Differentiate(n.Right, varName)
	if err != nil {
		return nil, err
	}
	u, v := n.Left, n.Right

	switch n.Op {
	case OpAdd, OpSub:
		return Bin(n.Op, du, dv), nil

	case OpMul:
		// u'v + uv'
		return Bin(OpAdd,
			Bin(OpMul, du, v.Clone()),
			Bin(OpMul, u.Clone(), dv),
		), nil

	case OpDiv:
		// (u'v - uv') / v^2
		return Bin(OpDiv,
			Bin(OpSub,
				Bin(OpMul, du, v.Clone()),
				Bin(OpMul, u.Clone(), dv),
			),
			Bin(OpPow, v.Clone(), Num(2)),
		), nil

	default:
		return nil, errors.WithStack(&UnsupportedOperationError{
			Op:     n.Op.String(),
			Reason: "no differentiation rule",
		})
	}
}

// diffPow applies the power rule c·u^(c-1)·u'.
func diffPow(n *BinaryNode, varName string) (Node, error) {
	if ContainsVar(n.Right) {
		return nil, errors.WithStack(&UnsupportedOperationError{
			Op:     OpPow.String(),
			Reason: "exponent " + n.Right.String() + " is not constant",
		})
	}
	du, err := Differentiate(n.Left, varName)
	if err != nil {
		return nil, err
	}
	return Bin(OpMul,
		Bin(OpMul,
			n.Right.Clone(),
			Bin(OpPow, n.Left.Clone(), decrement(n.Right)),
		),
		du,
	), nil
}

// decrement returns c - 1, folded into a single literal when c is one.
func decrement(c Node) Node {
	if num, ok := c.(*NumberNode); ok {
		return &NumberNode{Value: num.Value.Sub(cplx.BigFromInt64(1))}
	}
	return Bin(OpSub, c.Clone(), Num(1))
}
