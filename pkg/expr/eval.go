package expr

import (
	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
)

// Evaluate computes the value of node with the given variable bindings.
// The variable "i" is always the imaginary unit, whatever the bindings say.
// Evaluate only reads the tree and the map, so concurrent calls are safe as
// long as no caller mutates a map another call is reading.
func Evaluate[T cplx.Value[T]](node Node, bindings map[string]T) (T, error) {
	var zero T
	switch n := node.(type) {
	case *NumberNode:
		return zero.FromBig(n.Value)

	case *VarNode:
		if n.Name == ImaginaryUnit {
			return zero.ImaginaryUnit(), nil
		}
		v, ok := bindings[n.Name]
		if !ok {
			return zero, errors.WithStack(&UnboundVariableError{Name: n.Name})
		}
		return v, nil

	case *UnaryNode:
		child, err := Evaluate(n.Child, bindings)
		if err != nil {
			return zero, err
		}
		return applyUnary(n.Op, child)

	case *BinaryNode:
		left, err := Evaluate(n.Left, bindings)
		if err != nil {
			return zero, err
		}
		right, err := Evaluate(n.Right, bindings)
		if err != nil {
			return zero, err
		}
		return applyBinary(n.Op, left, right)

	default:
		return zero, errors.AssertionFailedf("unknown node type %T", node)
	}
}

func applyUnary[T cplx.Value[T]](op UnaryOp, v T) (T, error) {
	switch op {
	case OpNeg:
		return v.Neg(), nil
	case OpPlus:
		return v, nil
	default:
		var zero T
		return zero, errors.WithStack(&UnsupportedOperationError{Op: op.String(), Reason: "unknown unary operator"})
	}
}

func applyBinary[T cplx.Value[T]](op BinaryOp, left, right T) (T, error) {
	switch op {
	case OpAdd:
		return left.Add(right), nil
	case OpSub:
		return left.Sub(right), nil
	case OpMul:
		return left.Mul(right), nil
	case OpDiv:
		return left.Div(right)
	case OpPow:
		return left.Pow(right)
	default:
		var zero T
		return zero, errors.WithStack(&UnsupportedOperationError{Op: op.String(), Reason: "unknown binary operator"})
	}
}
