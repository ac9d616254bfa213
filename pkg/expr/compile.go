package expr

import (
	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
)

// Func is a compiled formula. It reads bindings the same way Evaluate does.
type Func[T cplx.Value[T]] func(bindings map[string]T) (T, error)

// Compile turns node into a closure tree so repeated evaluation skips the
// type switch and converts each numeric literal only once.
func Compile[T cplx.Value[T]](node Node) (Func[T], error) {
	var zero T
	switch n := node.(type) {
	case *NumberNode:
		v, err := zero.FromBig(n.Value)
		if err != nil {
			return nil, err
		}
		return func(map[string]T) (T, error) { return v, nil }, nil

	case *VarNode:
		if n.Name == ImaginaryUnit {
			unit := zero.ImaginaryUnit()
			return func(map[string]T) (T, error) { return unit, nil }, nil
		}
		name := n.Name
		return func(b map[string]T) (T, error) {
			v, ok := b[name]
			if !ok {
				return zero, errors.WithStack(&UnboundVariableError{Name: name})
			}
			return v, nil
		}, nil

	case *UnaryNode:
		child, err := Compile[T](n.Child)
		if err != nil {
			return nil, err
		}
		op := n.Op
		return func(b map[string]T) (T, error) {
			v, err := child(b)
			if err != nil {
				return zero, err
			}
			return applyUnary(op, v)
		}, nil

	case *BinaryNode:
		left, err := Compile[T](n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Compile[T](n.Right)
		if err != nil {
			return nil, err
		}
		op := n.Op
		return func(b map[string]T) (T, error) {
			l, err := left(b)
			if err != nil {
				return zero, err
			}
			r, err := right(b)
			if err != nil {
				return zero, err
			}
			return applyBinary(op, l, r)
		}, nil

	default:
		return nil, errors.AssertionFailedf("unknown node type %T", node)
	}
}
