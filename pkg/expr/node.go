package expr

import (
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
)

// Node is a node of a formula tree. The set of implementations is closed:
// NumberNode, VarNode, BinaryNode and UnaryNode.
//
// Trees are immutable once built. Operations that transform a tree, such
// as Differentiate, build new nodes.
type Node interface {
	String() string
	LaTeX() string
	Clone() Node
	NodeCount() int
	Depth() int

	exprNode()
}

// BinaryOp identifies a binary operation.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

// UnaryOp identifies a unary operation.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPlus
)

// ImaginaryUnit is the variable name that always evaluates to i.
const ImaginaryUnit = "i"

// NumberNode is a complex constant.
type NumberNode struct {
	Value cplx.Big
}

// VarNode references a variable by name.
type VarNode struct {
	Name string
}

// BinaryNode applies a binary operation to two child expressions.
type BinaryNode struct {
	Op          BinaryOp
	Left, Right Node
}

// UnaryNode applies a unary operation to a child expression.
type UnaryNode struct {
	Op    UnaryOp
	Child Node
}

func (*NumberNode) exprNode() {}
func (*VarNode) exprNode()    {}
func (*BinaryNode) exprNode() {}
func (*UnaryNode) exprNode()  {}

// Num returns a real constant node.
func Num(v int64) *NumberNode {
	return &NumberNode{Value: cplx.BigFromInt64(v)}
}

// NumOf returns a real constant node for d.
func NumOf(d bigdec.Decimal) *NumberNode {
	return &NumberNode{Value: cplx.Big{Re: d}}
}

// Var returns a variable node.
func Var(name string) *VarNode {
	return &VarNode{Name: name}
}

// Bin returns a binary node.
func Bin(op BinaryOp, left, right Node) *BinaryNode {
	return &BinaryNode{Op: op, Left: left, Right: right}
}

// Equal reports whether a and b are structurally equal. Number nodes
// compare by value, not by their literal text.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *NumberNode:
		y, ok := b.(*NumberNode)
		return ok && x.Value.Equal(y.Value)
	case *VarNode:
		y, ok := b.(*VarNode)
		return ok && x.Name == y.Name
	case *BinaryNode:
		y, ok := b.(*BinaryNode)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *UnaryNode:
		y, ok := b.(*UnaryNode)
		return ok && x.Op == y.Op && Equal(x.Child, y.Child)
	default:
		return false
	}
}

// ContainsVar reports whether the tree references a variable other than
// the imaginary unit.
func ContainsVar(node Node) bool {
	switch n := node.(type) {
	case *VarNode:
		return n.Name != ImaginaryUnit
	case *BinaryNode:
		return ContainsVar(n.Left) || ContainsVar(n.Right)
	case *UnaryNode:
		return ContainsVar(n.Child)
	default:
		return false
	}
}

// FreeVars returns the variable names referenced by the tree, excluding
// the imaginary unit, in order of first appearance.
func FreeVars(node Node) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Node)
	walk = func(node Node) {
		switch n := node.(type) {
		case *VarNode:
			if n.Name != ImaginaryUnit && !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *BinaryNode:
			walk(n.Left)
			walk(n.Right)
		case *UnaryNode:
			walk(n.Child)
		}
	}
	walk(node)
	return names
}
