package expr

func (n *NumberNode) NodeCount() int { return 1 }
func (v *VarNode) NodeCount() int    { return 1 }
func (u *UnaryNode) NodeCount() int  { return 1 + u.Child.NodeCount() }
func (b *BinaryNode) NodeCount() int {
	return 1 + b.Left.NodeCount() + b.Right.NodeCount()
}

func (n *NumberNode) Depth() int { return 1 }
func (v *VarNode) Depth() int    { return 1 }
func (u *UnaryNode) Depth() int  { return 1 + u.Child.Depth() }
func (b *BinaryNode) Depth() int {
	ld := b.Left.Depth()
	rd := b.Right.Depth()
	if ld > rd {
		return 1 + ld
	}
	return 1 + rd
}
