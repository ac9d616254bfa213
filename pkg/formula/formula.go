// Package formula compiles formula source text into a tree, its derivative
// and evaluable closures.
package formula

import (
	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
	"github.com/wildfunctions/newton_formula/pkg/expr"
)

// DefaultVar is the variable conventionally bound per start point.
const DefaultVar = "z"

// Formula is a parsed formula and, when it exists, its derivative.
type Formula struct {
	Source string
	Var    string
	Tree   expr.Node
	// Deriv is nil when differentiation failed; DerivativeErr says why.
	Deriv         expr.Node
	DerivativeErr error
}

// Compile tokenizes, parses and differentiates src with respect to
// varName. Lexing and parsing errors fail compilation. A derivative that
// cannot be formed is recorded on the Formula instead, so callers that only
// evaluate f still work.
func Compile(src, varName string) (*Formula, error) {
	if varName == "" {
		varName = DefaultVar
	}
	tree, err := expr.ParseString(src)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %q", src)
	}
	f := &Formula{Source: src, Var: varName, Tree: tree}
	f.Deriv, f.DerivativeErr = expr.Differentiate(tree, varName)
	return f, nil
}

// MustCompile is Compile for formulas known to be valid.
func MustCompile(src string) *Formula {
	f, err := Compile(src, DefaultVar)
	if err != nil {
		panic(err)
	}
	return f
}

// Unbound returns the free variables of the formula other than Var.
func (f *Formula) Unbound() []string {
	var out []string
	for _, name := range expr.FreeVars(f.Tree) {
		if name != f.Var {
			out = append(out, name)
		}
	}
	return out
}

// Bound holds f and f' compiled for one scalar type.
type Bound[T cplx.Value[T]] struct {
	Var string
	F   expr.Func[T]
	DF  expr.Func[T]
}

// Bind compiles f and its derivative for T. It fails when the derivative
// is missing or a constant does not fit T.
func Bind[T cplx.Value[T]](f *Formula) (*Bound[T], error) {
	if f.DerivativeErr != nil {
		return nil, errors.Wrapf(f.DerivativeErr, "differentiating %q", f.Source)
	}
	fn, err := expr.Compile[T](f.Tree)
	if err != nil {
		return nil, errors.Wrapf(err, "binding %q", f.Source)
	}
	dfn, err := expr.Compile[T](f.Deriv)
	if err != nil {
		return nil, errors.Wrapf(err, "binding derivative of %q", f.Source)
	}
	return &Bound[T]{Var: f.Var, F: fn, DF: dfn}, nil
}

// At evaluates f and f' at z.
func (b *Bound[T]) At(z T) (fz, dfz T, err error) {
	bindings := map[string]T{b.Var: z}
	if fz, err = b.F(bindings); err != nil {
		return fz, dfz, err
	}
	dfz, err = b.DF(bindings)
	return fz, dfz, err
}
