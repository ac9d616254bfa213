// Package newton runs Newton's method z ← z - f(z)/f'(z) over any of the
// complex scalar types.
package newton

import (
	"math"
	"math/cmplx"

	"github.com/wildfunctions/newton_formula/pkg/cplx"
	"github.com/wildfunctions/newton_formula/pkg/formula"
)

// Options bounds an iteration.
type Options[T cplx.Value[T]] struct {
	MaxIterations int
	// Tolerance is the step size below which the iteration has converged.
	Tolerance float64
	// Escape is the magnitude beyond which z is considered divergent.
	Escape float64
	// Round, when set, is applied to z after every step to keep
	// arbitrary-precision values from growing without bound.
	Round func(T) T
}

// DefaultOptions returns options suitable for float64 work.
func DefaultOptions[T cplx.Value[T]]() Options[T] {
	return Options[T]{
		MaxIterations: 50,
		Tolerance:     1e-12,
		Escape:        1e100,
	}
}

// Stop says why an iteration ended.
type Stop int

const (
	Converged Stop = iota
	MaxIterations
	ZeroDerivative
	Diverged
	Failed
)

var stopNames = map[Stop]string{
	Converged:      "converged",
	MaxIterations:  "max-iterations",
	ZeroDerivative: "zero-derivative",
	Diverged:       "diverged",
	Failed:         "failed",
}

func (s Stop) String() string { return stopNames[s] }

// Result is the outcome of one iteration.
type Result[T cplx.Value[T]] struct {
	Root       T
	Iterations int
	Stop       Stop
	// Err is set when Stop is Failed.
	Err error
}

// Converged reports whether the iteration reached the tolerance.
func (r Result[T]) Converged() bool { return r.Stop == Converged }

// Solve iterates from z0 until the step is smaller than opts.Tolerance or
// opts.MaxIterations steps have run. A zero derivative ends the iteration
// unconverged.
func Solve[T cplx.Value[T]](b *formula.Bound[T], z0 T, opts Options[T]) Result[T] {
	z := z0
	for k := 1; k <= opts.MaxIterations; k++ {
		fz, dfz, err := b.At(z)
		if err != nil {
			return Result[T]{Root: z, Iterations: k, Stop: Failed, Err: err}
		}
		if dfz.IsZero() {
			return Result[T]{Root: z, Iterations: k, Stop: ZeroDerivative}
		}
		step, err := fz.Div(dfz)
		if err != nil {
			return Result[T]{Root: z, Iterations: k, Stop: Failed, Err: err}
		}
		z = z.Sub(step)
		if opts.Round != nil {
			z = opts.Round(z)
		}

		s := cmplx.Abs(step.Complex128())
		if math.IsNaN(s) {
			return Result[T]{Root: z, Iterations: k, Stop: Diverged}
		}
		if s < opts.Tolerance {
			return Result[T]{Root: z, Iterations: k, Stop: Converged}
		}
		if opts.Escape > 0 && cmplx.Abs(z.Complex128()) > opts.Escape {
			return Result[T]{Root: z, Iterations: k, Stop: Diverged}
		}
	}
	return Result[T]{Root: z, Iterations: opts.MaxIterations, Stop: MaxIterations}
}
