package cplx

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
	"github.com/wildfunctions/newton_formula/pkg/decmath"
)

// Decimal is a complex number over 28-digit decimals. A nil part is zero.
//
// Arithmetic does not trap: a part that leaves the exponent range becomes
// infinite instead of failing, and Complex128 reports it as such.
type Decimal struct {
	Re, Im *apd.Decimal
}

var _ Value[Decimal] = Decimal{}

var decimalCtx = func() *apd.Context {
	c := *decmath.Context
	c.Traps = 0
	return &c
}()

var decZero = apd.New(0, 0)

// NewDecimal returns re + im·i.
func NewDecimal(re, im *apd.Decimal) Decimal {
	return Decimal{Re: re, Im: im}
}

func part(d *apd.Decimal) *apd.Decimal {
	if d == nil {
		return decZero
	}
	return d
}

func (a Decimal) re() *apd.Decimal { return part(a.Re) }
func (a Decimal) im() *apd.Decimal { return part(a.Im) }

type decOp func(d, x, y *apd.Decimal) (apd.Condition, error)

func apply(op decOp, x, y *apd.Decimal) *apd.Decimal {
	d := new(apd.Decimal)
	// Traps are disabled on decimalCtx, so op never fails.
	_, _ = op(d, x, y)
	return d
}

func (a Decimal) Add(b Decimal) Decimal {
	return Decimal{apply(decimalCtx.Add, a.re(), b.re()), apply(decimalCtx.Add, a.im(), b.im())}
}

func (a Decimal) Sub(b Decimal) Decimal {
	return Decimal{apply(decimalCtx.Sub, a.re(), b.re()), apply(decimalCtx.Sub, a.im(), b.im())}
}

func (a Decimal) Mul(b Decimal) Decimal {
	ac := apply(decimalCtx.Mul, a.re(), b.re())
	bd := apply(decimalCtx.Mul, a.im(), b.im())
	ad := apply(decimalCtx.Mul, a.re(), b.im())
	bc := apply(decimalCtx.Mul, a.im(), b.re())
	return Decimal{apply(decimalCtx.Sub, ac, bd), apply(decimalCtx.Add, ad, bc)}
}

func (a Decimal) Div(b Decimal) (Decimal, error) {
	if b.IsZero() {
		return Decimal{}, bigdec.ErrDivideByZero
	}
	c, d := b.re(), b.im()
	den := apply(decimalCtx.Add, apply(decimalCtx.Mul, c, c), apply(decimalCtx.Mul, d, d))
	re := apply(decimalCtx.Add, apply(decimalCtx.Mul, a.re(), c), apply(decimalCtx.Mul, a.im(), d))
	im := apply(decimalCtx.Sub, apply(decimalCtx.Mul, a.im(), c), apply(decimalCtx.Mul, a.re(), d))
	return Decimal{apply(decimalCtx.Quo, re, den), apply(decimalCtx.Quo, im, den)}, nil
}

func (a Decimal) Neg() Decimal {
	return Decimal{new(apd.Decimal).Neg(a.re()), new(apd.Decimal).Neg(a.im())}
}

func (a Decimal) IsZero() bool {
	return a.re().IsZero() && a.im().IsZero()
}

func (a Decimal) Pow(w Decimal) (Decimal, error) {
	if n, ok := smallIntDec(w); ok {
		return intPow(a, n)
	}
	if a.IsZero() {
		if w.IsZero() {
			return Decimal{Re: apd.New(1, 0)}, nil
		}
		return zeroPow(w)
	}
	lr, li, err := a.log()
	if err != nil {
		return Decimal{}, err
	}
	// w·log a = p + qi; exp(p + qi) = e^p·(cos q + i·sin q)
	p := apply(decimalCtx.Sub, apply(decimalCtx.Mul, w.re(), lr), apply(decimalCtx.Mul, w.im(), li))
	q := apply(decimalCtx.Add, apply(decimalCtx.Mul, w.re(), li), apply(decimalCtx.Mul, w.im(), lr))
	ep, err := decmath.Exp(p)
	if err != nil {
		return Decimal{}, err
	}
	cos, err := decmath.Cos(q)
	if err != nil {
		return Decimal{}, err
	}
	sin, err := decmath.Sin(q)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{apply(decimalCtx.Mul, ep, cos), apply(decimalCtx.Mul, ep, sin)}, nil
}

// log returns the principal logarithm ln|a| + i·arg(a).
func (a Decimal) log() (*apd.Decimal, *apd.Decimal, error) {
	r2 := apply(decimalCtx.Add, apply(decimalCtx.Mul, a.re(), a.re()), apply(decimalCtx.Mul, a.im(), a.im()))
	l, err := decmath.Ln(r2)
	if err != nil {
		return nil, nil, err
	}
	arg, err := decmath.Atan2(a.im(), a.re())
	if err != nil {
		return nil, nil, err
	}
	return apply(decimalCtx.Mul, l, apd.New(5, -1)), arg, nil
}

func smallIntDec(w Decimal) (int64, bool) {
	if !w.im().IsZero() {
		return 0, false
	}
	var frac apd.Decimal
	if _, err := decimalCtx.Rem(&frac, w.re(), apd.New(1, 0)); err != nil || !frac.IsZero() {
		return 0, false
	}
	n, err := w.re().Int64()
	if err != nil || n > maxIntPow || n < -maxIntPow {
		return 0, false
	}
	return n, true
}

func (a Decimal) Complex128() complex128 {
	re, _ := a.re().Float64()
	im, _ := a.im().Float64()
	return complex(re, im)
}

func (a Decimal) String() string {
	return join(a.re().Text('f'), a.im().Text('f'))
}

func (Decimal) FromBig(c Big) (Decimal, error) {
	re, err := c.Re.ToApd()
	if err != nil {
		return Decimal{}, errors.Wrap(err, "real part")
	}
	im, err := c.Im.ToApd()
	if err != nil {
		return Decimal{}, errors.Wrap(err, "imaginary part")
	}
	return Decimal{re, im}, nil
}

func (Decimal) ImaginaryUnit() Decimal {
	return Decimal{Im: apd.New(1, 0)}
}
