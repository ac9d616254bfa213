package cplx

import (
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
)

// Big is a complex number over arbitrary-precision decimals. Addition,
// subtraction and multiplication are exact; division and Pow keep
// bigdec.Precision() significant digits.
type Big struct {
	Re, Im bigdec.Decimal
}

var _ Value[Big] = Big{}

// NewBig returns re + im·i.
func NewBig(re, im bigdec.Decimal) Big {
	return Big{Re: re, Im: im}
}

// BigFromInt64 returns the real integer v.
func BigFromInt64(v int64) Big {
	return Big{Re: bigdec.NewFromInt64(v)}
}

func (a Big) Add(b Big) Big { return Big{a.Re.Add(b.Re), a.Im.Add(b.Im)} }
func (a Big) Sub(b Big) Big { return Big{a.Re.Sub(b.Re), a.Im.Sub(b.Im)} }
func (a Big) Neg() Big      { return Big{a.Re.Neg(), a.Im.Neg()} }
func (a Big) IsZero() bool  { return a.Re.IsZero() && a.Im.IsZero() }

// IsReal reports whether the imaginary part is zero.
func (a Big) IsReal() bool { return a.Im.IsZero() }

// Equal reports whether both parts are equal.
func (a Big) Equal(b Big) bool { return a.Re.Equal(b.Re) && a.Im.Equal(b.Im) }

func (a Big) Mul(b Big) Big {
	return Big{
		a.Re.Mul(b.Re).Sub(a.Im.Mul(b.Im)),
		a.Re.Mul(b.Im).Add(a.Im.Mul(b.Re)),
	}
}

// Div computes (ac+bd)/(c²+d²) + (bc-ad)/(c²+d²)·i.
func (a Big) Div(b Big) (Big, error) {
	den := b.Re.Mul(b.Re).Add(b.Im.Mul(b.Im))
	if den.IsZero() {
		return Big{}, bigdec.ErrDivideByZero
	}
	re, err := a.Re.Mul(b.Re).Add(a.Im.Mul(b.Im)).Div(den)
	if err != nil {
		return Big{}, err
	}
	im, err := a.Im.Mul(b.Re).Sub(a.Re.Mul(b.Im)).Div(den)
	if err != nil {
		return Big{}, err
	}
	return Big{re, im}, nil
}

func (a Big) Pow(w Big) (Big, error) {
	if n, ok := smallInt(w); ok {
		return intPow(a, n)
	}
	if a.IsZero() {
		if w.IsZero() {
			return bigOne, nil
		}
		return zeroPow(w)
	}
	lr, err := bigdec.Ln(a.Re.Mul(a.Re).Add(a.Im.Mul(a.Im)))
	if err != nil {
		return Big{}, err
	}
	lr = lr.Mul(bigdec.MustParse("0.5"))
	li := bigdec.Atan2(a.Im, a.Re)

	// w·log a = p + qi; exp(p + qi) = e^p·(cos q + i·sin q)
	p := w.Re.Mul(lr).Sub(w.Im.Mul(li))
	q := w.Re.Mul(li).Add(w.Im.Mul(lr))
	ep := bigdec.Exp(p)
	return Big{ep.Mul(bigdec.Cos(q)), ep.Mul(bigdec.Sin(q))}.Truncate(bigdec.Precision()), nil
}

// Truncate cuts both parts to at most digits significant digits.
func (a Big) Truncate(digits int) Big {
	return Big{a.Re.Truncate(digits), a.Im.Truncate(digits)}
}

func (a Big) Complex128() complex128 {
	return complex(a.Re.Float64(), a.Im.Float64())
}

// String renders a+bi in plain positional notation.
func (a Big) String() string {
	return join(a.Re.Text(), a.Im.Text())
}

func (Big) FromBig(c Big) (Big, error) { return c, nil }

func (Big) ImaginaryUnit() Big { return Big{Im: bigdec.One} }
