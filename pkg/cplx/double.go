package cplx

import (
	"math/cmplx"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
)

// Double is a complex number over float64.
type Double struct {
	Re, Im float64
}

var _ Value[Double] = Double{}

// NewDouble returns re + im·i.
func NewDouble(re, im float64) Double {
	return Double{Re: re, Im: im}
}

// DoubleOf converts a complex128.
func DoubleOf(c complex128) Double {
	return Double{Re: real(c), Im: imag(c)}
}

func (a Double) Add(b Double) Double { return Double{a.Re + b.Re, a.Im + b.Im} }
func (a Double) Sub(b Double) Double { return Double{a.Re - b.Re, a.Im - b.Im} }
func (a Double) Neg() Double         { return Double{-a.Re, -a.Im} }
func (a Double) IsZero() bool        { return a.Re == 0 && a.Im == 0 }

func (a Double) Complex128() complex128 { return complex(a.Re, a.Im) }

func (a Double) Mul(b Double) Double {
	return Double{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}

func (a Double) Div(b Double) (Double, error) {
	if b.IsZero() {
		return Double{}, bigdec.ErrDivideByZero
	}
	return DoubleOf(a.Complex128() / b.Complex128()), nil
}

func (a Double) Pow(w Double) (Double, error) {
	if n, ok := smallIntF64(w); ok {
		return intPow(a, n)
	}
	if a.IsZero() {
		if w.IsZero() {
			return Double{Re: 1}, nil
		}
		return zeroPow(w)
	}
	if a.Im == 0 {
		// -0 would put Log on the other side of the branch cut.
		a.Im = 0
	}
	return DoubleOf(cmplx.Exp(w.Complex128() * cmplx.Log(a.Complex128()))), nil
}

func smallIntF64(w Double) (int64, bool) {
	if w.Im != 0 || w.Re != float64(int64(w.Re)) {
		return 0, false
	}
	n := int64(w.Re)
	if n > maxIntPow || n < -maxIntPow {
		return 0, false
	}
	return n, true
}

func (a Double) String() string {
	return join(strconv.FormatFloat(a.Re, 'g', -1, 64), strconv.FormatFloat(a.Im, 'g', -1, 64))
}

func (Double) FromBig(c Big) (Double, error) {
	d := Double{Re: c.Re.Float64(), Im: c.Im.Float64()}
	if cmplx.IsInf(d.Complex128()) {
		return Double{}, errors.WithStack(&bigdec.OverflowError{Value: c.String(), Target: "float64"})
	}
	return d, nil
}

func (Double) ImaginaryUnit() Double { return Double{Im: 1} }
