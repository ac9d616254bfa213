// Package cplx provides complex numbers over three scalar types: float64
// (Double), fixed 28-digit decimals (Decimal) and arbitrary-precision
// decimals (Big). All three share the Value operation set so evaluators
// can be written once with type parameters.
//
// Values are immutable; every operation returns a new value.
package cplx

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
)

// Value is the operation set shared by Double, Decimal and Big.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	// Div fails with bigdec.ErrDivideByZero when the divisor is zero.
	Div(T) (T, error)
	Neg() T
	// Pow computes exp(w·log z) on the principal branch, with an exact
	// repeated-squaring path for small integer exponents.
	Pow(T) (T, error)
	IsZero() bool
	Complex128() complex128
	String() string

	// FromBig converts a constant; the receiver is ignored.
	FromBig(Big) (T, error)
	// ImaginaryUnit returns i; the receiver is ignored.
	ImaginaryUnit() T
}

// maxIntPow bounds the exponents handled by repeated squaring.
const maxIntPow = 1 << 10

var bigOne = Big{Re: bigdec.One}

// smallInt reports whether w is a real integer no larger than maxIntPow.
func smallInt(w Big) (int64, bool) {
	if !w.Im.IsZero() {
		return 0, false
	}
	n, ok := w.Re.Int64()
	if !ok || n > maxIntPow || n < -maxIntPow {
		return 0, false
	}
	return n, true
}

func intPow[T Value[T]](z T, n int64) (T, error) {
	var zero T
	one, err := zero.FromBig(bigOne)
	if err != nil {
		return zero, err
	}
	neg := n < 0
	if neg {
		n = -n
	}
	result, b := one, z
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b)
		}
		n >>= 1
		if n > 0 {
			b = b.Mul(b)
		}
	}
	if neg {
		return one.Div(result)
	}
	return result, nil
}

// zeroPow handles 0^w for a non-integer w: 0 when Re(w) > 0.
func zeroPow[T Value[T]](w T) (T, error) {
	var zero T
	if real(w.Complex128()) > 0 {
		return zero.FromBig(Big{})
	}
	return zero, errors.Wrap(bigdec.ErrDivideByZero, "zero raised to a non-positive power")
}

// join renders re+imi the way ParseBig reads it back.
func join(re, im string) string {
	if strings.HasPrefix(im, "-") {
		return re + im + "i"
	}
	return re + "+" + im + "i"
}

// ParseBig reads a complex literal: "a", "a+bi", "a-bi", "bi", "i", "-i",
// or the pair forms "(a b)" and "(a, b)". Parts use bigdec.Parse syntax.
func ParseBig(s string) (Big, error) {
	re, im := splitComplex(strings.TrimSpace(s))
	r, err := bigdec.Parse(re)
	if err != nil {
		return Big{}, errors.Wrapf(err, "complex literal %q", s)
	}
	i, err := bigdec.Parse(im)
	if err != nil {
		return Big{}, errors.Wrapf(err, "complex literal %q", s)
	}
	return Big{Re: r, Im: i}, nil
}

func splitComplex(s string) (string, string) {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		f := strings.Fields(strings.ReplaceAll(s[1:len(s)-1], ",", " "))
		switch len(f) {
		case 1:
			return f[0], "0"
		case 2:
			return f[0], f[1]
		}
		return s, s
	}
	s = strings.ReplaceAll(s, "I", "i")
	if !strings.HasSuffix(s, "i") {
		return s, "0"
	}
	core := s[:len(s)-1]
	re, im := "0", core
	if idx := lastSignNotInExponent(core); idx > 0 {
		re, im = core[:idx], core[idx:]
	}
	switch im {
	case "", "+":
		im = "1"
	case "-":
		im = "-1"
	}
	return re, im
}

// lastSignNotInExponent finds the last '+'/'-' that is neither the leading
// sign nor part of an exponent.
func lastSignNotInExponent(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if (s[i] == '+' || s[i] == '-') && s[i-1] != 'e' && s[i-1] != 'E' {
			return i
		}
	}
	return -1
}
