// Package decmath approximates transcendental functions on fixed 28-digit
// decimals with truncated power series.
//
// Every loop stops once a term drops below 1e-28 or after MaxIterations
// terms, whichever comes first. The cap bounds the running time for
// arguments where the series converges slowly; results hitting the cap are
// returned without an accuracy guarantee.
package decmath

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// Digits is the number of significant digits in every result.
const Digits = 28

// MaxIterations caps the number of series terms per call.
const MaxIterations = 200

// ErrDomain is returned for arguments outside a function's real domain.
var ErrDomain = errors.New("argument out of domain")

// Context rounds results to Digits significant digits.
var Context = newContext(Digits)

// work carries guard digits for intermediate sums.
var work = newContext(Digits + 10)

func newContext(prec uint32) *apd.Context {
	c := apd.BaseContext.WithPrecision(prec)
	c.Rounding = apd.RoundHalfEven
	return c
}

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	zero    = apd.New(0, 0)
	one     = apd.New(1, 0)
	two     = apd.New(2, 0)
	half    = apd.New(5, -1)
	epsilon = apd.New(1, -Digits)
	limit   = apd.New(15, -1)

	pi     = mustDecimal("3.14159265358979323846264338327950288419716939937510")
	halfPi = mustDecimal("1.57079632679489661923132169163975144209858469968755")
	twoPi  = mustDecimal("6.28318530717958647692528676655900576839433879875021")
	ln2    = mustDecimal("0.69314718055994530941723212145817656807550013436026")
	ln10   = mustDecimal("2.30258509299404568401799145468436420760110148862877")
)

// Pi returns π rounded to Digits.
func Pi() *apd.Decimal {
	return finish(&apd.ErrDecimal{Ctx: work}, pi)
}

func finish(ed *apd.ErrDecimal, d *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal)
	if ed.Err() != nil {
		return out
	}
	ed.Ctx = Context
	ed.Round(out, d)
	return out
}

func small(d *apd.Decimal) bool {
	var a apd.Decimal
	a.Abs(d)
	return a.Cmp(epsilon) < 0
}

// Exp returns e^x.
func Exp(x *apd.Decimal) (*apd.Decimal, error) {
	ed := &apd.ErrDecimal{Ctx: work}
	if x.IsZero() {
		return new(apd.Decimal).Set(one), nil
	}

	// e^x = (e^(x/2^k))^(2^k) with |x/2^k| <= 1/2
	r := new(apd.Decimal).Set(x)
	var abs apd.Decimal
	k := 0
	for abs.Abs(r).Cmp(half) > 0 {
		ed.Mul(r, r, half)
		k++
	}

	sum := new(apd.Decimal).Set(one)
	term := new(apd.Decimal).Set(one)
	var n apd.Decimal
	for i := int64(1); i <= MaxIterations && ed.Err() == nil; i++ {
		ed.Mul(term, term, r)
		ed.Quo(term, term, n.SetInt64(i))
		ed.Add(sum, sum, term)
		if small(term) {
			break
		}
	}
	for ; k > 0; k-- {
		ed.Mul(sum, sum, sum)
	}
	if err := ed.Err(); err != nil {
		return nil, errors.Wrapf(err, "exp(%s)", x)
	}
	return finish(ed, sum), nil
}

// Ln returns the natural logarithm of x. Non-positive x fails with ErrDomain.
func Ln(x *apd.Decimal) (*apd.Decimal, error) {
	if x.Sign() <= 0 {
		return nil, errors.Wrapf(ErrDomain, "ln(%s)", x)
	}
	ed := &apd.ErrDecimal{Ctx: work}

	// x = y × 10^e with y in [1, 10)
	e := x.NumDigits() - 1 + int64(x.Exponent)
	y := new(apd.Decimal).Set(x)
	y.Exponent -= int32(e)

	// y = w × 2^k with w in [1, 1.5]
	k := int64(0)
	for y.Cmp(limit) > 0 {
		ed.Mul(y, y, half)
		k++
	}

	// ln w = 2·atanh((w-1)/(w+1))
	var num, den apd.Decimal
	t := new(apd.Decimal)
	ed.Quo(t, ed.Sub(&num, y, one), ed.Add(&den, y, one))
	sum := atanhSeries(ed, t)
	ed.Mul(sum, sum, two)

	var tmp, n apd.Decimal
	if k != 0 {
		ed.Add(sum, sum, ed.Mul(&tmp, ln2, n.SetInt64(k)))
	}
	if e != 0 {
		ed.Add(sum, sum, ed.Mul(&tmp, ln10, n.SetInt64(e)))
	}
	if err := ed.Err(); err != nil {
		return nil, errors.Wrapf(err, "ln(%s)", x)
	}
	return finish(ed, sum), nil
}

// atanhSeries sums t + t³/3 + t⁵/5 + …
func atanhSeries(ed *apd.ErrDecimal, t *apd.Decimal) *apd.Decimal {
	sum := new(apd.Decimal).Set(t)
	pow := new(apd.Decimal).Set(t)
	var t2, term, n apd.Decimal
	ed.Mul(&t2, t, t)
	for i := int64(1); i <= MaxIterations && ed.Err() == nil; i++ {
		ed.Mul(pow, pow, &t2)
		ed.Quo(&term, pow, n.SetInt64(2*i+1))
		ed.Add(sum, sum, &term)
		if small(&term) {
			break
		}
	}
	return sum
}

// atanSeries sums t - t³/3 + t⁵/5 - …
func atanSeries(ed *apd.ErrDecimal, t *apd.Decimal) *apd.Decimal {
	sum := new(apd.Decimal).Set(t)
	pow := new(apd.Decimal).Set(t)
	var t2, term, n apd.Decimal
	ed.Mul(&t2, t, t)
	ed.Neg(&t2, &t2)
	for i := int64(1); i <= MaxIterations && ed.Err() == nil; i++ {
		ed.Mul(pow, pow, &t2)
		ed.Quo(&term, pow, n.SetInt64(2*i+1))
		ed.Add(sum, sum, &term)
		if small(&term) {
			break
		}
	}
	return sum
}

// reduce maps x into [-π, π): x - 2π·⌊x/2π + 1/2⌋.
func reduce(ed *apd.ErrDecimal, x *apd.Decimal) *apd.Decimal {
	var q apd.Decimal
	ed.Quo(&q, x, twoPi)
	ed.Add(&q, &q, half)
	ed.Floor(&q, &q)
	r := new(apd.Decimal)
	ed.Sub(r, x, ed.Mul(&q, &q, twoPi))
	return r
}

// Sin returns sin x, reducing x into [-π, π] first.
func Sin(x *apd.Decimal) (*apd.Decimal, error) {
	ed := &apd.ErrDecimal{Ctx: work}
	r := reduce(ed, x)
	var r2, n apd.Decimal
	ed.Neg(&r2, ed.Mul(&r2, r, r))
	sum := new(apd.Decimal).Set(r)
	term := new(apd.Decimal).Set(r)
	for i := int64(1); i <= MaxIterations && ed.Err() == nil; i++ {
		ed.Mul(term, term, &r2)
		ed.Quo(term, term, n.SetInt64((2*i)*(2*i+1)))
		ed.Add(sum, sum, term)
		if small(term) {
			break
		}
	}
	if err := ed.Err(); err != nil {
		return nil, errors.Wrapf(err, "sin(%s)", x)
	}
	return finish(ed, sum), nil
}

// Cos returns cos x, reducing x into [-π, π] first.
func Cos(x *apd.Decimal) (*apd.Decimal, error) {
	ed := &apd.ErrDecimal{Ctx: work}
	r := reduce(ed, x)
	var r2, n apd.Decimal
	ed.Neg(&r2, ed.Mul(&r2, r, r))
	sum := new(apd.Decimal).Set(one)
	term := new(apd.Decimal).Set(one)
	for i := int64(1); i <= MaxIterations && ed.Err() == nil; i++ {
		ed.Mul(term, term, &r2)
		ed.Quo(term, term, n.SetInt64((2*i-1)*(2*i)))
		ed.Add(sum, sum, term)
		if small(term) {
			break
		}
	}
	if err := ed.Err(); err != nil {
		return nil, errors.Wrapf(err, "cos(%s)", x)
	}
	return finish(ed, sum), nil
}

// Atan returns arctan x in [-π/2, π/2].
func Atan(x *apd.Decimal) (*apd.Decimal, error) {
	ed := &apd.ErrDecimal{Ctx: work}
	res := atan(ed, x)
	if err := ed.Err(); err != nil {
		return nil, errors.Wrapf(err, "atan(%s)", x)
	}
	return finish(ed, res), nil
}

func atan(ed *apd.ErrDecimal, x *apd.Decimal) *apd.Decimal {
	switch x.Sign() {
	case 0:
		return new(apd.Decimal)
	case -1:
		var neg apd.Decimal
		res := atan(ed, neg.Neg(x))
		return res.Neg(res)
	}
	if x.Cmp(one) > 0 {
		var inv apd.Decimal
		res := atan(ed, ed.Quo(&inv, one, x))
		return ed.Sub(res, halfPi, res)
	}
	// atan t = 2·atan(t / (1 + √(1+t²))), applied twice brings t below 0.2.
	t := new(apd.Decimal).Set(x)
	var s apd.Decimal
	for i := 0; i < 2; i++ {
		ed.Mul(&s, t, t)
		ed.Add(&s, &s, one)
		ed.Sqrt(&s, &s)
		ed.Add(&s, &s, one)
		ed.Quo(t, t, &s)
	}
	res := atanSeries(ed, t)
	return ed.Mul(res, res, apd.New(4, 0))
}

// Atan2 returns the angle of the point (x, y) in [-π, π].
func Atan2(y, x *apd.Decimal) (*apd.Decimal, error) {
	ed := &apd.ErrDecimal{Ctx: work}
	var res *apd.Decimal
	switch {
	case x.Sign() == 0 && y.Sign() == 0:
		res = new(apd.Decimal)
	case x.Sign() == 0 && y.Sign() > 0:
		res = new(apd.Decimal).Set(halfPi)
	case x.Sign() == 0:
		res = new(apd.Decimal).Neg(halfPi)
	default:
		var q apd.Decimal
		res = atan(ed, ed.Quo(&q, y, x))
		switch {
		case x.Sign() < 0 && y.Sign() >= 0:
			ed.Add(res, res, pi)
		case x.Sign() < 0:
			ed.Sub(res, res, pi)
		}
	}
	if err := ed.Err(); err != nil {
		return nil, errors.Wrapf(err, "atan2(%s, %s)", y, x)
	}
	return finish(ed, res), nil
}

// Sqrt returns √x. Negative x fails with ErrDomain.
func Sqrt(x *apd.Decimal) (*apd.Decimal, error) {
	if x.Sign() < 0 {
		return nil, errors.Wrapf(ErrDomain, "sqrt(%s)", x)
	}
	out := new(apd.Decimal)
	if _, err := Context.Sqrt(out, x); err != nil {
		return nil, errors.Wrapf(err, "sqrt(%s)", x)
	}
	return out, nil
}
