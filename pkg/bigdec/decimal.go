// Package bigdec implements an immutable arbitrary-precision decimal.
//
// A Decimal is Mantissa × 10^Exponent. Every constructor and operation
// returns a value in canonical form: the mantissa is not divisible by ten
// unless it is zero, and zero always has exponent 0. Canonical form makes
// Equal and String stable, so the String of a Decimal can be used as a map key.
//
// Values are never mutated after construction, so they can be shared
// freely between goroutines.
package bigdec

import (
	"math/big"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// DefaultPrecision is the number of significant digits Div guarantees
// unless SetPrecision is called.
const DefaultPrecision = 100

var precision atomic.Int64

func init() {
	precision.Store(DefaultPrecision)
}

// Precision returns the process-wide digit budget used by Div and by the
// transcendental functions.
func Precision() int {
	return int(precision.Load())
}

// SetPrecision changes the process-wide digit budget. Changing it while
// other goroutines are dividing makes their results use either budget,
// so call it before starting any parallel work.
func SetPrecision(digits int) {
	if digits < 1 {
		digits = 1
	}
	precision.Store(int64(digits))
}

// ErrDivideByZero is returned when dividing by a zero mantissa.
var ErrDivideByZero = errors.New("division by zero")

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

// Decimal is an arbitrary-precision decimal number. The zero value is 0.
type Decimal struct {
	mant *big.Int
	exp  int
}

// Zero and One are convenience constants.
var (
	Zero = Decimal{}
	One  = NewFromInt64(1)
)

// New returns mant × 10^exp in canonical form. mant is copied.
func New(mant *big.Int, exp int) Decimal {
	if mant == nil {
		return Decimal{}
	}
	return normalize(new(big.Int).Set(mant), exp)
}

// NewFromInt64 returns v as a Decimal.
func NewFromInt64(v int64) Decimal {
	return normalize(big.NewInt(v), 0)
}

// normalize takes ownership of m and strips trailing decimal zeros.
func normalize(m *big.Int, exp int) Decimal {
	if m.Sign() == 0 {
		return Decimal{}
	}
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(m, bigTen, r)
		if r.Sign() != 0 {
			break
		}
		m, q = q, m
		exp++
	}
	return Decimal{mant: m, exp: exp}
}

func (d Decimal) mantissa() *big.Int {
	if d.mant == nil {
		return new(big.Int)
	}
	return d.mant
}

// Normalize returns d in canonical form. Values built by this package are
// already canonical; Normalize exists so callers can be explicit.
func (d Decimal) Normalize() Decimal {
	if d.mant == nil {
		return Decimal{}
	}
	return New(d.mant, d.exp)
}

// Mantissa returns a copy of the mantissa.
func (d Decimal) Mantissa() *big.Int {
	return new(big.Int).Set(d.mantissa())
}

// Exponent returns the power of ten the mantissa is scaled by.
func (d Decimal) Exponent() int {
	return d.exp
}

// Sign returns -1, 0 or +1.
func (d Decimal) Sign() int {
	return d.mantissa().Sign()
}

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool {
	return d.Sign() == 0
}

// IsInteger reports whether d has no fractional part.
func (d Decimal) IsInteger() bool {
	return d.exp >= 0 || d.IsZero()
}

// NumDigits returns the number of decimal digits in the mantissa.
func (d Decimal) NumDigits() int {
	if d.IsZero() {
		return 1
	}
	return numDigits(d.mant)
}

func numDigits(m *big.Int) int {
	s := m.Text(10)
	if s[0] == '-' {
		return len(s) - 1
	}
	return len(s)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// align returns the mantissas of a and b scaled to the smaller of the two
// exponents, along with that exponent.
func align(a, b Decimal) (*big.Int, *big.Int, int) {
	am, bm := a.mantissa(), b.mantissa()
	switch {
	case a.exp == b.exp:
		return am, bm, a.exp
	case a.exp > b.exp:
		return new(big.Int).Mul(am, pow10(a.exp-b.exp)), bm, b.exp
	default:
		return am, new(big.Int).Mul(bm, pow10(b.exp-a.exp)), a.exp
	}
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) Decimal {
	if o.IsZero() {
		return d
	}
	if d.IsZero() {
		return o
	}
	am, bm, exp := align(d, o)
	return normalize(new(big.Int).Add(am, bm), exp)
}

// Sub returns d - o.
func (d Decimal) Sub(o Decimal) Decimal {
	if o.IsZero() {
		return d
	}
	am, bm, exp := align(d, o)
	return normalize(new(big.Int).Sub(am, bm), exp)
}

// Mul returns d × o.
func (d Decimal) Mul(o Decimal) Decimal {
	if d.IsZero() || o.IsZero() {
		return Decimal{}
	}
	return normalize(new(big.Int).Mul(d.mant, o.mant), d.exp+o.exp)
}

// Div returns d / o with at least Precision() significant digits.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	return d.DivPrec(o, Precision())
}

// DivPrec returns d / o with at least digits significant digits. The
// quotient is truncated toward zero.
func (d Decimal) DivPrec(o Decimal, digits int) (Decimal, error) {
	if o.IsZero() {
		return Decimal{}, ErrDivideByZero
	}
	if d.IsZero() {
		return Decimal{}, nil
	}
	shift := digits
	if extra := digits + numDigits(o.mant) - numDigits(d.mant) + 1; extra > shift {
		shift = extra
	}
	num := new(big.Int).Mul(d.mant, pow10(shift))
	return normalize(num.Quo(num, o.mant), d.exp-o.exp-shift), nil
}

// MustDiv is Div for divisors known to be non-zero.
func (d Decimal) MustDiv(o Decimal) Decimal {
	q, err := d.Div(o)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "bigdec: MustDiv"))
	}
	return q
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	if d.IsZero() {
		return d
	}
	return Decimal{mant: new(big.Int).Neg(d.mant), exp: d.exp}
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	if d.Sign() >= 0 {
		return d
	}
	return d.Neg()
}

// Cmp compares d and o and returns -1, 0 or +1. Signs are compared first,
// then the mantissas at a common exponent.
func (d Decimal) Cmp(o Decimal) int {
	ds, os := d.Sign(), o.Sign()
	switch {
	case ds < os:
		return -1
	case ds > os:
		return 1
	case ds == 0:
		return 0
	}
	am, bm, _ := align(d, o)
	return am.Cmp(bm)
}

// Equal reports whether d and o represent the same number.
func (d Decimal) Equal(o Decimal) bool {
	return d.exp == o.exp && d.mantissa().Cmp(o.mantissa()) == 0
}

// Truncate returns d cut down to at most digits significant digits,
// rounding toward zero.
func (d Decimal) Truncate(digits int) Decimal {
	if digits < 1 {
		digits = 1
	}
	n := d.NumDigits()
	if d.IsZero() || n <= digits {
		return d
	}
	drop := n - digits
	return normalize(new(big.Int).Quo(d.mant, pow10(drop)), d.exp+drop)
}

// TruncateScale drops fractional digits beyond scale, toward zero.
func (d Decimal) TruncateScale(scale int) Decimal {
	if d.IsZero() || d.exp >= -scale {
		return d
	}
	drop := -scale - d.exp
	return normalize(new(big.Int).Quo(d.mant, pow10(drop)), -scale)
}

// IntPart returns d truncated toward zero to an integer.
func (d Decimal) IntPart() *big.Int {
	if d.exp >= 0 {
		return new(big.Int).Mul(d.mantissa(), pow10(d.exp))
	}
	return new(big.Int).Quo(d.mantissa(), pow10(-d.exp))
}

// Round returns d rounded half away from zero to the nearest integer.
func (d Decimal) Round() *big.Int {
	if d.IsInteger() {
		return d.IntPart()
	}
	half := Decimal{mant: big.NewInt(5), exp: -1}
	if d.Sign() < 0 {
		return d.Sub(half).IntPart()
	}
	return d.Add(half).IntPart()
}

// Int64 returns d as an int64 if it is an integer that fits.
func (d Decimal) Int64() (int64, bool) {
	if !d.IsInteger() {
		return 0, false
	}
	i := d.IntPart()
	if !i.IsInt64() {
		return 0, false
	}
	return i.Int64(), true
}
