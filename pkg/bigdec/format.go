package bigdec

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// FormatError reports a malformed numeric literal.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid decimal %q: %s", e.Input, e.Reason)
}

// OverflowError reports a value that does not fit a fixed-precision target.
type OverflowError struct {
	Value  string
	Target string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s overflows %s", e.Value, e.Target)
}

// Parse reads an optional sign, an integer part, an optional fractional
// part and an optional e/E exponent: "-12.5", ".5", "3.", "125e-2", "1E+3".
func Parse(s string) (Decimal, error) {
	fail := func(reason string) (Decimal, error) {
		return Decimal{}, &FormatError{Input: s, Reason: reason}
	}
	str := s
	neg := false
	if str != "" && (str[0] == '+' || str[0] == '-') {
		neg = str[0] == '-'
		str = str[1:]
	}

	mantPart, expPart := str, ""
	if i := strings.IndexAny(str, "eE"); i >= 0 {
		mantPart, expPart = str[:i], str[i+1:]
		if expPart == "" {
			return fail("missing exponent")
		}
	}

	intPart, fracPart := mantPart, ""
	if i := strings.IndexByte(mantPart, '.'); i >= 0 {
		intPart, fracPart = mantPart[:i], mantPart[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return fail("no digits")
	}
	digits := intPart + fracPart
	for _, c := range digits {
		if c < '0' || c > '9' {
			return fail(fmt.Sprintf("unexpected character %q", c))
		}
	}

	exp := 0
	if expPart != "" {
		e, err := strconv.Atoi(expPart)
		if err != nil {
			return fail("bad exponent " + strconv.Quote(expPart))
		}
		exp = e
	}

	m, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return fail("bad mantissa")
	}
	if neg {
		m.Neg(m)
	}
	return normalize(m, exp-len(fracPart)), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewFromFloat64 returns the shortest decimal that round-trips to f.
func NewFromFloat64(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, &FormatError{Input: strconv.FormatFloat(f, 'g', -1, 64), Reason: "not finite"}
	}
	return Parse(strconv.FormatFloat(f, 'e', -1, 64))
}

// String returns the canonical form <mantissa>e<exponent>, e.g. "125e-2".
func (d Decimal) String() string {
	return d.mantissa().String() + "e" + strconv.Itoa(d.exp)
}

// ScientificString returns d as d.ddd…e<exp>, e.g. "1.25e0".
func (d Decimal) ScientificString() string {
	if d.IsZero() {
		return "0e0"
	}
	s := d.mant.String()
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	exp := d.exp + len(s) - 1
	if len(s) == 1 {
		return sign + s + "e" + strconv.Itoa(exp)
	}
	return sign + s[:1] + "." + s[1:] + "e" + strconv.Itoa(exp)
}

// Text returns d in plain positional notation, e.g. "0.0125" or "1200".
func (d Decimal) Text() string {
	if d.IsZero() {
		return "0"
	}
	s := d.mant.String()
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	switch {
	case d.exp >= 0:
		return sign + s + strings.Repeat("0", d.exp)
	case -d.exp < len(s):
		p := len(s) + d.exp
		return sign + s[:p] + "." + s[p:]
	default:
		return sign + "0." + strings.Repeat("0", -d.exp-len(s)) + s
	}
}

// Float64 returns the nearest float64 to d.
func (d Decimal) Float64() float64 {
	// ParseFloat saturates to ±Inf or 0 on range errors.
	f, _ := strconv.ParseFloat(d.String(), 64)
	return f
}

// MaxApdScale and maxApd bound what ToApd accepts: the range of a 96-bit
// scaled decimal with at most 28 fractional digits.
const MaxApdScale = 28

var maxApd = MustParse("79228162514264337593543950335")

// ToApd narrows d to a fixed-precision decimal. It fails with an
// *OverflowError if |d| exceeds 79228162514264337593543950335 or d has
// more than 28 fractional digits.
func (d Decimal) ToApd() (*apd.Decimal, error) {
	if d.Abs().Cmp(maxApd) > 0 {
		return nil, &OverflowError{Value: d.ScientificString(), Target: "decimal range"}
	}
	if d.exp < -MaxApdScale {
		return nil, &OverflowError{Value: d.ScientificString(), Target: "decimal scale"}
	}
	m := d.mantissa()
	out := apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(new(big.Int).Abs(m)), int32(d.exp))
	out.Negative = m.Sign() < 0
	return out, nil
}

// FromApd converts a finite apd decimal.
func FromApd(x *apd.Decimal) (Decimal, error) {
	if x.Form != apd.Finite {
		return Decimal{}, &FormatError{Input: x.String(), Reason: "not finite"}
	}
	m := new(big.Int).Set(x.Coeff.MathBigInt())
	if x.Negative {
		m.Neg(m)
	}
	return normalize(m, int(x.Exponent)), nil
}

// MustFromApd is FromApd for values known to be finite.
func MustFromApd(x *apd.Decimal) Decimal {
	d, err := FromApd(x)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "bigdec: MustFromApd"))
	}
	return d
}
