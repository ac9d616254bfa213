package bigdec

import (
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrDomain is returned by functions evaluated outside their real domain.
var ErrDomain = errors.New("argument out of domain")

// guardDigits are carried on top of Precision() inside series loops.
const guardDigits = 10

var (
	two  = NewFromInt64(2)
	half = Decimal{mant: big.NewInt(5), exp: -1}
)

func workPrec() int {
	return Precision() + guardDigits
}

// maxTerms caps every series so a slowly converging argument cannot spin
// forever; past the cap the result is returned as is.
func maxTerms(prec int) int {
	return 4*prec + 100
}

func epsilon(prec int) Decimal {
	return Decimal{mant: big.NewInt(1), exp: -prec}
}

// quo divides by a divisor the caller knows is non-zero.
func quo(a, b Decimal, prec int) Decimal {
	q, err := a.DivPrec(b, prec)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "bigdec: series divisor"))
	}
	return q.Truncate(prec)
}

// magnitude returns the number of digits left of the decimal point.
func magnitude(d Decimal) int {
	if n := d.NumDigits() + d.exp; n > 0 {
		return n
	}
	return 0
}

type constCache struct {
	mu     sync.Mutex
	values map[int]Decimal
	fn     func(prec int) Decimal
}

func (c *constCache) get(prec int) Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[prec]; ok {
		return v
	}
	if c.values == nil {
		c.values = make(map[int]Decimal)
	}
	v := c.fn(prec)
	c.values[prec] = v
	return v
}

var (
	piCache   = &constCache{fn: computePi}
	ln2Cache  = &constCache{fn: computeLn2}
	ln10Cache = &constCache{fn: computeLn10}
)

// computePi uses Machin's formula π = 16·atan(1/5) - 4·atan(1/239).
func computePi(prec int) Decimal {
	a := atanSeries(quo(One, NewFromInt64(5), prec), prec)
	b := atanSeries(quo(One, NewFromInt64(239), prec), prec)
	return a.Mul(NewFromInt64(16)).Sub(b.Mul(NewFromInt64(4))).Truncate(prec)
}

// ln 2 = 2·atanh(1/3)
func computeLn2(prec int) Decimal {
	return atanhSeries(quo(One, NewFromInt64(3), prec), prec).Mul(two).Truncate(prec)
}

// ln 10 = 3·ln 2 + ln(5/4) = 3·ln 2 + 2·atanh(1/9)
func computeLn10(prec int) Decimal {
	l := atanhSeries(quo(One, NewFromInt64(9), prec), prec).Mul(two)
	return ln2Cache.get(prec).Mul(NewFromInt64(3)).Add(l).Truncate(prec)
}

// Pi returns π to Precision() digits.
func Pi() Decimal {
	return piCache.get(workPrec()).Truncate(Precision())
}

// atanSeries sums x - x³/3 + x⁵/5 - … for small |x|.
func atanSeries(x Decimal, prec int) Decimal {
	x2 := x.Mul(x).Truncate(prec)
	eps := epsilon(prec)
	sum, pow := x, x
	for k := 1; k < maxTerms(prec); k++ {
		pow = pow.Mul(x2).Neg().Truncate(prec)
		term := quo(pow, NewFromInt64(int64(2*k+1)), prec)
		sum = sum.Add(term).Truncate(prec)
		if term.Abs().Cmp(eps) < 0 {
			break
		}
	}
	return sum
}

// atanhSeries sums x + x³/3 + x⁵/5 + … for small |x|.
func atanhSeries(x Decimal, prec int) Decimal {
	x2 := x.Mul(x).Truncate(prec)
	eps := epsilon(prec)
	sum, pow := x, x
	for k := 1; k < maxTerms(prec); k++ {
		pow = pow.Mul(x2).Truncate(prec)
		term := quo(pow, NewFromInt64(int64(2*k+1)), prec)
		sum = sum.Add(term).Truncate(prec)
		if term.Abs().Cmp(eps) < 0 {
			break
		}
	}
	return sum
}

// Sqrt returns √x to Precision() digits.
func Sqrt(x Decimal) (Decimal, error) {
	switch x.Sign() {
	case -1:
		return Decimal{}, errors.Wrapf(ErrDomain, "sqrt of %s", x.ScientificString())
	case 0:
		return Decimal{}, nil
	}
	return sqrt(x, workPrec()).Truncate(Precision()), nil
}

func sqrt(x Decimal, prec int) Decimal {
	shift := 2*prec - x.NumDigits() + 2
	if shift < 0 {
		shift = 0
	}
	if (x.exp-shift)%2 != 0 {
		shift++
	}
	m := new(big.Int).Mul(x.mant, pow10(shift))
	return normalize(m.Sqrt(m), (x.exp-shift)/2)
}

// Exp returns e^x to Precision() digits.
func Exp(x Decimal) Decimal {
	if x.IsZero() {
		return One
	}
	// e^x = (e^(x/2^k))^(2^k) with |x/2^k| <= 1/2
	k := 0
	r := x
	for r.Abs().Cmp(half) > 0 {
		r = r.Mul(half)
		k++
	}
	prec := workPrec() + k/3 + 1
	r = r.Truncate(prec)

	eps := epsilon(prec)
	sum, term := One, One
	for n := 1; n < maxTerms(prec); n++ {
		term = quo(term.Mul(r), NewFromInt64(int64(n)), prec)
		sum = sum.Add(term).Truncate(prec)
		if term.Abs().Cmp(eps) < 0 {
			break
		}
	}
	for ; k > 0; k-- {
		sum = sum.Mul(sum).Truncate(prec)
	}
	return sum.Truncate(Precision())
}

// Ln returns the natural logarithm of x to Precision() digits.
func Ln(x Decimal) (Decimal, error) {
	if x.Sign() <= 0 {
		return Decimal{}, errors.Wrapf(ErrDomain, "ln of %s", x.ScientificString())
	}
	prec := workPrec()

	// x = y × 10^e with y in [1, 10)
	e := x.NumDigits() - 1 + x.exp
	y := Decimal{mant: x.mant, exp: x.exp - e}

	// y = w × 2^k with w in [1, 1.5]
	k := 0
	limit := MustParse("1.5")
	for y.Cmp(limit) > 0 {
		y = y.Mul(half)
		k++
	}

	t := quo(y.Sub(One), y.Add(One), prec)
	res := atanhSeries(t, prec).Mul(two)
	if k != 0 {
		res = res.Add(ln2Cache.get(prec).Mul(NewFromInt64(int64(k))))
	}
	if e != 0 {
		res = res.Add(ln10Cache.get(prec).Mul(NewFromInt64(int64(e))))
	}
	return res.Truncate(Precision()), nil
}

// reduceAngle maps x into [-π, π].
func reduceAngle(x Decimal, prec int) Decimal {
	twoPi := piCache.get(prec).Mul(two)
	n := quo(x, twoPi, prec).Round()
	if n.Sign() == 0 {
		return x
	}
	return x.Sub(twoPi.Mul(New(n, 0))).Truncate(prec)
}

// Sin returns sin x to Precision() digits.
func Sin(x Decimal) Decimal {
	prec := workPrec() + magnitude(x)
	r := reduceAngle(x, prec)
	r2 := r.Mul(r).Truncate(prec)
	eps := epsilon(prec)
	sum, term := r, r
	for n := 1; n < maxTerms(prec); n++ {
		term = quo(term.Mul(r2).Neg(), NewFromInt64(int64((2*n)*(2*n+1))), prec)
		sum = sum.Add(term).Truncate(prec)
		if term.Abs().Cmp(eps) < 0 {
			break
		}
	}
	return sum.Truncate(Precision())
}

// Cos returns cos x to Precision() digits.
func Cos(x Decimal) Decimal {
	prec := workPrec() + magnitude(x)
	r := reduceAngle(x, prec)
	r2 := r.Mul(r).Truncate(prec)
	eps := epsilon(prec)
	sum, term := One, One
	for n := 1; n < maxTerms(prec); n++ {
		term = quo(term.Mul(r2).Neg(), NewFromInt64(int64((2*n-1)*(2*n))), prec)
		sum = sum.Add(term).Truncate(prec)
		if term.Abs().Cmp(eps) < 0 {
			break
		}
	}
	return sum.Truncate(Precision())
}

// Atan returns arctan x to Precision() digits.
func Atan(x Decimal) Decimal {
	return atan(x, workPrec()).Truncate(Precision())
}

func atan(x Decimal, prec int) Decimal {
	switch x.Sign() {
	case 0:
		return Decimal{}
	case -1:
		return atan(x.Neg(), prec).Neg()
	}
	if x.Cmp(One) > 0 {
		halfPi := piCache.get(prec).Mul(half)
		return halfPi.Sub(atan(quo(One, x, prec), prec)).Truncate(prec)
	}
	// atan x = 2·atan(x / (1 + √(1+x²))), applied twice brings x below 0.2.
	for i := 0; i < 2; i++ {
		x = quo(x, One.Add(sqrt(One.Add(x.Mul(x)), prec)), prec)
	}
	return atanSeries(x, prec).Mul(NewFromInt64(4)).Truncate(prec)
}

// Atan2 returns the angle of the point (x, y) in [-π, π].
func Atan2(y, x Decimal) Decimal {
	prec := workPrec()
	pi := piCache.get(prec)
	var res Decimal
	switch {
	case x.Sign() > 0:
		res = atan(quo(y, x, prec), prec)
	case x.Sign() < 0 && y.Sign() >= 0:
		res = atan(quo(y, x, prec), prec).Add(pi)
	case x.Sign() < 0:
		res = atan(quo(y, x, prec), prec).Sub(pi)
	case y.Sign() > 0:
		res = pi.Mul(half)
	case y.Sign() < 0:
		res = pi.Mul(half).Neg()
	}
	return res.Truncate(Precision())
}
