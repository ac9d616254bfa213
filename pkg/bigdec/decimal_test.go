package bigdec

import (
	"math/big"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		in, str, sci, text string
	}{
		{"-12.5", "-125e-1", "-1.25e1", "-12.5"},
		{"1200", "12e2", "1.2e3", "1200"},
		{"0.0125", "125e-4", "1.25e-2", "0.0125"},
		{"0", "0e0", "0e0", "0"},
		{"-0.000", "0e0", "0e0", "0"},
		{"1E+3", "1e3", "1e3", "1000"},
		{".5", "5e-1", "5e-1", "0.5"},
		{"3.", "3e0", "3e0", "3"},
		{"+7e-2", "7e-2", "7e-2", "0.07"},
		{"123456789012345678901234567890", "12345678901234567890123456789e1",
			"1.2345678901234567890123456789e29", "123456789012345678901234567890"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.str, d.String(), tt.in)
		require.Equal(t, tt.sci, d.ScientificString(), tt.in)
		require.Equal(t, tt.text, d.Text(), tt.in)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "-", "1e", "abc", "1.2.3", "e5", "1e2.5", "--1", "1,5", "."} {
		_, err := Parse(in)
		var fe *FormatError
		require.True(t, errors.As(err, &fe), "Parse(%q) = %v", in, err)
		require.Equal(t, in, fe.Input)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	for _, lit := range []string{"1", "10", "0.1", "-250.0500", "1e-40", "3.14159e100", "0"} {
		x := MustParse(lit)
		back, err := Parse(x.String())
		require.NoError(t, err)
		require.True(t, back.Normalize().Equal(x.Normalize()), lit)

		back, err = Parse(x.ScientificString())
		require.NoError(t, err)
		require.True(t, back.Equal(x), lit)
	}

	d := New(big.NewInt(1500), -2)
	require.Equal(t, "15", d.Mantissa().String())
	require.Equal(t, 0, d.Exponent())
	require.Equal(t, Zero, New(big.NewInt(0), 7))
}

func randomDecimal(rng *rand.Rand) Decimal {
	m := new(big.Int).Rand(rng, pow10(1+rng.Intn(40)))
	if rng.Intn(2) == 0 {
		m.Neg(m)
	}
	return New(m, rng.Intn(61)-30)
}

func TestAddSubInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a, b := randomDecimal(rng), randomDecimal(rng)
		require.True(t, a.Add(b).Sub(b).Equal(a), "a=%s b=%s", a, b)
		require.True(t, a.Add(b).Equal(b.Add(a)))
		require.True(t, a.Mul(b).Equal(b.Mul(a)))
	}
}

func TestCmpTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vals := []Decimal{Zero, One, One.Neg(), MustParse("0.5"), MustParse("5e-1"), MustParse("-1e-30")}
	for i := 0; i < 60; i++ {
		vals = append(vals, randomDecimal(rng))
	}
	for _, a := range vals {
		for _, b := range vals {
			c := a.Cmp(b)
			require.Equal(t, -c, b.Cmp(a), "%s vs %s", a, b)
			require.Equal(t, c == 0, a.Equal(b), "%s vs %s", a, b)
			require.Equal(t, c, a.Sub(b).Sign(), "%s vs %s", a, b)
		}
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].Cmp(vals[j]) < 0 })
	for i := 1; i < len(vals); i++ {
		require.LessOrEqual(t, vals[i-1].Cmp(vals[i]), 0)
	}
}

func TestDiv(t *testing.T) {
	q, err := One.DivPrec(NewFromInt64(3), 20)
	require.NoError(t, err)
	require.Equal(t, "0."+strings.Repeat("3", 21), q.Text())

	q, err = NewFromInt64(10).Div(NewFromInt64(4))
	require.NoError(t, err)
	require.Equal(t, "2.5", q.Text())

	q, err = MustParse("-1e50").Div(MustParse("7e-3"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, q.NumDigits(), Precision())
	require.Equal(t, -1, q.Sign())

	_, err = One.Div(Zero)
	require.ErrorIs(t, err, ErrDivideByZero)

	q, err = Zero.Div(One)
	require.NoError(t, err)
	require.True(t, q.IsZero())
}

func TestPrecision(t *testing.T) {
	defer SetPrecision(Precision())
	SetPrecision(5)
	q := One.MustDiv(NewFromInt64(7))
	require.GreaterOrEqual(t, q.NumDigits(), 5)
	require.Less(t, q.NumDigits(), 10)
	SetPrecision(0)
	require.Equal(t, 1, Precision())
}

func TestTruncateAndRound(t *testing.T) {
	require.Equal(t, "123000", MustParse("123456").Truncate(3).Text())
	require.Equal(t, "-0.98", MustParse("-0.98765").Truncate(2).Text())
	require.Equal(t, "1.23", MustParse("1.23456").TruncateScale(2).Text())
	require.Equal(t, "-1.23", MustParse("-1.239").TruncateScale(2).Text())
	require.Equal(t, "1200", MustParse("1200").TruncateScale(2).Text())

	for in, want := range map[string]int64{"2.5": 3, "-2.5": -3, "2.4": 2, "-2.4": -2, "7": 7} {
		require.Equal(t, want, MustParse(in).Round().Int64(), in)
	}

	n, ok := MustParse("12e2").Int64()
	require.True(t, ok)
	require.Equal(t, int64(1200), n)
	_, ok = MustParse("1.5").Int64()
	require.False(t, ok)
	_, ok = MustParse("1e30").Int64()
	require.False(t, ok)
}

func TestFloat64(t *testing.T) {
	require.Equal(t, 1.25, MustParse("1.25").Float64())
	require.Equal(t, -3e-200, MustParse("-3e-200").Float64())

	d, err := NewFromFloat64(0.1)
	require.NoError(t, err)
	require.Equal(t, "0.1", d.Text())
	_, err = NewFromFloat64(1.0 / zeroFloat)
	require.Error(t, err)
}

var zeroFloat float64

func TestApd(t *testing.T) {
	max := MustParse("79228162514264337593543950335")
	a, err := max.ToApd()
	require.NoError(t, err)
	require.Equal(t, "79228162514264337593543950335", a.String())
	back, err := FromApd(a)
	require.NoError(t, err)
	require.True(t, back.Equal(max))

	var oe *OverflowError
	_, err = max.Add(One).ToApd()
	require.True(t, errors.As(err, &oe))
	_, err = max.Add(One).Neg().ToApd()
	require.True(t, errors.As(err, &oe))
	_, err = MustParse("1e-29").ToApd()
	require.True(t, errors.As(err, &oe))

	a, err = MustParse("-1e-28").ToApd()
	require.NoError(t, err)
	require.True(t, a.Negative)

	_, err = FromApd(&apd.Decimal{Form: apd.Infinite})
	require.Error(t, err)
}
