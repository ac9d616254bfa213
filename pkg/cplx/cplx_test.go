package cplx

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
)

func TestParseBig(t *testing.T) {
	tests := []struct {
		in     string
		re, im string
	}{
		{"3", "3", "0"},
		{"-2.5", "-2.5", "0"},
		{"i", "0", "1"},
		{"-i", "0", "-1"},
		{"4I", "0", "4"},
		{"1+2i", "1", "2"},
		{"1-i", "1", "-1"},
		{"2.5e-3-4i", "0.0025", "-4"},
		{"1e+2+1e-1i", "100", "0.1"},
		{"(1, 2)", "1", "2"},
		{"(1 -2)", "1", "-2"},
		{"(7)", "7", "0"},
		{" 0.5+0.5i ", "0.5", "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBig(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.re, got.Re.Text())
			require.Equal(t, tt.im, got.Im.Text())
		})
	}

	for _, bad := range []string{"", "x", "1+xi", "(1, 2, 3)", "1,5"} {
		_, err := ParseBig(bad)
		require.Error(t, err, bad)
		var fe *bigdec.FormatError
		require.True(t, errors.As(err, &fe), bad)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"1+2i", "0.5-0.25i", "-3+0i", "0-1i"} {
		b, err := ParseBig(s)
		require.NoError(t, err)
		back, err := ParseBig(b.String())
		require.NoError(t, err)
		require.True(t, b.Equal(back), "%s -> %s", s, b.String())
	}
	require.Equal(t, "1-2i", Big{Re: bigdec.One, Im: bigdec.NewFromInt64(-2)}.String())
	require.Equal(t, "1.5+0i", NewDouble(1.5, 0).String())
}

// convert returns b in every backend.
func convert(t *testing.T, s string) (Double, Decimal, Big) {
	t.Helper()
	b, err := ParseBig(s)
	require.NoError(t, err)
	d, err := Double{}.FromBig(b)
	require.NoError(t, err)
	m, err := Decimal{}.FromBig(b)
	require.NoError(t, err)
	return d, m, b
}

func requireNear(t *testing.T, want, got complex128, tol float64) {
	t.Helper()
	require.LessOrEqual(t, cmplx.Abs(want-got), tol*math.Max(1, cmplx.Abs(want)), "want %v got %v", want, got)
}

func TestArithmeticAgrees(t *testing.T) {
	pairs := [][2]string{
		{"1+2i", "3-4i"},
		{"-0.5+0.25i", "2"},
		{"0.001-7i", "-i"},
		{"12345.678+0.5i", "-0.125+3i"},
	}
	for _, p := range pairs {
		ad, am, ab := convert(t, p[0])
		bd, bm, bb := convert(t, p[1])
		want := ad.Complex128()

		wantAdd := want + bd.Complex128()
		requireNear(t, wantAdd, ad.Add(bd).Complex128(), 1e-15)
		requireNear(t, wantAdd, am.Add(bm).Complex128(), 1e-15)
		requireNear(t, wantAdd, ab.Add(bb).Complex128(), 1e-15)

		wantSub := want - bd.Complex128()
		requireNear(t, wantSub, am.Sub(bm).Complex128(), 1e-15)
		requireNear(t, wantSub, ab.Sub(bb).Complex128(), 1e-15)

		wantMul := want * bd.Complex128()
		requireNear(t, wantMul, ad.Mul(bd).Complex128(), 1e-15)
		requireNear(t, wantMul, am.Mul(bm).Complex128(), 1e-15)
		requireNear(t, wantMul, ab.Mul(bb).Complex128(), 1e-15)

		wantDiv := want / bd.Complex128()
		qd, err := ad.Div(bd)
		require.NoError(t, err)
		requireNear(t, wantDiv, qd.Complex128(), 1e-15)
		qm, err := am.Div(bm)
		require.NoError(t, err)
		requireNear(t, wantDiv, qm.Complex128(), 1e-15)
		qb, err := ab.Div(bb)
		require.NoError(t, err)
		requireNear(t, wantDiv, qb.Complex128(), 1e-15)

		requireNear(t, -want, am.Neg().Complex128(), 0)
		requireNear(t, -want, ab.Neg().Complex128(), 0)
	}
}

func TestBigIsExact(t *testing.T) {
	// (0.1+0.2i)·(0.3-0.1i) = 0.05+0.05i with no binary rounding.
	a, err := ParseBig("0.1+0.2i")
	require.NoError(t, err)
	b, err := ParseBig("0.3-0.1i")
	require.NoError(t, err)
	require.Equal(t, "0.05+0.05i", a.Mul(b).String())
	require.Equal(t, "0.4+0.1i", a.Add(b).String())
}

func TestDivideByZero(t *testing.T) {
	_, err := Double{Re: 1}.Div(Double{})
	require.ErrorIs(t, err, bigdec.ErrDivideByZero)
	_, err = Decimal{Re: apd.New(1, 0)}.Div(Decimal{})
	require.ErrorIs(t, err, bigdec.ErrDivideByZero)
	_, err = BigFromInt64(1).Div(Big{})
	require.ErrorIs(t, err, bigdec.ErrDivideByZero)

	// 0^-1 goes through the integer path.
	_, err = Big{}.Pow(BigFromInt64(-1))
	require.ErrorIs(t, err, bigdec.ErrDivideByZero)
	_, err = Double{}.Pow(Double{Re: -0.5})
	require.ErrorIs(t, err, bigdec.ErrDivideByZero)
}

func TestPow(t *testing.T) {
	tests := []struct {
		z, w string
		want complex128
	}{
		{"1+i", "2", 2i},
		{"2", "-2", 0.25},
		{"1+2i", "3", complex(-11, -2)},
		{"-1", "0.5", 1i},
		{"2", "0.5", complex(math.Sqrt2, 0)},
		{"i", "i", complex(math.Exp(-math.Pi/2), 0)},
		{"3-4i", "1.5+0.5i", cmplx.Pow(3-4i, 1.5+0.5i)},
		{"0", "2.5", 0},
		{"0", "0", 1},
		{"5", "0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.z+"^"+tt.w, func(t *testing.T) {
			zd, zm, zb := convert(t, tt.z)
			wd, wm, wb := convert(t, tt.w)

			gd, err := zd.Pow(wd)
			require.NoError(t, err)
			requireNear(t, tt.want, gd.Complex128(), 1e-12)

			gm, err := zm.Pow(wm)
			require.NoError(t, err)
			requireNear(t, tt.want, gm.Complex128(), 1e-14)

			gb, err := zb.Pow(wb)
			require.NoError(t, err)
			requireNear(t, tt.want, gb.Complex128(), 1e-14)
		})
	}
}

func TestBigPowKeepsPrecision(t *testing.T) {
	defer bigdec.SetPrecision(bigdec.Precision())
	bigdec.SetPrecision(60)

	// √2 to 60 digits, compared by digits rather than through float64.
	got, err := BigFromInt64(2).Pow(Big{Re: bigdec.MustParse("0.5")})
	require.NoError(t, err)
	want := bigdec.MustParse("1.41421356237309504880168872420969807856967187537694807317667")
	diff := got.Re.Sub(want).Abs()
	require.True(t, diff.Cmp(bigdec.MustParse("1e-55")) < 0, "got %s", got.Re.Text())
	require.True(t, got.Im.Abs().Cmp(bigdec.MustParse("1e-55")) < 0)
}

func TestFromBigOverflow(t *testing.T) {
	huge := Big{Re: bigdec.MustParse("1e400")}
	_, err := Double{}.FromBig(huge)
	var oe *bigdec.OverflowError
	require.True(t, errors.As(err, &oe))
	require.Equal(t, "float64", oe.Target)

	_, err = Decimal{}.FromBig(huge)
	require.True(t, errors.As(err, &oe))

	fine := Big{Im: bigdec.MustParse("0.1234567890123456789012345678")}
	d, err := Decimal{}.FromBig(fine)
	require.NoError(t, err)
	require.Equal(t, "0+0.1234567890123456789012345678i", d.String())

	_, err = Decimal{}.FromBig(Big{Re: bigdec.MustParse("1e-29")})
	require.True(t, errors.As(err, &oe))
	require.Equal(t, "decimal scale", oe.Target)
}

func TestImaginaryUnit(t *testing.T) {
	requireNear(t, 1i, Double{}.ImaginaryUnit().Complex128(), 0)
	requireNear(t, 1i, Decimal{}.ImaginaryUnit().Complex128(), 0)
	require.True(t, Big{}.ImaginaryUnit().Equal(Big{Im: bigdec.One}))

	ii := Big{}.ImaginaryUnit().Mul(Big{}.ImaginaryUnit())
	require.True(t, ii.Equal(BigFromInt64(-1)))
	require.True(t, Decimal{}.IsZero())
}
