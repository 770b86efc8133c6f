package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryOf_FoldsConstants(t *testing.T) {
	e, err := BinaryOf('*', Num(3), Num(4))
	require.NoError(t, err)
	assert.Equal(t, Num(12), e)
}

func TestBinaryOf_DropsIdentities(t *testing.T) {
	testCases := []struct {
		name string
		op   byte
		l, r Expr
		want Expr
	}{
		{name: "zero plus", op: '+', l: Num(0), r: X, want: X},
		{name: "minus zero", op: '-', l: Y, r: Num(0), want: Y},
		{name: "one times", op: '*', l: Num(1), r: Z, want: Z},
		{name: "divided by one", op: '/', l: X, r: Num(1), want: X},
		{name: "power one", op: '^', l: X, r: Num(1), want: X},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BinaryOf(tc.op, tc.l, tc.r)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBinaryOf_UnknownOperator(t *testing.T) {
	_, err := BinaryOf('%', X, Y)
	assert.ErrorContains(t, err, "unknown operator")
}

func TestBinary_EvalAndString(t *testing.T) {
	e, err := BinaryOf('+', X, Num(2))
	require.NoError(t, err)
	e, err = BinaryOf('*', e, Y)
	require.NoError(t, err)

	assert.Equal(t, 15.0, e.Eval(Point{X: 1, Y: 5}))
	assert.Equal(t, "((x + 2) * y)", e.String())
}

func TestNeg(t *testing.T) {
	assert.Equal(t, Num(-2), Neg(Num(2)))
	assert.Equal(t, X, Neg(Neg(X)))
	assert.Equal(t, -4.0, Neg(X).Eval(Point{X: 4}))
}

func TestParam_UpdatesWithoutRebuilding(t *testing.T) {
	p := NewParam("t", 1)
	e, err := BinaryOf('*', p, Num(10))
	require.NoError(t, err)
	assert.Equal(t, 10.0, e.Eval(Point{}))

	p.Set(2.5)
	assert.Equal(t, 25.0, e.Eval(Point{}))
	assert.Equal(t, "(t * 10)", e.String())
}

func TestSign(t *testing.T) {
	assert.Equal(t, 0.0, Sign(0))
	assert.Equal(t, 0.0, Sign(1e-13))
	assert.Equal(t, 0.0, Sign(-1e-13))
	assert.Equal(t, 1.0, Sign(1e-11))
	assert.Equal(t, -1.0, Sign(-3))
}

func TestRamp(t *testing.T) {
	assert.Equal(t, 2.0, Ramp(-1, 2, 5, 1))
	assert.Equal(t, 5.0, Ramp(3, 2, 5, 1))
	assert.InDelta(t, 3.5, Ramp(0.5, 2, 5, 1), 1e-12)
}

func TestHeaviside(t *testing.T) {
	assert.InDelta(t, 0.5, Heaviside(0), 1e-12)
	assert.InDelta(t, 1.0, Heaviside(50), 1e-9)
	assert.Equal(t, 1.0, Heaviside(800))
	assert.Equal(t, 0.0, Heaviside(-1000))
}

func TestRoundEven(t *testing.T) {
	assert.Equal(t, 2.0, RoundEven(2.5, 0))
	assert.Equal(t, 4.0, RoundEven(3.5, 0))
	assert.InDelta(t, 1.23, RoundEven(1.234, 2), 1e-12)
}

func TestCallOf(t *testing.T) {
	t.Run("constant arguments fold", func(t *testing.T) {
		e, err := CallOf("abs", Num(-2))
		require.NoError(t, err)
		assert.Equal(t, Num(2), e)
	})

	t.Run("symbolic arguments build a call", func(t *testing.T) {
		e, err := CallOf("sin", X)
		require.NoError(t, err)
		assert.Equal(t, "sin(x)", e.String())
		assert.InDelta(t, 1.0, e.Eval(Point{X: math.Pi / 2}), 1e-12)
	})

	t.Run("ramp defaults", func(t *testing.T) {
		e, err := CallOf("ramp", NewParam("t", 0.5))
		require.NoError(t, err)
		assert.InDelta(t, 0.5, e.Eval(Point{}), 1e-12)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := CallOf("nope", X)
		assert.ErrorContains(t, err, "unknown function")

		_, err = CallOf("sin", X, Y)
		assert.ErrorContains(t, err, "takes 1 to 1 arguments")
	})
}

func TestVector(t *testing.T) {
	v := VectorOf(Num(1), X)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []float64{1, 7}, v.Eval(Point{X: 7}))
	assert.Equal(t, "[1, x]", v.String())

	_, ok := v.Constant()
	assert.False(t, ok)

	c, ok := VectorOf(Num(1), Num(2)).Constant()
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, c)

	_, err := v.Zip(VectorOf(Num(1)), func(a, b Expr) (Expr, error) { return BinaryOf('+', a, b) })
	assert.ErrorContains(t, err, "length mismatch")
}
