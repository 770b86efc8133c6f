package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_Parse(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{input: "1+2*3", want: "[1 2 3 * +]"},
		{input: "(1+2)*3", want: "[1 2 + 3 *]"},
		{input: "8/4/2", want: "[8 4 / 2 /]"},
		{input: "2^3^2", want: "[2 3 2 ^ ^]"},
		{input: "-3+4", want: "[3 unary - 4 +]"},
		{input: "--2", want: "[2]"},
		{input: "---2", want: "[2 unary -]"},
		{input: "+-+2", want: "[2 unary -]"},
		{input: "2^-1", want: "[2 1 unary - ^]"},
		{input: "1.5e-3*x", want: "[1.5e-3 x *]"},
		{input: "PI*E", want: "[pi e *]"},
		{input: "sin(pi/2)", want: "[pi 2 / (sin, 1)]"},
		{input: "ramp(t, 0, 1, 2)", want: "[t 0 1 2 (ramp, 4)]"},
		{input: "[1, 2, 3]", want: "[1 2 3 (vec, 3)]"},
		{input: "[x, sin(y)]", want: "[x y (sin, 1) (vec, 2)]"},
		{input: "IMPORT(inflow)", want: "[inflow (IMPORT, 1)]"},
		{input: "u_max*y", want: "[u_max y *]"},
	}
	g := NewGrammar()
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			stack := &Stack{}
			require.NoError(t, g.Parse(tc.input, stack))
			assert.Equal(t, tc.want, stack.String())
		})
	}
}

func TestGrammar_TagsCalls(t *testing.T) {
	stack := &Stack{}
	require.NoError(t, NewGrammar().Parse("round(x, 2)", stack))

	entries := stack.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Call("round", 2), entries[2])
	assert.False(t, entries[0].Tagged)
}

func TestGrammar_RejectsMalformed(t *testing.T) {
	inputs := []string{"1+*2", "(1+2", "1 2", "", "sin()", "[1,]", "1$2", "3x"}
	g := NewGrammar()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			// --- Arrange ---
			stack := &Stack{}
			stack.Push(Leaf("keep"))

			// --- Act ---
			err := g.Parse(input, stack)

			// --- Assert ---
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, 1, stack.Len(), "a failed parse must not touch the stack")
		})
	}
}

func TestStack_PopConsumes(t *testing.T) {
	stack := &Stack{}
	stack.Push(Leaf("1"))
	stack.Push(Call("vec", 1))

	e, ok := stack.Pop()
	require.True(t, ok)
	assert.Equal(t, "(vec, 1)", e.String())

	_, ok = stack.Pop()
	require.True(t, ok)
	_, ok = stack.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, stack.Len())
}
