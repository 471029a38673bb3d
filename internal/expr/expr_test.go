package expr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/bigcalc/internal/bigint"
	apperrors "github.com/agbru/bigcalc/internal/errors"
)

func mustBig(t *testing.T, s string) *bigint.Int {
	t.Helper()
	z := bigint.New()
	require.NoError(t, z.SetString(s))
	return z
}

func TestEval(t *testing.T) {
	t.Parallel()
	env := Env{
		"x": mustBig(t, "100000000000000000000"),
		"y": mustBig(t, "-3"),
	}
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 - 4 - 3", "3"},
		{"2 ^ 3 ^ 2", "512"},
		{"-2 ^ 2", "-4"},
		{"(-2) ^ 3", "-8"},
		{"--5", "5"},
		{"+5", "5"},
		{"2^100", "1267650600228229401496703205376"},
		{"-7 / 2", "-4"},
		{"7 / -2", "-4"},
		{"-7 % 2", "1"},
		{"7 % -2", "-1"},
		{"10^30 / 7", "142857142857142857142857142857"},
		{"10^30 % 7", "1"},
		{"1.5e3", "1500"},
		{"123.456e2", "12346"},
		{"0.5", "1"},
		{"2.5E-1", "0"},
		{"abs(-5)", "5"},
		{"neg(5)", "-5"},
		{"sign(-9)", "-1"},
		{"digits(12345)", "5"},
		{"digits(0)", "1"},
		{"digit(12345, 0)", "5"},
		{"digit(12345, 4)", "1"},
		{"digit(12345, 9)", "0"},
		{"pow10(3)", "1000"},
		{"shl10(12, 2)", "1200"},
		{"shl10(1234, -2)", "12"},
		{"shr10(-1234, 2)", "-13"},
		{"mod10(-12345, 2)", "-45"},
		{"x * x + 1", "10000000000000000000000000000000000000001"},
		{"x / y", "-33333333333333333334"},
		{"x % y", "-2"},
		{"abs(y) ^ 4", "81"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			e, err := Parse(tt.src)
			require.NoError(t, err)

			got, err := e.Eval(env)
			require.NoError(t, err)
			defer got.Release()
			assert.Equal(t, tt.want, got.String())

			ref, err := e.EvalBig(env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.String(), "reference evaluation")
		})
	}
}

func TestEvalDoesNotMutateEnv(t *testing.T) {
	t.Parallel()
	env := Env{"a": mustBig(t, "5")}
	got, err := Eval("neg(a) * a - a", env)
	require.NoError(t, err)
	defer got.Release()
	assert.Equal(t, "-30", got.String())
	assert.Equal(t, "5", env["a"].String())
}

func TestParseSyntaxErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src string
		pos int
		msg string
	}{
		{"", 0, "empty expression"},
		{"   ", 0, "empty expression"},
		{"1 +", 3, "end of input"},
		{"(1 + 2", 6, "expected ')'"},
		{"1 $ 2", 2, "unexpected character"},
		{"1 2", 2, "unexpected number"},
		{"foo(1)", 0, "unknown function foo"},
		{"abs(1, 2)", 0, "abs takes 1 argument(s), got 2"},
		{"shl10(1)", 0, "shl10 takes 2 argument(s), got 1"},
		{"abs", 0, "used without arguments"},
		{"abs(1 2)", 6, "expected ',' or ')'"},
		{"2e", 1, "missing exponent digits"},
		{"2e+", 1, "missing exponent digits"},
		{"1.x", 1, "missing digits after decimal point"},
		{"12ab", 2, "in number"},
		{")", 0, "unexpected \")\""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.src)
			require.Error(t, err)

			var synErr *SyntaxError
			require.True(t, errors.As(err, &synErr), "want *SyntaxError, got %T", err)
			assert.Equal(t, tt.pos, synErr.Pos)
			assert.Contains(t, synErr.Msg, tt.msg)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Equal(t, apperrors.ExitErrorInput, apperrors.ExitCodeFor(err))
		})
	}
}

func TestParseNestingLimit(t *testing.T) {
	t.Parallel()
	deep := make([]byte, 0, 2*maxDepth+3)
	for i := 0; i <= maxDepth; i++ {
		deep = append(deep, '(')
	}
	deep = append(deep, '1')
	for i := 0; i <= maxDepth; i++ {
		deep = append(deep, ')')
	}
	_, err := Parse(string(deep))
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Msg, "nested too deeply")
}

func TestVars(t *testing.T) {
	t.Parallel()
	e, err := Parse("b * a + abs(b) - c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c1"}, e.Vars())
	assert.Equal(t, "b * a + abs(b) - c1", e.Source())
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		pos      int
		op       string
		cause    error
		exitCode int
	}{
		{"division by zero", "1 / 0", 2, "division", bigint.ErrInvalidArgument, apperrors.ExitErrorArithmetic},
		{"modulo by zero", "5 % (2 - 2)", 2, "modulo", bigint.ErrInvalidArgument, apperrors.ExitErrorArithmetic},
		{"negative exponent", "2 ^ -1", 2, "power", bigint.ErrInvalidArgument, apperrors.ExitErrorArithmetic},
		{"huge exponent", "2 ^ 3000000000", 2, "power", bigint.ErrOverflow, apperrors.ExitErrorArithmetic},
		{"undefined variable", "1 + nope", 4, "variable", ErrUndefined, apperrors.ExitErrorInput},
		{"negative pow10", "pow10(-1)", 0, "pow10", bigint.ErrInvalidArgument, apperrors.ExitErrorArithmetic},
		{"negative digit", "digit(5, -1)", 0, "digit", bigint.ErrInvalidArgument, apperrors.ExitErrorArithmetic},
		{"negative mod10", "mod10(5, -1)", 0, "mod10", bigint.ErrInvalidArgument, apperrors.ExitErrorArithmetic},
		{"literal exponent overflow", "1e3000000000", 0, "literal", bigint.ErrOverflow, apperrors.ExitErrorArithmetic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, err := Parse(tt.src)
			require.NoError(t, err)

			got, err := e.Eval(nil)
			require.Error(t, err)
			assert.Nil(t, got)

			var evalErr *EvalError
			require.True(t, errors.As(err, &evalErr), "want *EvalError, got %T", err)
			assert.Equal(t, tt.pos, evalErr.Pos)
			assert.Equal(t, tt.op, evalErr.Op)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, tt.exitCode, apperrors.ExitCodeFor(err))

			_, refErr := e.EvalBig(nil)
			assert.ErrorIs(t, refErr, tt.cause, "reference evaluation fails the same way")
		})
	}
}

func TestMaxDigits(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src string
		op  string
	}{
		{"10 ^ 50", "power"},
		{"1e30", "literal"},
		{"pow10(40)", "pow10"},
		{"shl10(1, 40)", "shl10"},
		{"pow10(15) * pow10(15)", "multiplication"},
		{"99999999999999999999 + 1", "addition"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			_, err := Eval(tt.src, nil, WithMaxDigits(20))
			require.Error(t, err)

			var limitErr apperrors.LimitError
			require.True(t, errors.As(err, &limitErr), "want LimitError, got %v", err)
			assert.Equal(t, tt.op, limitErr.Operation)
			assert.Equal(t, int64(20), limitErr.Limit)
			assert.Greater(t, limitErr.Digits, int64(20))
			assert.Equal(t, apperrors.ExitErrorArithmetic, apperrors.ExitCodeFor(err))
			assert.NotErrorIs(t, err, apperrors.ErrArithmetic)
		})
	}

	got, err := Eval("10 ^ 19", nil, WithMaxDigits(20))
	require.NoError(t, err)
	defer got.Release()
	assert.Equal(t, 20, got.DigitCount())
}

func TestEvalContextCanceled(t *testing.T) {
	t.Parallel()
	e, err := Parse("1 + 2")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.EvalContext(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, apperrors.ExitErrorCanceled, apperrors.ExitCodeFor(err))
}

func TestConcurrentEvalSharesExpr(t *testing.T) {
	t.Parallel()
	e, err := Parse("x ^ 20 / (x - 1)")
	require.NoError(t, err)

	done := make(chan string, 8)
	for i := 0; i < cap(done); i++ {
		go func() {
			got, err := e.Eval(Env{"x": bigint.NewInt64(12345)})
			if err != nil {
				done <- err.Error()
				return
			}
			done <- got.String()
			got.Release()
		}()
	}
	want, err := e.EvalBig(Env{"x": bigint.NewInt64(12345)})
	require.NoError(t, err)
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, want.String(), <-done)
	}
}

func TestFunctionHelp(t *testing.T) {
	t.Parallel()
	names := FunctionNames()
	assert.Contains(t, names, "pow10")
	assert.IsIncreasing(t, names)
	for _, name := range names {
		help, ok := FunctionHelp(name)
		assert.True(t, ok)
		assert.Contains(t, help, name+"(")
	}
	help, _ := FunctionHelp("shr10")
	assert.Equal(t, "shr10(x, n): ⌊x / 10^n⌋ (negative n shifts left)", help)
	_, ok := FunctionHelp("nope")
	assert.False(t, ok)
}

// TestEvalReleasesTemporaries counts live bigint buffers across successful
// and failing evaluations.
func TestEvalReleasesTemporaries(t *testing.T) {
	var live int
	bigint.SetAllocHook(func(delta int) { live += delta })
	defer bigint.SetAllocHook(nil)

	x := bigint.NewInt64(987654321)
	defer x.Release()
	env := Env{"x": x}

	for _, src := range []string{
		"x * x * x - 1",
		"(x ^ 7) / (x + 1) % 1000000007",
		"shr10(shl10(x, 30), 12) + mod10(x, 3) + digits(x)",
		"x / 0",
		"x + undefined",
		"2 ^ -1",
		"pow10(-3)",
		"digit(x, -1) + 1",
	} {
		before := live
		got, err := Eval(src, env)
		if err == nil {
			got.Release()
		}
		assert.Equal(t, before, live, "%s: live buffers %d -> %d", src, before, live)
	}
}

func TestIsIdent(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]bool{
		"x": true, "_tmp": true, "a1": true, "A_b9": true,
		"": false, "9x": false, "a-b": false, "é": false, "x y": false,
	} {
		if got := IsIdent(name); got != want {
			t.Errorf("IsIdent(%q) = %v, want %v", name, got, want)
		}
	}
}
