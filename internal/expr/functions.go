package expr

import (
	"fmt"
	"math/big"
	"sort"

	"fortio.org/safecast"

	"github.com/agbru/bigcalc/internal/bigint"
)

// function is a builtin callable from expressions. eval receives owned
// arguments and may return one of them; the caller releases the others.
type function struct {
	name  string
	arity int
	doc   string
	eval  func(ev *evaluator, pos int, args []*bigint.Int) (*bigint.Int, error)
	ref   func(args []*big.Int) (*big.Int, error)
}

var functions = map[string]*function{
	"abs": {
		name: "abs", arity: 1, doc: "absolute value",
		eval: func(_ *evaluator, _ int, args []*bigint.Int) (*bigint.Int, error) {
			return args[0].Abs(), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) { return args[0].Abs(args[0]), nil },
	},
	"neg": {
		name: "neg", arity: 1, doc: "negation",
		eval: func(_ *evaluator, _ int, args []*bigint.Int) (*bigint.Int, error) {
			return args[0].Neg(), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) { return args[0].Neg(args[0]), nil },
	},
	"sign": {
		name: "sign", arity: 1, doc: "-1, 0 or 1",
		eval: func(_ *evaluator, _ int, args []*bigint.Int) (*bigint.Int, error) {
			return args[0].SetInt64(int64(args[0].Sign())), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) { return big.NewInt(int64(args[0].Sign())), nil },
	},
	"digits": {
		name: "digits", arity: 1, doc: "number of decimal digits of |x|",
		eval: func(_ *evaluator, _ int, args []*bigint.Int) (*bigint.Int, error) {
			return args[0].SetInt64(int64(args[0].DigitCount())), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) {
			return big.NewInt(int64(len(new(big.Int).Abs(args[0]).String()))), nil
		},
	},
	"digit": {
		name: "digit", arity: 2, doc: "decimal digit of |x| at position n, 0 = units",
		eval: func(ev *evaluator, pos int, args []*bigint.Int) (*bigint.Int, error) {
			n, err := smallInt(args[1])
			if err != nil {
				return nil, err
			}
			d, err := args[0].NthDigit(n)
			if err != nil {
				return nil, err
			}
			return args[0].SetInt64(int64(d)), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) {
			n, err := smallIntBig(args[1])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("%w: negative digit position %d", bigint.ErrInvalidArgument, n)
			}
			q := new(big.Int).Abs(args[0])
			if n >= len(q.String()) {
				return new(big.Int), nil
			}
			q.Quo(q, pow10Big(n))
			return q.Rem(q, big.NewInt(10)), nil
		},
	},
	"pow10": {
		name: "pow10", arity: 1, doc: "10^n for n >= 0",
		eval: func(ev *evaluator, pos int, args []*bigint.Int) (*bigint.Int, error) {
			n, err := smallInt(args[0])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("%w: negative exponent %d", bigint.ErrInvalidArgument, n)
			}
			if err := ev.checkLimit(pos, "pow10", int64(n)+1); err != nil {
				return nil, err
			}
			return args[0].SetOne().MulPow10(n), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) {
			n, err := smallIntBig(args[0])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("%w: negative exponent %d", bigint.ErrInvalidArgument, n)
			}
			return pow10Big(n), nil
		},
	},
	"shl10": {
		name: "shl10", arity: 2, doc: "x·10^n (negative n shifts right)",
		eval: func(ev *evaluator, pos int, args []*bigint.Int) (*bigint.Int, error) {
			n, err := smallInt(args[1])
			if err != nil {
				return nil, err
			}
			if err := ev.checkLimit(pos, "shl10", int64(args[0].DigitCount())+int64(n)); err != nil {
				return nil, err
			}
			return args[0].MulPow10(n), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) {
			n, err := smallIntBig(args[1])
			if err != nil {
				return nil, err
			}
			return shiftBig(args[0], n), nil
		},
	},
	"shr10": {
		name: "shr10", arity: 2, doc: "⌊x / 10^n⌋ (negative n shifts left)",
		eval: func(ev *evaluator, pos int, args []*bigint.Int) (*bigint.Int, error) {
			n, err := smallInt(args[1])
			if err != nil {
				return nil, err
			}
			if err := ev.checkLimit(pos, "shr10", int64(args[0].DigitCount())-int64(n)); err != nil {
				return nil, err
			}
			return args[0].DivPow10(n), nil
		},
		ref: func(args []*big.Int) (*big.Int, error) {
			n, err := smallIntBig(args[1])
			if err != nil {
				return nil, err
			}
			return shiftBig(args[0], -n), nil
		},
	},
	"mod10": {
		name: "mod10", arity: 2, doc: "lowest n digits of |x|, sign of x kept",
		eval: func(_ *evaluator, _ int, args []*bigint.Int) (*bigint.Int, error) {
			n, err := smallInt(args[1])
			if err != nil {
				return nil, err
			}
			if err := args[0].ModPow10(n); err != nil {
				return nil, err
			}
			return args[0], nil
		},
		ref: func(args []*big.Int) (*big.Int, error) {
			n, err := smallIntBig(args[1])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("%w: negative digit count %d", bigint.ErrInvalidArgument, n)
			}
			neg := args[0].Sign() < 0
			r := new(big.Int).Abs(args[0])
			if n < len(r.String()) {
				r.Rem(r, pow10Big(n))
			}
			if neg {
				r.Neg(r)
			}
			return r, nil
		},
	},
}

// FunctionNames returns the builtin names in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FunctionHelp returns a one-line signature and description of a builtin.
func FunctionHelp(name string) (string, bool) {
	fn, ok := functions[name]
	if !ok {
		return "", false
	}
	params := "x"
	switch {
	case fn.name == "pow10":
		params = "n"
	case fn.arity == 2:
		params = "x, n"
	}
	return fmt.Sprintf("%s(%s): %s", fn.name, params, fn.doc), true
}

// smallInt narrows x to a 32-bit exponent or digit count.
func smallInt(x *bigint.Int) (int, error) {
	v, err := x.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s does not fit a 32-bit integer", bigint.ErrOverflow, x)
	}
	n, err := safecast.Conv[int32](v)
	if err != nil {
		return 0, fmt.Errorf("%w: %d does not fit a 32-bit integer", bigint.ErrOverflow, v)
	}
	return int(n), nil
}

func smallIntBig(x *big.Int) (int, error) {
	if !x.IsInt64() {
		return 0, fmt.Errorf("%w: %s does not fit a 32-bit integer", bigint.ErrOverflow, x)
	}
	n, err := safecast.Conv[int32](x.Int64())
	if err != nil {
		return 0, fmt.Errorf("%w: %d does not fit a 32-bit integer", bigint.ErrOverflow, x.Int64())
	}
	return int(n), nil
}

func pow10Big(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// shiftBig returns x·10^n, flooring when n is negative.
func shiftBig(x *big.Int, n int) *big.Int {
	if n >= 0 {
		return new(big.Int).Mul(x, pow10Big(n))
	}
	if -n > len(new(big.Int).Abs(x).String()) {
		// |x| < 10^-n: the floor is 0 or -1.
		if x.Sign() < 0 {
			return big.NewInt(-1)
		}
		return new(big.Int)
	}
	q, _ := floorDivModBig(x, pow10Big(-n))
	return q
}

// floorDivModBig returns ⌊a / b⌋ and a - b·⌊a / b⌋; math/big's Div is
// Euclidean, so it cannot be used directly for negative divisors.
func floorDivModBig(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}
	return q, r
}
