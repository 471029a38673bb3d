package expr

import (
	"fmt"
	"math/big"

	"github.com/agbru/bigcalc/internal/bigint"
)

// EvalBig evaluates the expression with math/big. Division floors, modulo
// takes the sign of the divisor and literals round half away from zero, so
// for every input EvalBig and Eval agree. No digit limit applies.
func (e *Expr) EvalBig(env Env) (*big.Int, error) {
	vars := make(map[string]*big.Int, len(e.vars))
	for _, name := range e.vars {
		if v, ok := env[name]; ok && v != nil {
			b, ok := new(big.Int).SetString(v.String(), 10)
			if !ok {
				return nil, fmt.Errorf("expr: cannot convert variable %s", name)
			}
			vars[name] = b
		}
	}
	return evalBig(e.root, vars)
}

func evalBig(n node, vars map[string]*big.Int) (*big.Int, error) {
	switch n := n.(type) {
	case *numberNode:
		v, err := literalBig(n.text)
		if err != nil {
			return nil, evalError(n.pos, "literal", err)
		}
		return v, nil
	case *varNode:
		v, ok := vars[n.name]
		if !ok {
			return nil, evalError(n.pos, "variable", fmt.Errorf("%w: %s", ErrUndefined, n.name))
		}
		return new(big.Int).Set(v), nil
	case *unaryNode:
		x, err := evalBig(n.x, vars)
		if err != nil {
			return nil, err
		}
		if n.op == '-' {
			x.Neg(x)
		}
		return x, nil
	case *binaryNode:
		x, err := evalBig(n.x, vars)
		if err != nil {
			return nil, err
		}
		y, err := evalBig(n.y, vars)
		if err != nil {
			return nil, err
		}
		res, err := applyBig(n.op, x, y)
		if err != nil {
			return nil, evalError(n.pos, opName(n.op), err)
		}
		return res, nil
	case *callNode:
		args := make([]*big.Int, len(n.args))
		for i, arg := range n.args {
			v, err := evalBig(arg, vars)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		res, err := n.fn.ref(args)
		if err != nil {
			return nil, evalError(n.pos, n.fn.name, err)
		}
		return res, nil
	default:
		panic(fmt.Sprintf("expr: unknown node %T", n))
	}
}

func applyBig(op byte, x, y *big.Int) (*big.Int, error) {
	switch op {
	case '+':
		return x.Add(x, y), nil
	case '-':
		return x.Sub(x, y), nil
	case '*':
		return x.Mul(x, y), nil
	case '/', '%':
		if y.Sign() == 0 {
			return nil, fmt.Errorf("%w: division by zero", bigint.ErrInvalidArgument)
		}
		q, r := floorDivModBig(x, y)
		if op == '/' {
			return q, nil
		}
		return r, nil
	case '^':
		n, err := smallIntBig(y)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative exponent %d", bigint.ErrInvalidArgument, n)
		}
		return x.Exp(x, big.NewInt(int64(n)), nil), nil
	default:
		panic(fmt.Sprintf("expr: unknown operator %q", op))
	}
}

// literalBig converts a decimal literal exactly, then rounds half away from
// zero to an integer.
func literalBig(text string) (*big.Int, error) {
	run, exp, ok := literalScale(text)
	if !ok {
		return nil, fmt.Errorf("%w: exponent out of range in %q", bigint.ErrOverflow, text)
	}
	if run == "" || int64(len(run))+exp < 0 {
		// Below 0.1: rounds to zero without building a huge denominator.
		return new(big.Int), nil
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("%w: %q", bigint.ErrInvalidArgument, text)
	}
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()
	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	if m.Lsh(m, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if r.Sign() < 0 {
		q.Neg(q)
	}
	return q, nil
}
