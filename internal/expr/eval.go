package expr

import (
	"context"
	"fmt"
	"math"

	"github.com/agbru/bigcalc/internal/bigint"
	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// Env binds variable names to values. Evaluation only reads the values, so an
// Env may be shared by concurrent evaluations as long as nobody mutates it.
type Env map[string]*bigint.Int

// Option configures an evaluation.
type Option func(*evaluator)

// WithMaxDigits rejects any intermediate value longer than n decimal digits
// with an apperrors.LimitError. Zero or a negative n disables the limit.
func WithMaxDigits(n int64) Option {
	return func(ev *evaluator) { ev.maxDigits = n }
}

type evaluator struct {
	ctx       context.Context
	env       Env
	maxDigits int64
}

// Eval parses and evaluates src in one step.
func Eval(src string, env Env, opts ...Option) (*bigint.Int, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return e.Eval(env, opts...)
}

// Eval evaluates the expression against env. The result is owned by the
// caller, who should Release it when done.
func (e *Expr) Eval(env Env, opts ...Option) (*bigint.Int, error) {
	return e.EvalContext(context.Background(), env, opts...)
}

// EvalContext is Eval with cancellation. The context is checked before each
// node, so a single large multiplication runs to completion.
func (e *Expr) EvalContext(ctx context.Context, env Env, opts ...Option) (*bigint.Int, error) {
	ev := &evaluator{ctx: ctx, env: env}
	for _, opt := range opts {
		opt(ev)
	}
	return ev.eval(e.root)
}

func (ev *evaluator) eval(n node) (*bigint.Int, error) {
	if err := ev.ctx.Err(); err != nil {
		return nil, err
	}
	switch n := n.(type) {
	case *numberNode:
		return ev.number(n)
	case *varNode:
		v, ok := ev.env[n.name]
		if !ok || v == nil {
			return nil, evalError(n.pos, "variable", fmt.Errorf("%w: %s", ErrUndefined, n.name))
		}
		return v.Clone(), nil
	case *unaryNode:
		x, err := ev.eval(n.x)
		if err != nil {
			return nil, err
		}
		if n.op == '-' {
			x.Neg()
		}
		return x, nil
	case *binaryNode:
		return ev.binary(n)
	case *callNode:
		return ev.call(n)
	default:
		panic(fmt.Sprintf("expr: unknown node %T", n))
	}
}

func (ev *evaluator) number(n *numberNode) (*bigint.Int, error) {
	if err := ev.checkLimit(n.pos, "literal", n.digits); err != nil {
		return nil, err
	}
	z := bigint.New()
	if err := z.SetString(n.text); err != nil {
		z.Release()
		return nil, evalError(n.pos, "literal", err)
	}
	return ev.checkResult(n.pos, "literal", z)
}

func (ev *evaluator) binary(n *binaryNode) (*bigint.Int, error) {
	x, err := ev.eval(n.x)
	if err != nil {
		return nil, err
	}
	y, err := ev.eval(n.y)
	if err != nil {
		x.Release()
		return nil, err
	}
	defer y.Release()

	op := opName(n.op)
	res, err := ev.apply(n, x, y)
	if err != nil {
		x.Release()
		return nil, evalError(n.pos, op, err)
	}
	return ev.checkResult(n.pos, op, res)
}

// apply combines x and y in place into x, or into a fresh value for the
// division operators, in which case x is released.
func (ev *evaluator) apply(n *binaryNode, x, y *bigint.Int) (*bigint.Int, error) {
	switch n.op {
	case '+':
		return x.Add(y), nil
	case '-':
		return x.Sub(y), nil
	case '*':
		if err := ev.limit("multiplication", int64(x.DigitCount())+int64(y.DigitCount())-1); err != nil {
			return nil, err
		}
		return x.Mul(y), nil
	case '/', '%':
		q, r := bigint.New(), bigint.New()
		if err := bigint.DivMod(x, y, q, r); err != nil {
			q.Release()
			r.Release()
			return nil, err
		}
		x.Release()
		if n.op == '/' {
			r.Release()
			return q, nil
		}
		q.Release()
		return r, nil
	case '^':
		exp, err := smallInt(y)
		if err != nil {
			return nil, err
		}
		if err := ev.limit("power", powDigits(x, exp)); err != nil {
			return nil, err
		}
		if err := x.Pow(exp); err != nil {
			return nil, err
		}
		return x, nil
	default:
		panic(fmt.Sprintf("expr: unknown operator %q", n.op))
	}
}

func (ev *evaluator) call(n *callNode) (*bigint.Int, error) {
	args := make([]*bigint.Int, 0, len(n.args))
	release := func(keep *bigint.Int) {
		for _, a := range args {
			if a != keep {
				a.Release()
			}
		}
	}
	for _, arg := range n.args {
		v, err := ev.eval(arg)
		if err != nil {
			release(nil)
			return nil, err
		}
		args = append(args, v)
	}
	res, err := n.fn.eval(ev, n.pos, args)
	release(res)
	if err != nil {
		if _, ok := err.(*EvalError); ok {
			return nil, err
		}
		return nil, evalError(n.pos, n.fn.name, err)
	}
	return ev.checkResult(n.pos, n.fn.name, res)
}

// limit reports an apperrors.LimitError when digits exceeds the limit.
func (ev *evaluator) limit(op string, digits int64) error {
	if ev.maxDigits > 0 && digits > ev.maxDigits {
		return apperrors.LimitError{Operation: op, Digits: digits, Limit: ev.maxDigits}
	}
	return nil
}

func (ev *evaluator) checkLimit(pos int, op string, digits int64) error {
	if err := ev.limit(op, digits); err != nil {
		return evalError(pos, op, err)
	}
	return nil
}

// checkResult releases z and fails when it exceeds the digit limit.
func (ev *evaluator) checkResult(pos int, op string, z *bigint.Int) (*bigint.Int, error) {
	if err := ev.checkLimit(pos, op, int64(z.DigitCount())); err != nil {
		z.Release()
		return nil, err
	}
	return z, nil
}

// powDigits estimates the digit count of x^n. It never overestimates, so
// the exact check on the result stays authoritative.
func powDigits(x *bigint.Int, n int) int64 {
	if n <= 0 || x.CmpAbs(one) <= 0 {
		return 1
	}
	mantissa, exp := x.Scientific()
	log10 := float64(exp) + math.Log10(mantissa)
	return int64(math.Floor(log10*float64(n)-1e-6)) + 1
}

var one = bigint.NewInt64(1)

func opName(op byte) string {
	switch op {
	case '+':
		return "addition"
	case '-':
		return "subtraction"
	case '*':
		return "multiplication"
	case '/':
		return "division"
	case '%':
		return "modulo"
	case '^':
		return "power"
	}
	return string(op)
}
