package expr

import (
	"sort"
	"strconv"
	"strings"
)

// maxDepth bounds parenthesis and unary nesting so hostile input cannot
// exhaust the stack.
const maxDepth = 1000

// ─────────────────────────────────────────────────────────────────────────────
// Syntax Tree
// ─────────────────────────────────────────────────────────────────────────────

type node interface {
	position() int
}

type numberNode struct {
	pos  int
	text string
	// digits estimates the digit count of the literal's value; 0 when the
	// exponent does not fit 32 bits (SetString reports the overflow).
	digits int64
}

type varNode struct {
	pos  int
	name string
}

type unaryNode struct {
	pos int
	op  byte
	x   node
}

type binaryNode struct {
	pos  int
	op   byte
	x, y node
}

type callNode struct {
	pos  int
	fn   *function
	args []node
}

func (n *numberNode) position() int { return n.pos }
func (n *varNode) position() int    { return n.pos }
func (n *unaryNode) position() int  { return n.pos }
func (n *binaryNode) position() int { return n.pos }
func (n *callNode) position() int   { return n.pos }

// ─────────────────────────────────────────────────────────────────────────────
// Parser
// ─────────────────────────────────────────────────────────────────────────────

// Expr is a parsed expression. It is immutable and safe for concurrent use.
type Expr struct {
	src  string
	root node
	vars []string
}

// Parse parses src according to the grammar
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/'|'%') unary)*
//	unary   := ('-'|'+') unary | power
//	power   := primary ('^' unary)?
//	primary := NUMBER | IDENT | '(' expr ')' | IDENT '(' expr (',' expr)* ')'
//
// Errors are *SyntaxError values carrying the byte offset of the problem.
func Parse(src string) (*Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, vars: map[string]struct{}{}}
	if p.peek().kind == tokEOF {
		return nil, syntaxErrorf(0, "empty expression")
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, syntaxErrorf(t.pos, "unexpected %s", t)
	}
	vars := make([]string, 0, len(p.vars))
	for name := range p.vars {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return &Expr{src: src, root: root, vars: vars}, nil
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string { return e.src }

// Vars returns the sorted names of the variables the expression reads.
func (e *Expr) Vars() []string { return append([]string(nil), e.vars...) }

type parser struct {
	toks  []token
	i     int
	depth int
	vars  map[string]struct{}
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(ops string) bool {
	t := p.peek()
	return t.kind == tokOp && strings.Contains(ops, t.text)
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > maxDepth {
		return syntaxErrorf(pos, "expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseExpr() (node, error) {
	x, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+-") {
		op := p.next()
		y, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		x = &binaryNode{pos: op.pos, op: op.text[0], x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseTerm() (node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*/%") {
		op := p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &binaryNode{pos: op.pos, op: op.text[0], x: x, y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (node, error) {
	if !p.isOp("+-") {
		return p.parsePower()
	}
	op := p.next()
	if err := p.enter(op.pos); err != nil {
		return nil, err
	}
	defer p.leave()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &unaryNode{pos: op.pos, op: op.text[0], x: x}, nil
}

func (p *parser) parsePower() (node, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return x, nil
	}
	op := p.next()
	if err := p.enter(op.pos); err != nil {
		return nil, err
	}
	defer p.leave()
	y, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{pos: op.pos, op: '^', x: x, y: y}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &numberNode{pos: t.pos, text: t.text, digits: literalDigits(t.text)}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		if _, ok := functions[t.text]; ok {
			return nil, syntaxErrorf(t.pos, "function %s used without arguments", t.text)
		}
		p.vars[t.text] = struct{}{}
		return &varNode{pos: t.pos, name: t.text}, nil
	case tokLParen:
		if err := p.enter(t.pos); err != nil {
			return nil, err
		}
		defer p.leave()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, syntaxErrorf(closing.pos, "expected ')' to close '(' at offset %d, found %s", t.pos, closing)
		}
		return x, nil
	default:
		return nil, syntaxErrorf(t.pos, "unexpected %s", t)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, syntaxErrorf(name.pos, "unknown function %s", name.text)
	}
	open := p.next()
	if err := p.enter(open.pos); err != nil {
		return nil, err
	}
	defer p.leave()

	var args []node
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		t := p.next()
		if t.kind == tokRParen {
			break
		}
		if t.kind != tokComma {
			return nil, syntaxErrorf(t.pos, "expected ',' or ')' in call to %s, found %s", fn.name, t)
		}
	}
	if len(args) != fn.arity {
		return nil, syntaxErrorf(name.pos, "%s takes %d argument(s), got %d", fn.name, fn.arity, len(args))
	}
	return &callNode{pos: name.pos, fn: fn, args: args}, nil
}

// literalDigits estimates the number of digits a decimal literal expands
// to, exact up to a rounding carry.
func literalDigits(text string) int64 {
	run, exp, ok := literalScale(text)
	if !ok {
		return 0
	}
	if run == "" {
		return 1
	}
	if n := int64(len(run)) + exp; n > 1 {
		return n
	}
	return 1
}

// literalScale splits a decimal literal into its significant digit run and
// the power of ten it is scaled by. ok is false when the written exponent
// does not fit 32 bits.
func literalScale(text string) (run string, exp int64, ok bool) {
	mantissa := text
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		e, err := strconv.ParseInt(text[i+1:], 10, 32)
		if err != nil {
			return "", 0, false
		}
		mantissa, exp = text[:i], e
	}
	run = mantissa
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		run = mantissa[:i] + mantissa[i+1:]
		exp -= int64(len(mantissa) - i - 1)
	}
	return strings.TrimLeft(run, "0"), exp, true
}
