package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Env holds the named numeric fields a condition can reference.
type Env map[string]float64

// DefaultCondition always matches.
const DefaultCondition = "default"

type valueKind int

const (
	numberValue valueKind = iota
	boolValue
)

type value struct {
	kind valueKind
	num  float64
	b    bool
}

func num(f float64) value { return value{kind: numberValue, num: f} }
func boolean(b bool) value { return value{kind: boolValue, b: b} }

func (v value) truthy() bool {
	if v.kind == boolValue {
		return v.b
	}
	return v.num != 0 && !math.IsNaN(v.num)
}

func (v value) String() string {
	if v.kind == boolValue {
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

type node interface {
	eval(env Env) (value, error)
}

type literal struct{ v value }

type ident struct{ name string }

type unaryOp struct {
	op string
	x  node
}

type binaryOp struct {
	op   string
	l, r node
}

// Expr is a parsed condition.
type Expr struct {
	src  string
	root node
}

// String returns the source text of the condition.
func (e *Expr) String() string {
	return e.src
}

// Compile parses a condition. The literal condition "default" compiles to an expression
// that is always true.
func Compile(src string) (*Expr, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty condition", ErrSyntax)
	}
	if trimmed == DefaultCondition {
		return &Expr{src: src, root: literal{boolean(true)}}, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, t.text, t.pos)
	}
	return &Expr{src: src, root: root}, nil
}

// Eval evaluates the condition against env. Numbers count as true when non-zero.
func (e *Expr) Eval(env Env) (bool, error) {
	v, err := e.root.eval(env)
	if err != nil {
		return false, err
	}
	return v.truthy(), nil
}

// Evaluate compiles and evaluates a condition in one step.
func Evaluate(src string, env Env) (bool, error) {
	expr, err := Compile(src)
	if err != nil {
		return false, err
	}
	return expr.Eval(env)
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// acceptOp consumes the next token when it is one of ops.
func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseBinary(sub func() (node, error), ops ...string) (node, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(ops...)
		if !ok {
			return left, nil
		}
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, l: left, r: right}
	}
}

func (p *parser) parseOr() (node, error) {
	return p.parseBinary(p.parseAnd, "||")
}

func (p *parser) parseAnd() (node, error) {
	return p.parseBinary(p.parseEquality, "&&")
}

func (p *parser) parseEquality() (node, error) {
	return p.parseBinary(p.parseRelational, "===", "!==", "==", "!=")
}

func (p *parser) parseRelational() (node, error) {
	return p.parseBinary(p.parseAdditive, "<=", ">=", "<", ">")
}

func (p *parser) parseAdditive() (node, error) {
	return p.parseBinary(p.parseMultiplicative, "+", "-")
}

func (p *parser) parseMultiplicative() (node, error) {
	return p.parseBinary(p.parseUnary, "*", "/", "%")
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.acceptOp("!", "-"); ok {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryOp{op: op, x: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q at %d", ErrSyntax, t.text, t.pos)
		}
		return literal{num(f)}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return literal{boolean(true)}, nil
		case "false":
			return literal{boolean(false)}, nil
		}
		return ident{name: t.text}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: missing ')' at %d", ErrSyntax, closing.pos)
		}
		return inner, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of condition", ErrSyntax)
	default:
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, t.text, t.pos)
	}
}

func (n literal) eval(Env) (value, error) {
	return n.v, nil
}

func (n ident) eval(env Env) (value, error) {
	v, ok := env[n.name]
	if !ok {
		return value{}, fmt.Errorf("%w: %s", ErrUnknownIdentifier, n.name)
	}
	return num(v), nil
}

func (n unaryOp) eval(env Env) (value, error) {
	x, err := n.x.eval(env)
	if err != nil {
		return value{}, err
	}
	if n.op == "!" {
		return boolean(!x.truthy()), nil
	}
	if x.kind != numberValue {
		return value{}, fmt.Errorf("%w: cannot negate %s", ErrType, x)
	}
	return num(-x.num), nil
}

func (n binaryOp) eval(env Env) (value, error) {
	l, err := n.l.eval(env)
	if err != nil {
		return value{}, err
	}

	// Short-circuit like the usual boolean operators.
	switch n.op {
	case "&&":
		if !l.truthy() {
			return boolean(false), nil
		}
		r, err := n.r.eval(env)
		if err != nil {
			return value{}, err
		}
		return boolean(r.truthy()), nil
	case "||":
		if l.truthy() {
			return boolean(true), nil
		}
		r, err := n.r.eval(env)
		if err != nil {
			return value{}, err
		}
		return boolean(r.truthy()), nil
	}

	r, err := n.r.eval(env)
	if err != nil {
		return value{}, err
	}

	switch n.op {
	case "==", "===":
		return boolean(l == r), nil
	case "!=", "!==":
		return boolean(l != r), nil
	}

	if l.kind != numberValue || r.kind != numberValue {
		return value{}, fmt.Errorf("%w: %s %s %s", ErrType, l, n.op, r)
	}
	a, b := l.num, r.num
	switch n.op {
	case "<":
		return boolean(a < b), nil
	case "<=":
		return boolean(a <= b), nil
	case ">":
		return boolean(a > b), nil
	case ">=":
		return boolean(a >= b), nil
	case "+":
		return num(a + b), nil
	case "-":
		return num(a - b), nil
	case "*":
		return num(a * b), nil
	case "/":
		if b == 0 {
			return value{}, ErrDivisionByZero
		}
		return num(a / b), nil
	case "%":
		if b == 0 {
			return value{}, ErrDivisionByZero
		}
		return num(math.Mod(a, b)), nil
	}
	return value{}, fmt.Errorf("%w: unknown operator %q", ErrSyntax, n.op)
}
