package solgen

import (
	"fmt"
	"strconv"
	"strings"
)

// A small independent interpreter for the subset of Solis the generator
// emits. Tests use it to check that every oracle value matches what the
// program text actually computes.

type token struct {
	kind string // "int", "float", "ident" or "sym"
	text string
}

var symbols = []string{"==", "!=", "<=", ">=", "(", ")", "{", "}", ";", ":", "=", "<", ">", "+", "-", "*", "/", "%", "!"}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\n' || c == '\t' || c == '\r':
			i++
		case strings.HasPrefix(src[i:], "##"):
			end := strings.Index(src[i+2:], "##")
			if end < 0 {
				return nil, fmt.Errorf("unterminated block comment")
			}
			i += end + 4
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			kind := "int"
			if j < len(src) && src[j] == '.' {
				kind = "float"
				j++
				for j < len(src) && src[j] >= '0' && src[j] <= '9' {
					j++
				}
			}
			toks = append(toks, token{kind: kind, text: src[i:j]})
			i = j
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			j := i
			for j < len(src) && (src[j] >= 'a' && src[j] <= 'z' || src[j] >= 'A' && src[j] <= 'Z' || src[j] >= '0' && src[j] <= '9' || src[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: "ident", text: src[i:j]})
			i = j
		default:
			matched := false
			for _, s := range symbols {
				if strings.HasPrefix(src[i:], s) {
					toks = append(toks, token{kind: "sym", text: s})
					i += len(s)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("unexpected %q at %d", c, i)
			}
		}
	}
	return toks, nil
}

type node interface{}

type litNode struct{ v Value }
type identNode struct{ name string }
type unaryNode struct {
	op string
	x  node
}
type binNode struct {
	op   string
	l, r node
}
type letNode struct {
	name string
	typ  Type
	x    node
}
type ifNode struct {
	conds  []node
	bodies [][]node
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token{kind: "eof"}
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == "sym" || t.kind == "ident") && t.text == text
}

func (p *parser) expect(text string) error {
	if !p.is(text) {
		return fmt.Errorf("expected %q, got %q at token %d", text, p.peek().text, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) block() ([]node, error) {
	var stmts []node
	for {
		if p.is("}") || p.peek().kind == "eof" {
			return stmts, nil
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, e)
		if !p.is(";") {
			return stmts, nil
		}
		p.pos++
	}
}

func (p *parser) expr() (node, error) {
	if !p.is("let") {
		return p.binary()
	}
	p.pos++
	name := p.peek()
	if name.kind != "ident" {
		return nil, fmt.Errorf("expected identifier after let")
	}
	p.pos++
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	typ, err := ParseType(p.peek().text)
	if err != nil {
		return nil, err
	}
	p.pos++
	if err := p.expect("="); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	return letNode{name: name.text, typ: typ, x: x}, nil
}

var binarySymbols = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true,
}

func (p *parser) binary() (node, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == "sym" && binarySymbols[p.peek().text] {
		op := p.peek().text
		p.pos++
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = binNode{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) unary() (node, error) {
	if p.is("-") || p.is("!") {
		op := p.peek().text
		p.pos++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op, x: x}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	t := p.peek()
	switch {
	case t.kind == "int":
		p.pos++
		v, err := strconv.ParseInt(t.text, 10, 64)
		return litNode{v: IntValue(v)}, err
	case t.kind == "float":
		p.pos++
		v, err := strconv.ParseFloat(t.text, 64)
		return litNode{v: FloatValue(v)}, err
	case p.is("true"), p.is("false"):
		p.pos++
		return litNode{v: BoolValue(t.text == "true")}, nil
	case p.is("if"):
		p.pos++
		return p.ifChain()
	case p.is("("):
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		return e, p.expect(")")
	case t.kind == "ident":
		p.pos++
		return identNode{name: t.text}, nil
	}
	return nil, fmt.Errorf("unexpected token %q at %d", t.text, p.pos)
}

func (p *parser) braced() ([]node, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return body, p.expect("}")
}

func (p *parser) ifChain() (node, error) {
	var n ifNode
	for {
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		body, err := p.braced()
		if err != nil {
			return nil, err
		}
		n.conds = append(n.conds, cond)
		n.bodies = append(n.bodies, body)
		if err := p.expect("else"); err != nil {
			return nil, err
		}
		if !p.is("if") {
			break
		}
		p.pos++
	}
	body, err := p.braced()
	if err != nil {
		return nil, err
	}
	n.bodies = append(n.bodies, body)
	return n, nil
}

type evalEnv struct {
	vars   map[string]Value
	parent *evalEnv
}

func (e *evalEnv) child() *evalEnv {
	return &evalEnv{vars: map[string]Value{}, parent: e}
}

func (e *evalEnv) get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// evalStats counts what the interpreter saw while running.
type evalStats struct {
	divisions int
}

func refFloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func evalBlock(stmts []node, env *evalEnv, st *evalStats) (Value, error) {
	var last Value
	for _, s := range stmts {
		v, err := evalNode(s, env, st)
		if err != nil {
			return Value{}, err
		}
		last = v
	}
	return last, nil
}

func evalNode(n node, env *evalEnv, st *evalStats) (Value, error) {
	switch n := n.(type) {
	case litNode:
		return n.v, nil
	case identNode:
		v, ok := env.get(n.name)
		if !ok {
			return Value{}, fmt.Errorf("undefined identifier %s", n.name)
		}
		return v, nil
	case letNode:
		if _, ok := env.get(n.name); ok {
			return Value{}, fmt.Errorf("redefinition of %s", n.name)
		}
		v, err := evalNode(n.x, env, st)
		if err != nil {
			return Value{}, err
		}
		if v.Type != n.typ {
			return Value{}, fmt.Errorf("let %s: %s bound to %s", n.name, n.typ, v.Type)
		}
		env.vars[n.name] = v
		return v, nil
	case unaryNode:
		v, err := evalNode(n.x, env, st)
		if err != nil {
			return Value{}, err
		}
		switch {
		case n.op == "!" && v.Type == Bool:
			return BoolValue(!v.Bool), nil
		case n.op == "-" && v.Type == Int:
			return IntValue(-v.Int), nil
		case n.op == "-" && v.Type == Float:
			return FloatValue(-v.Float), nil
		}
		return Value{}, fmt.Errorf("bad operand %s for unary %s", v.Type, n.op)
	case binNode:
		l, err := evalNode(n.l, env, st)
		if err != nil {
			return Value{}, err
		}
		r, err := evalNode(n.r, env, st)
		if err != nil {
			return Value{}, err
		}
		return evalBinary(n.op, l, r, st)
	case ifNode:
		for i, cond := range n.conds {
			c, err := evalNode(cond, env.child(), st)
			if err != nil {
				return Value{}, err
			}
			if c.Type != Bool {
				return Value{}, fmt.Errorf("condition of type %s", c.Type)
			}
			if c.Bool {
				return evalBlock(n.bodies[i], env.child(), st)
			}
		}
		return evalBlock(n.bodies[len(n.bodies)-1], env.child(), st)
	}
	return Value{}, fmt.Errorf("unknown node %T", n)
}

func evalBinary(op string, l, r Value, st *evalStats) (Value, error) {
	switch op {
	case "==", "!=":
		if l.Type != r.Type {
			return Value{}, fmt.Errorf("%s on %s and %s", op, l.Type, r.Type)
		}
		eq := l.Equal(r)
		return BoolValue(eq == (op == "==")), nil
	}
	if l.Type == Bool || r.Type == Bool {
		return Value{}, fmt.Errorf("%s on %s and %s", op, l.Type, r.Type)
	}
	if op == "/" || op == "%" {
		st.divisions++
		if r.AsFloat() == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
	}
	if l.Type == Int && r.Type == Int {
		a, b := l.Int, r.Int
		switch op {
		case "+":
			return IntValue(a + b), nil
		case "-":
			return IntValue(a - b), nil
		case "*":
			return IntValue(a * b), nil
		case "/":
			return IntValue(refFloorDiv(a, b)), nil
		case "%":
			return IntValue(a - refFloorDiv(a, b)*b), nil
		case "<":
			return BoolValue(a < b), nil
		case "<=":
			return BoolValue(a <= b), nil
		case ">":
			return BoolValue(a > b), nil
		case ">=":
			return BoolValue(a >= b), nil
		}
	}
	a, b := l.AsFloat(), r.AsFloat()
	switch op {
	case "+":
		return FloatValue(a + b), nil
	case "-":
		return FloatValue(a - b), nil
	case "*":
		return FloatValue(a * b), nil
	case "/":
		return FloatValue(a / b), nil
	case "<":
		return BoolValue(a < b), nil
	case "<=":
		return BoolValue(a <= b), nil
	case ">":
		return BoolValue(a > b), nil
	case ">=":
		return BoolValue(a >= b), nil
	}
	return Value{}, fmt.Errorf("bad operator %s on %s and %s", op, l.Type, r.Type)
}

// run parses and evaluates src in env.
func run(src string, env *evalEnv) (Value, *evalStats, error) {
	toks, err := lex(src)
	if err != nil {
		return Value{}, nil, err
	}
	p := &parser{toks: toks}
	stmts, err := p.block()
	if err != nil {
		return Value{}, nil, err
	}
	if p.pos != len(toks) {
		return Value{}, nil, fmt.Errorf("trailing input at token %d: %q", p.pos, p.peek().text)
	}
	st := &evalStats{}
	v, err := evalBlock(stmts, env, st)
	return v, st, err
}

func newEvalEnv() *evalEnv {
	return &evalEnv{vars: map[string]Value{}}
}

// envFromScope seeds an interpreter environment with scope's bindings.
func envFromScope(s *Scope) *evalEnv {
	env := newEvalEnv()
	for _, name := range s.Names(Int, Float, Bool) {
		b, _ := s.Get(name)
		env.vars[name] = b.Value
	}
	return env
}
