package solgen

import (
	"fmt"
	"strings"
)

// genContext is the per-run generation state. The identifier allocator and
// nesting level are reset at the start of every program; the rng is not.
type genContext struct {
	opts    Options
	r       *rng
	ids     *identAllocator
	nesting int
}

func newGenContext(opts Options, r *rng) *genContext {
	return &genContext{opts: opts, r: r, ids: &identAllocator{}}
}

func (g *genContext) reset() {
	g.ids.reset()
	g.nesting = 0
}

func (g *genContext) indent() string {
	return strings.Repeat("  ", g.nesting)
}

type production int

const (
	prodLiteral production = iota
	prodBinary
	prodRelational
	prodEquality
	prodVariable
	prodBinding
	prodConditional
)

type prodEntry struct {
	prod production
	prob int
}

// productions builds the weighted candidate list for one draw.
func (g *genContext) productions(t Type, scope *Scope, depth int) []prodEntry {
	leaf := depth >= g.opts.MaxExprDepth
	cond := !leaf && g.nesting < g.opts.MaxNesting
	w := 1
	if cond {
		// The conditional keeps a fixed weight of 1 against the rest.
		w = 4
	}
	entries := make([]prodEntry, 0, 7)
	entries = append(entries, prodEntry{prod: prodLiteral, prob: w})
	if !leaf {
		if t == Bool {
			entries = append(entries, prodEntry{prod: prodRelational, prob: w})
			entries = append(entries, prodEntry{prod: prodEquality, prob: w})
		} else {
			entries = append(entries, prodEntry{prod: prodBinary, prob: w})
		}
	}
	if scope.Has(t) && g.opts.VarWeight > 0 {
		entries = append(entries, prodEntry{prod: prodVariable, prob: w * g.opts.VarWeight})
	}
	if !leaf {
		entries = append(entries, prodEntry{prod: prodBinding, prob: w})
	}
	if cond {
		entries = append(entries, prodEntry{prod: prodConditional, prob: 1})
	}
	return entries
}

func (g *genContext) pickProduction(entries []prodEntry) production {
	total := 0
	for _, e := range entries {
		total += e.prob
	}
	v := int(g.r.upto(uint32(total)))
	for _, e := range entries {
		if v < e.prob {
			return e.prod
		}
		v -= e.prob
	}
	return prodLiteral
}

// generate returns a random expression of type t. depth is the expression
// nesting depth; past MaxExprDepth only leaves are produced.
func (g *genContext) generate(t Type, scope *Scope, depth int) Expression {
	var e Expression
	switch g.pickProduction(g.productions(t, scope, depth)) {
	case prodLiteral:
		e = literal(g.r, t)
	case prodBinary:
		e = g.binary(t, scope, depth)
	case prodRelational:
		e = g.relational(scope, depth)
	case prodEquality:
		e = g.equality(scope, depth)
	case prodVariable:
		e = g.variable(t, scope)
	case prodBinding:
		e = g.binding(t, scope, depth)
	case prodConditional:
		e = g.conditional(t, scope, depth)
	}
	// Negation wraps the committed value, never the draw.
	if g.r.flipcoin(uint32(g.opts.UnaryProb)) {
		e = negate(e)
	}
	return e
}

func (g *genContext) pickOp(ops []binaryOp, left, right Value) binaryOp {
	ops = usableOps(ops, left, right)
	return ops[g.r.upto(uint32(len(ops)))]
}

func (g *genContext) binary(t Type, scope *Scope, depth int) Expression {
	if t == Int {
		a := g.generate(Int, scope, depth+1)
		b := g.generate(Int, scope, depth+1)
		return g.pickOp(intOps, a.Value, b.Value).apply(a, b)
	}
	// (float, float), (float, int) or (int, float).
	lt, rt := Float, Float
	switch g.r.upto(3) {
	case 1:
		rt = Int
	case 2:
		lt = Int
	}
	a := g.generate(lt, scope, depth+1)
	b := g.generate(rt, scope, depth+1)
	return g.pickOp(floatOps, a.Value, b.Value).apply(a, b)
}

func (g *genContext) relational(scope *Scope, depth int) Expression {
	numeric := g.opts.numericTypes()
	a := g.generate(numeric[g.r.upto(uint32(len(numeric)))], scope, depth+1)
	b := g.generate(numeric[g.r.upto(uint32(len(numeric)))], scope, depth+1)
	return g.pickOp(relationalOps, a.Value, b.Value).apply(a, b)
}

func (g *genContext) equality(scope *Scope, depth int) Expression {
	types := g.opts.types()
	t := types[g.r.upto(uint32(len(types)))]
	a := g.generate(t, scope, depth+1)
	b := g.generate(t, scope, depth+1)
	return g.pickOp(equalityOps, a.Value, b.Value).apply(a, b)
}

func (g *genContext) variable(t Type, scope *Scope) Expression {
	b, err := scope.Lookup(t)
	if err != nil {
		panic(err)
	}
	return Expression{Text: b.Name, Value: b.Value}
}

func (g *genContext) binding(t Type, scope *Scope, depth int) Expression {
	inner := g.generate(t, scope, depth+1)
	name := scope.Bind(t, inner.Value)
	return Expression{
		Text:  fmt.Sprintf("let %s: %s = %s", name, t, inner.Text),
		Value: inner.Value,
	}
}

// branch is one arm of an if chain; the final arm has no condition.
type branch struct {
	cond *Expression
	body Expression
	// indent is the indentation of the closing brace.
	indent string
}

// takenValue walks branches in source order and returns the body value of
// the first arm whose condition holds, or the unconditional arm's value.
func takenValue(branches []branch) Value {
	for _, br := range branches {
		if br.cond == nil || br.cond.Value.Bool {
			return br.body.Value
		}
	}
	return branches[len(branches)-1].body.Value
}

func renderBranches(branches []branch) string {
	var b strings.Builder
	for i, br := range branches {
		if i > 0 {
			b.WriteString(" else ")
		}
		if br.cond != nil {
			b.WriteString("if ")
			b.WriteString(br.cond.Text)
			b.WriteString(" ")
		}
		b.WriteString("{\n")
		b.WriteString(br.body.Text)
		b.WriteString("\n")
		b.WriteString(br.indent)
		b.WriteString("}")
	}
	return b.String()
}

func (g *genContext) conditional(t Type, scope *Scope, depth int) Expression {
	n := g.r.between(2, g.opts.MaxBranches)
	outer := scope.Copy()
	branches := make([]branch, 0, n)
	for i := 0; i < n; i++ {
		br := branch{indent: g.indent()}
		if i < n-1 {
			cond := g.generate(Bool, outer.Copy(), depth+1)
			br.cond = &cond
		}
		g.nesting++
		br.body = g.block(outer.Copy(), g.r.between(1, g.opts.MaxBlockStatements), t)
		g.nesting--
		branches = append(branches, br)
	}
	return Expression{Text: renderBranches(branches), Value: takenValue(branches)}
}

// block generates count-1 statements followed by a closing expression of
// type t. Statements mutate scope.
func (g *genContext) block(scope *Scope, count int, t Type) Expression {
	types := g.opts.types()
	lines := make([]string, 0, count)
	for i := 0; i < count-1; i++ {
		st := types[g.r.upto(uint32(len(types)))]
		lines = append(lines, g.generate(st, scope, 0).Text+";")
	}
	closing := g.closing(scope, t)
	lines = append(lines, closing.Text)
	ind := g.indent()
	return Expression{Text: ind + strings.Join(lines, "\n"+ind), Value: closing.Value}
}

// aggregateTypes lists the binding types a closing sum of type t may read.
// Float blocks also sum int bindings when CrossTypeFloatSum is set.
func (g *genContext) aggregateTypes(t Type) []Type {
	switch t {
	case Int:
		return []Type{Int}
	case Float:
		if g.opts.CrossTypeFloatSum {
			return []Type{Float, Int}
		}
		return []Type{Float}
	}
	return nil
}

func (g *genContext) closing(scope *Scope, t Type) Expression {
	types := g.aggregateTypes(t)
	if len(types) == 0 {
		return g.generate(t, scope, 0)
	}
	names := scope.Names(types...)
	if len(names) == 0 {
		return g.generate(t, scope, 0)
	}
	return sumAggregate(scope, g.sample(names, g.r.between(1, len(names))), t)
}

// sample draws k distinct names in random order.
func (g *genContext) sample(names []string, k int) []string {
	pool := append([]string(nil), names...)
	for i := 0; i < k; i++ {
		j := i + int(g.r.upto(uint32(len(pool)-i)))
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// sumAggregate joins names with + and evaluates the sum left to right,
// promoting to float at the first float operand.
func sumAggregate(scope *Scope, names []string, t Type) Expression {
	var acc Value
	for i, name := range names {
		b, ok := scope.Get(name)
		if !ok {
			panic(fmt.Errorf("aggregate over unbound name %q", name))
		}
		switch {
		case i == 0:
			acc = b.Value
		case acc.Type == Int && b.Value.Type == Int:
			acc = IntValue(acc.Int + b.Value.Int)
		default:
			acc = FloatValue(acc.AsFloat() + b.Value.AsFloat())
		}
	}
	if t == Float {
		acc = FloatValue(acc.AsFloat())
	}
	return Expression{Text: strings.Join(names, " + "), Value: acc}
}

// program resets per-run state and generates a full program body.
func (g *genContext) program() (Type, Expression) {
	g.reset()
	scope := newScope(g.r, g.ids)
	types := g.opts.types()
	t := types[g.r.upto(uint32(len(types)))]
	return t, g.block(scope, g.opts.StatementCount, t)
}
