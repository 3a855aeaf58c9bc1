package solgen

import (
	"fmt"
	"math"
	"strconv"
)

const (
	intLiteralBound = 1000
	floatLiteralMax = 50.123
)

// binaryOp pairs an operator symbol with the evaluator for its result.
type binaryOp struct {
	symbol string
	eval   func(a, b Value) Value
	// divides marks operators excluded when the right operand is zero.
	divides bool
}

func (op binaryOp) apply(a, b Expression) Expression {
	return Expression{
		Text:  fmt.Sprintf("(%s) %s (%s)", a.Text, op.symbol, b.Text),
		Value: op.eval(a.Value, b.Value),
	}
}

func divisionUndefined(left, right Value) bool {
	switch right.Type {
	case Int:
		return right.Int == 0 || (left.Type == Int && left.Int == math.MinInt64 && right.Int == -1)
	case Float:
		return right.Float == 0
	}
	return false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

var intOps = []binaryOp{
	{symbol: "+", eval: func(a, b Value) Value { return IntValue(a.Int + b.Int) }},
	{symbol: "-", eval: func(a, b Value) Value { return IntValue(a.Int - b.Int) }},
	{symbol: "*", eval: func(a, b Value) Value { return IntValue(a.Int * b.Int) }},
	{symbol: "/", eval: func(a, b Value) Value { return IntValue(floorDiv(a.Int, b.Int)) }, divides: true},
	{symbol: "%", eval: func(a, b Value) Value { return IntValue(floorMod(a.Int, b.Int)) }, divides: true},
}

var floatOps = []binaryOp{
	{symbol: "+", eval: func(a, b Value) Value { return FloatValue(a.AsFloat() + b.AsFloat()) }},
	{symbol: "-", eval: func(a, b Value) Value { return FloatValue(a.AsFloat() - b.AsFloat()) }},
	{symbol: "*", eval: func(a, b Value) Value { return FloatValue(a.AsFloat() * b.AsFloat()) }},
	{symbol: "/", eval: func(a, b Value) Value { return FloatValue(a.AsFloat() / b.AsFloat()) }, divides: true},
}

// compareNumeric orders two numeric values; mixed int/float pairs compare
// as floats.
func compareNumeric(a, b Value) int {
	if a.Type == Int && b.Type == Int {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	}
	x, y := a.AsFloat(), b.AsFloat()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

var relationalOps = []binaryOp{
	{symbol: "<", eval: func(a, b Value) Value { return BoolValue(compareNumeric(a, b) < 0) }},
	{symbol: "<=", eval: func(a, b Value) Value { return BoolValue(compareNumeric(a, b) <= 0) }},
	{symbol: ">", eval: func(a, b Value) Value { return BoolValue(compareNumeric(a, b) > 0) }},
	{symbol: ">=", eval: func(a, b Value) Value { return BoolValue(compareNumeric(a, b) >= 0) }},
}

var equalityOps = []binaryOp{
	{symbol: "==", eval: func(a, b Value) Value { return BoolValue(a.Equal(b)) }},
	{symbol: "!=", eval: func(a, b Value) Value { return BoolValue(!a.Equal(b)) }},
}

// usableOps drops dividing operators when the right operand is zero, or when
// an int division would overflow (MinInt64 / -1 traps on the target).
func usableOps(ops []binaryOp, left, right Value) []binaryOp {
	if !divisionUndefined(left, right) {
		return ops
	}
	out := make([]binaryOp, 0, len(ops))
	for _, op := range ops {
		if !op.divides {
			out = append(out, op)
		}
	}
	return out
}

// negate wraps e in the type's unary operator.
func negate(e Expression) Expression {
	switch e.Value.Type {
	case Int:
		return Expression{Text: "-(" + e.Text + ")", Value: IntValue(-e.Value.Int)}
	case Float:
		return Expression{Text: "-(" + e.Text + ")", Value: FloatValue(-e.Value.Float)}
	default:
		return Expression{Text: "!(" + e.Text + ")", Value: BoolValue(!e.Value.Bool)}
	}
}

func intLiteral(r *rng) Expression {
	v := int64(r.upto(intLiteralBound))
	return Expression{Text: strconv.FormatInt(v, 10), Value: IntValue(v)}
}

func floatLiteral(r *rng) Expression {
	v := r.unit() * floatLiteralMax
	return Expression{Text: formatFloat(v), Value: FloatValue(v)}
}

func boolLiteral(r *rng) Expression {
	v := r.coin()
	return Expression{Text: strconv.FormatBool(v), Value: BoolValue(v)}
}

func literal(r *rng, t Type) Expression {
	switch t {
	case Int:
		return intLiteral(r)
	case Float:
		return floatLiteral(r)
	default:
		return boolLiteral(r)
	}
}
