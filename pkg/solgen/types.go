package solgen

import "fmt"

// Type is a Solis scalar type.
type Type int

const (
	Int Type = iota
	Float
	Bool
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType maps a Solis type keyword to its Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "bool":
		return Bool, nil
	}
	return 0, fmt.Errorf("unknown type %q", s)
}

// Value is the runtime value of an expression. Only the field selected by
// Type is meaningful.
type Value struct {
	Type  Type
	Int   int64
	Float float64
	Bool  bool
}

func IntValue(v int64) Value     { return Value{Type: Int, Int: v} }
func FloatValue(v float64) Value { return Value{Type: Float, Float: v} }
func BoolValue(v bool) Value     { return Value{Type: Bool, Bool: v} }

// AsFloat promotes a numeric value to float64.
func (v Value) AsFloat() float64 {
	if v.Type == Int {
		return float64(v.Int)
	}
	return v.Float
}

// Equal compares two values of the same type with native equality.
func (v Value) Equal(o Value) bool {
	switch v.Type {
	case Int:
		return v.Int == o.Int
	case Float:
		return v.Float == o.Float
	default:
		return v.Bool == o.Bool
	}
}

func (v Value) String() string {
	switch v.Type {
	case Int:
		return fmt.Sprintf("%d", v.Int)
	case Float:
		return formatFloat(v.Float)
	default:
		return fmt.Sprintf("%t", v.Bool)
	}
}

// Expression is a generated source fragment paired with the value it
// evaluates to.
type Expression struct {
	Text  string
	Value Value
}

// Binding is an immutable local introduced with `let`.
type Binding struct {
	Name  string
	Type  Type
	Value Value
}
