package solgen

import (
	"fmt"
	"strings"
)

const defaultHeader = "Integration test of a randomly generated program.\nNOTE: this file was auto-generated with solgen."

// Options is the canonical API-level configuration contract for generation.
// Defaults match the shape of the integration-test corpus programs.
type Options struct {
	Seed uint64

	// Naming
	Prefix string
	Start  int

	// Size/depth controls
	StatementCount     int
	MaxBranches        int
	MaxBlockStatements int
	MaxNesting         int
	MaxExprDepth       int

	// Production weights
	VarWeight int
	UnaryProb int

	// Feature switches
	Floats            bool
	CrossTypeFloatSum bool

	// Output
	Header   string
	NoHeader bool
}

func Defaults() Options {
	return Options{
		Seed:   1,
		Prefix: "random",
		Start:  1,

		StatementCount:     100,
		MaxBranches:        7,
		MaxBlockStatements: 9,
		MaxNesting:         3,
		MaxExprDepth:       16,

		VarWeight: 3,
		UnaryProb: 50,

		Floats:            true,
		CrossTypeFloatSum: true,

		Header:   defaultHeader,
		NoHeader: false,
	}
}

// IntsAndBools returns the profile of the ints-and-bools generator: no float
// type anywhere in the program.
func IntsAndBools() Options {
	o := Defaults()
	o.Prefix = "ints_and_bools_random"
	o.Floats = false
	return o
}

func (o Options) Validate() error {
	if strings.TrimSpace(o.Prefix) == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	if strings.ContainsAny(o.Prefix, `/\`) {
		return fmt.Errorf("prefix must not contain path separators")
	}
	if o.StatementCount < 1 {
		return fmt.Errorf("statements must be at least 1")
	}
	if o.MaxBranches < 2 {
		return fmt.Errorf("max-branches must be at least 2")
	}
	if o.MaxBlockStatements < 1 {
		return fmt.Errorf("max-block-statements must be at least 1")
	}
	if o.MaxNesting < 0 {
		return fmt.Errorf("max-nesting must not be negative")
	}
	if o.MaxExprDepth < 1 {
		return fmt.Errorf("max-expr-depth must be at least 1")
	}
	if o.VarWeight < 0 {
		return fmt.Errorf("var-weight must not be negative")
	}
	if o.UnaryProb < 0 || o.UnaryProb > 100 {
		return fmt.Errorf("unary-prob value must between [0,100]")
	}
	return nil
}

// types lists the enabled statement and result types in draw order.
func (o Options) types() []Type {
	if o.Floats {
		return []Type{Int, Float, Bool}
	}
	return []Type{Int, Bool}
}

func (o Options) numericTypes() []Type {
	if o.Floats {
		return []Type{Int, Float}
	}
	return []Type{Int}
}
