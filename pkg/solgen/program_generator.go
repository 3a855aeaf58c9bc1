package solgen

import "fmt"

// absProgramGenerator produces one artifact per call, drawing from a random
// source it does not own.
type absProgramGenerator interface {
	goGenerator(index int) Artifact
}

func createProgramGenerator(opts Options, r *rng) absProgramGenerator {
	return newDefaultProgramGenerator(opts, r)
}

// Artifact is one generated test case: the program source and the value it
// must print.
type Artifact struct {
	Name       string
	ResultType Type
	// Program is the full source including the header.
	Program string
	Body    string
	Value   Value
	// Expected is the canonical decimal form of Value.
	Expected string
}

// Generator yields a deterministic sequence of artifacts for one seed. The
// i-th artifact depends on every draw made before it.
type Generator struct {
	opts Options
	r    *rng
	gen  absProgramGenerator
	next int
}

func New(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := newRNG(opts.Seed)
	return &Generator{opts: opts, r: r, gen: createProgramGenerator(opts, r), next: opts.Start}, nil
}

// Next generates the next artifact. Construction defects surface as errors
// and no artifact is returned.
func (g *Generator) Next() (a Artifact, err error) {
	index := g.next
	g.next++
	defer func() {
		if rec := recover(); rec != nil {
			e, ok := rec.(error)
			if !ok {
				panic(rec)
			}
			a, err = Artifact{}, fmt.Errorf("generate program %d: %w", index, e)
		}
	}()
	return g.gen.goGenerator(index), nil
}

// Generate emits count deterministic artifacts from options and seed.
func Generate(opts Options, count int) ([]Artifact, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative")
	}
	g, err := New(opts)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, 0, count)
	for i := 0; i < count; i++ {
		a, err := g.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
