package solgen

import (
	"fmt"
	"strings"
)

// defaultProgramGenerator follows the flow
// initialize -> outputHeader -> generateBody -> output.
type defaultProgramGenerator struct {
	opts       Options
	ctx        *genContext
	b          strings.Builder
	name       string
	index      int
	resultType Type
	body       Expression
}

func newDefaultProgramGenerator(opts Options, r *rng) *defaultProgramGenerator {
	return &defaultProgramGenerator{opts: opts, ctx: newGenContext(opts, r)}
}

func (g *defaultProgramGenerator) initialize(index int) {
	g.b.Reset()
	g.ctx.reset()
	g.index = index
	g.name = fmt.Sprintf("%s_%d", g.opts.Prefix, index)
}

func (g *defaultProgramGenerator) outputHeader() {
	if g.opts.NoHeader {
		return
	}
	g.b.WriteString("##\n")
	for _, line := range strings.Split(strings.TrimRight(g.opts.Header, "\n"), "\n") {
		// A stray ## would close the block comment early.
		g.b.WriteString(strings.ReplaceAll(line, "##", "# #"))
		g.b.WriteString("\n")
	}
	g.b.WriteString(fmt.Sprintf("Seed: %d, program: %d\n", g.opts.Seed, g.index))
	g.b.WriteString("##\n\n")
}

func (g *defaultProgramGenerator) generateBody() {
	g.resultType, g.body = g.ctx.program()
	g.b.WriteString(g.body.Text)
	g.b.WriteString("\n")
}

func (g *defaultProgramGenerator) output() Artifact {
	return Artifact{
		Name:       g.name,
		ResultType: g.resultType,
		Program:    g.b.String(),
		Body:       g.body.Text,
		Value:      g.body.Value,
		Expected:   Canonical(g.body.Value),
	}
}

func (g *defaultProgramGenerator) goGenerator(index int) Artifact {
	g.initialize(index)
	g.outputHeader()
	g.generateBody()
	return g.output()
}
