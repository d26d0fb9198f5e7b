package gen

import (
	"bufio"
	"io"

	"github.com/syssam/modelcoder/model"
)

// Generation phases, as reported by GenerationError.
const (
	PhasePreamble     = "preamble"
	PhaseDeclarations = "declarations"
	PhaseOperations   = "operations"
	PhaseAssociations = "associations"
)

// Generator emits the source text of a graph.
//
// Emission is two-pass: all class blocks are declared first, then the
// association section wires them together, so a statement may refer to any
// class regardless of declaration order.
type Generator struct {
	graph   *Graph
	dialect Dialect
}

// NewGenerator creates a generator for g using the configured dialect.
func NewGenerator(g *Graph) (*Generator, error) {
	if g == nil {
		return nil, NewGenerationError("", "", "graph cannot be nil", nil)
	}
	if g.Dialect == nil {
		return nil, NewConfigError("Dialect", nil, "dialect is required; use WithDialect")
	}
	return &Generator{graph: g, dialect: g.Dialect}, nil
}

// block is the planned output of a single class.
type block struct {
	class      *model.Class
	override   string
	overridden bool
	members    []Member
	operations []string
	statements []Statement
}

// plan classifies every class before anything is written, so fatal
// classification errors never leave partial output behind.
func (gen *Generator) plan() ([]block, error) {
	g := gen.graph
	blocks := make([]block, 0, len(g.Nodes))
	for _, c := range g.Nodes {
		b := block{class: c}
		if _, code, ok := g.override(c.Name); ok {
			b.override, b.overridden = code, true
		} else {
			members, err := g.Members(c)
			if err != nil {
				return nil, err
			}
			b.members = members
		}
		for _, o := range sortedByName(c.Operations, func(o *model.Operation) string { return o.Name }) {
			if _, code, ok := g.override(c.Name + "." + o.Name); ok && code != "" {
				b.operations = append(b.operations, code)
			}
		}
		b.statements = g.Statements(c)
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Generate writes the generated source to w.
func (gen *Generator) Generate(w io.Writer) error {
	blocks, err := gen.plan()
	if err != nil {
		return err
	}
	e := &emitter{w: bufio.NewWriter(w)}
	d := gen.dialect

	e.phase = PhasePreamble
	e.write(d.Preamble(gen.graph.Header))
	e.write("\n\n")

	e.phase = PhaseDeclarations
	for _, b := range blocks {
		e.class = b.class.Name
		switch {
		case b.overridden:
			e.line(b.override)
		default:
			e.line(d.ClassHeader(b.class.Name, sortedByName(bases(b.class), func(s string) string { return s })))
			if len(b.members) == 0 {
				e.line(d.Indent() + d.EmptyBody())
			}
			for _, m := range b.members {
				e.line(d.Indent() + d.Member(m))
			}
		}
		e.write("\n\n")
	}

	e.phase, e.class = PhaseOperations, ""
	for _, b := range blocks {
		for _, code := range b.operations {
			e.line(code)
		}
	}
	e.write("\n")

	e.phase = PhaseAssociations
	for _, b := range blocks {
		for _, s := range b.statements {
			e.line(d.Statement(s))
		}
	}
	return e.flush()
}

// Generate writes the source text of g to w.
func Generate(g *Graph, w io.Writer) error {
	gen, err := NewGenerator(g)
	if err != nil {
		return err
	}
	return gen.Generate(w)
}

// emitter is a sticky-error line writer.
type emitter struct {
	w     *bufio.Writer
	phase string
	class string
	err   error
}

func (e *emitter) write(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.err = NewGenerationError(e.phase, e.class, "write failed", err)
	}
}

func (e *emitter) line(s string) {
	e.write(s)
	e.write("\n")
}

func (e *emitter) flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.w.Flush(); err != nil {
		return NewGenerationError(e.phase, "", "flush failed", err)
	}
	return nil
}
