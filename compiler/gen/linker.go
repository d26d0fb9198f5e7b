package gen

import (
	"github.com/syssam/modelcoder/model"
)

// LinkReport counts the outcome of a linking pass.
type LinkReport struct {
	// Canonicalized counts placeholders rewritten to primitives.
	Canonicalized int
	// Resolved counts placeholders resolved to in-model classes.
	Resolved int
	// Unresolved counts placeholders left as-is.
	Unresolved int
}

// Linker normalizes property types. It is a one-shot phase run over the
// whole model before any other component reads it.
type Linker struct {
	primitives map[string]string
}

// NewLinker returns a linker using the given primitive mapping.
func NewLinker(primitives map[string]string) *Linker {
	return &Linker{primitives: primitives}
}

// Link rewrites every placeholder type of m. A well-known name becomes its
// canonical primitive, the name of a class in the model becomes a reference
// to that class, anything else is left alone. Linking a linked model again
// changes nothing.
func (l *Linker) Link(m *model.Model) LinkReport {
	var (
		report  LinkReport
		classes = make(map[string]*model.Class)
	)
	for _, c := range m.Classes() {
		if _, ok := classes[c.Name]; !ok && c.Name != "" {
			classes[c.Name] = c
		}
	}
	for _, p := range m.Properties() {
		if p.Type.Kind() != model.TypePlaceholder {
			continue
		}
		name := p.Type.Name()
		if prim, ok := l.primitives[name]; ok {
			p.Type = model.Primitive(prim)
			report.Canonicalized++
			continue
		}
		if c, ok := classes[name]; ok {
			p.Type = model.ClassType(c)
			report.Resolved++
			continue
		}
		report.Unresolved++
	}
	return report
}
