package gen

import (
	"strings"

	"github.com/syssam/modelcoder/model"
)

// Statements returns the association section of c: attribute statements in
// name order, then redefinitions, then subset registrations.
func (g *Graph) Statements(c *model.Class) []Statement {
	var (
		stmts     []Statement
		redefines []Statement
		attrs     = sortedByName(c.Attributes, func(p *model.Property) string { return p.Name })
	)
	for _, p := range attrs {
		if _, code, ok := g.override(c.Name + "." + p.Name); ok {
			if code != "" {
				stmts = append(stmts, Statement{Kind: StatementOverride, Owner: c.Name, Name: p.Name, Code: code})
			}
			continue
		}
		if !p.Association || g.IsSimpleType(p.Type.Class()) {
			continue
		}
		if r, ok := p.Slot("redefines"); ok && r != "" {
			redefines = append(redefines, Statement{
				Kind:      StatementRedefine,
				Owner:     c.Name,
				Name:      p.Name,
				Type:      p.Type.Name(),
				Redefines: r,
			})
			continue
		}
		s := Statement{
			Kind:  StatementAssociation,
			Owner: c.Name,
			Name:  p.Name,
			Type:  p.Type.Name(),
			Lower: lowerBound(p.Lower),
			Upper: upperBound(p.Upper),
		}
		if p.Derived {
			s.Kind = StatementDerivedUnion
		} else {
			s.Composite = p.Aggregation == model.AggregationComposite
			if o := p.Opposite; o != nil && o.Name != "" && o.Owner != nil {
				s.Opposite = o.Name
			}
		}
		stmts = append(stmts, s)
	}
	stmts = append(stmts, redefines...)
	return append(stmts, g.subsets(c, attrs)...)
}

// subsets resolves the subset annotations of attrs against c and its
// ancestors. Unresolvable targets are logged and skipped.
func (g *Graph) subsets(c *model.Class, attrs []*model.Property) []Statement {
	var stmts []Statement
	for _, p := range attrs {
		if g.IsSimpleType(p.Type.Class()) {
			continue
		}
		for _, slot := range p.Slots("subsets") {
			for _, name := range strings.Split(slot, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				d := lookupAttribute(c, name)
				switch {
				case d == nil:
					g.logger().Warnw("subset target is not defined", "class", c.Name, "member", p.Name, "subsets", name)
				case !d.Derived:
					g.logger().Warnw("subset target is not a derived union", "class", c.Name, "member", p.Name, "subsets", name)
				default:
					owner := c.Name
					if d.Owner != nil {
						owner = d.Owner.Name
					}
					stmts = append(stmts, Statement{
						Kind:       StatementSubset,
						Owner:      c.Name,
						Name:       p.Name,
						UnionOwner: owner,
						Union:      d.Name,
					})
				}
			}
		}
	}
	return stmts
}

func lowerBound(s string) string {
	if s == "0" {
		return ""
	}
	return s
}

func upperBound(s string) string {
	if s == "*" {
		return ""
	}
	return s
}
