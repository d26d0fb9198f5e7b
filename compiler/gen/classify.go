package gen

import (
	"slices"
	"strings"

	"github.com/syssam/modelcoder/model"
)

// Members classifies the attributes and operations of c into the
// declarations of its class block, attributes first, each group sorted by
// name. Features without an implementation are logged and omitted.
func (g *Graph) Members(c *model.Class) ([]Member, error) {
	log := g.logger()
	var members []Member
	for _, p := range sortedByName(c.Attributes, func(p *model.Property) string { return p.Name }) {
		m, ok, err := g.classify(c, p)
		if err != nil {
			return nil, err
		}
		if ok {
			members = append(members, m)
		}
	}
	for _, o := range sortedByName(c.Operations, func(o *model.Operation) string { return o.Name }) {
		typ, _, ok := g.override(c.Name + "." + o.Name)
		if !ok {
			log.Warnw("operation has no implementation", "class", c.Name, "member", o.Name)
			continue
		}
		if typ != "" {
			members = append(members, Member{Kind: MemberOperation, Name: o.Name, Type: typ})
		}
	}
	return members, nil
}

func (g *Graph) classify(c *model.Class, p *model.Property) (Member, bool, error) {
	if typ, _, ok := g.override(c.Name + "." + p.Name); ok {
		if typ == "" {
			return Member{}, false, nil
		}
		return Member{Kind: MemberOverride, Name: p.Name, Type: typ}, true, nil
	}
	target := p.Type.Class()
	switch {
	case p.Derived && !p.Association:
		g.logger().Warnw("derived attribute has no implementation", "class", c.Name, "member", p.Name)
		return Member{}, false, nil
	case p.Association && g.IsSimpleType(target):
		return Member{Kind: MemberSimple, Name: p.Name}, true, nil
	case p.Association:
		return Member{
			Kind:         MemberRelation,
			Name:         p.Name,
			Type:         p.Type.Name(),
			Many:         p.Upper != "1",
			Reassignment: isReassignment(c, p.Name),
		}, true, nil
	case g.IsEnumeration(target):
		if len(target.Attributes) == 0 {
			g.logger().Warnw("enumeration has no literals", "class", c.Name, "member", p.Name, "type", target.Name)
			return Member{}, false, nil
		}
		literals := make([]string, 0, len(target.Attributes))
		for _, a := range target.Attributes {
			literals = append(literals, a.Name)
		}
		return Member{Kind: MemberEnumeration, Name: p.Name, Literals: literals, Default: literals[0]}, true, nil
	default:
		m := Member{Kind: MemberScalar, Name: p.Name, Type: p.Type.Name()}
		if p.Default != "" {
			if g.Dialect == nil {
				return Member{}, false, NewConfigError("Dialect", nil, "a dialect is required to render default values")
			}
			v, ok := g.Dialect.DefaultValue(m.Type, p.Default)
			if !ok {
				return Member{}, false, NewDefaultValueError(c.Name, p.Name, m.Type, p.Default)
			}
			m.Default = v
		}
		return m, true, nil
	}
}

// isReassignment reports whether a strict ancestor of c owns an attribute
// with the given name.
func isReassignment(c *model.Class, name string) bool {
	found := false
	ancestors(c, func(a *model.Class) bool {
		found = a.Attribute(name) != nil
		return !found
	})
	return found
}

// sortedByName returns a copy of s stably sorted by name.
func sortedByName[T any](s []T, name func(T) string) []T {
	sorted := slices.Clone(s)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return strings.Compare(name(a), name(b))
	})
	return sorted
}
