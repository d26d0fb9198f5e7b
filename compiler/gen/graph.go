package gen

import (
	"github.com/syssam/modelcoder/model"
)

// Graph is a linked model together with its ordered generation set.
type Graph struct {
	*Config
	// Model is the linked model.
	Model *model.Model
	// Nodes are the classes to declare, every class after its bases.
	Nodes []*model.Class
	// Link is the report of the linking pass.
	Link LinkReport
}

// NewGraph links m, selects the generation set and orders it.
// The model is mutated by the linking pass.
func NewGraph(c *Config, m *model.Model) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if m == nil {
		return nil, NewModelError("", "", "model cannot be nil", nil)
	}
	g := &Graph{Config: c, Model: m}
	g.Link = NewLinker(c.Primitives).Link(m)
	c.logger().Debugw("linked model",
		"canonicalized", g.Link.Canonicalized,
		"resolved", g.Link.Resolved,
		"unresolved", g.Link.Unresolved,
	)
	nodes, err := OrderClasses(c.SelectClasses(m))
	if err != nil {
		return nil, err
	}
	g.Nodes = nodes
	return g, nil
}

// bases returns the names of the direct bases of c.
func bases(c *model.Class) []string {
	bs := c.Bases()
	names := make([]string, 0, len(bs))
	for _, b := range bs {
		names = append(names, b.Name)
	}
	return names
}

// ancestors calls fn for every strict ancestor of c, depth first in edge
// order, until fn returns false. Each ancestor is visited once.
func ancestors(c *model.Class, fn func(*model.Class) bool) {
	seen := map[*model.Class]bool{c: true}
	var walk func(*model.Class) bool
	walk = func(n *model.Class) bool {
		for _, b := range n.Bases() {
			if seen[b] {
				continue
			}
			seen[b] = true
			if !fn(b) || !walk(b) {
				return false
			}
		}
		return true
	}
	walk(c)
}

// lookupAttribute finds the attribute named name in c or its ancestors.
func lookupAttribute(c *model.Class, name string) *model.Property {
	if p := c.Attribute(name); p != nil {
		return p
	}
	var found *model.Property
	ancestors(c, func(a *model.Class) bool {
		found = a.Attribute(name)
		return found == nil
	})
	return found
}
