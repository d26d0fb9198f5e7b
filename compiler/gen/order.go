package gen

import (
	"github.com/syssam/modelcoder/model"
)

// OrderClasses orders classes so that every class follows its bases.
// Bases outside classes are walked through but not returned, so a class
// still follows a grand-base behind an excluded base. The order is stable:
// roots are visited in input order and bases in edge order. A
// generalization cycle reachable from classes fails with a
// GeneralizationError.
func OrderClasses(classes []*model.Class) ([]*model.Class, error) {
	o := &orderer{
		set:   make(map[*model.Class]bool, len(classes)),
		state: make(map[*model.Class]visitState, len(classes)),
		out:   make([]*model.Class, 0, len(classes)),
	}
	for _, c := range classes {
		o.set[c] = true
	}
	for _, c := range classes {
		if err := o.visit(c); err != nil {
			return nil, err
		}
	}
	return o.out, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

type orderer struct {
	set   map[*model.Class]bool
	state map[*model.Class]visitState
	path  []*model.Class
	out   []*model.Class
}

func (o *orderer) visit(c *model.Class) error {
	switch o.state[c] {
	case visited:
		return nil
	case visiting:
		return o.cycle(c)
	}
	o.state[c] = visiting
	o.path = append(o.path, c)
	for _, b := range c.Bases() {
		if err := o.visit(b); err != nil {
			return err
		}
	}
	o.path = o.path[:len(o.path)-1]
	o.state[c] = visited
	if o.set[c] {
		o.out = append(o.out, c)
	}
	return nil
}

// cycle builds the error for a cycle closed at c.
func (o *orderer) cycle(c *model.Class) error {
	start := 0
	for i, n := range o.path {
		if n == c {
			start = i
			break
		}
	}
	names := make([]string, 0, len(o.path)-start+1)
	for _, n := range o.path[start:] {
		names = append(names, n.Name)
	}
	names = append(names, c.Name)
	return NewGeneralizationError(names...)
}
