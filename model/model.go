package model

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Model is an object graph of elements kept in creation order.
type Model struct {
	elements []Element
	byID     map[string]Element
	seq      int
}

// New returns an empty model.
func New() *Model {
	return &Model{byID: make(map[string]Element)}
}

// Len returns the number of elements.
func (m *Model) Len() int { return len(m.elements) }

// Lookup returns the element with the given id, or nil.
func (m *Model) Lookup(id string) Element { return m.byID[id] }

// Select returns the elements of the given kind, in creation order, for
// which pred holds. A nil predicate selects every element of the kind.
func (m *Model) Select(kind Kind, pred func(Element) bool) []Element {
	var es []Element
	for _, e := range m.elements {
		if e.Kind() != kind {
			continue
		}
		if pred == nil || pred(e) {
			es = append(es, e)
		}
	}
	return es
}

// Packages returns all packages.
func (m *Model) Packages() []*Package { return selectAll[*Package](m, KindPackage) }

// Classes returns all classes.
func (m *Model) Classes() []*Class { return selectAll[*Class](m, KindClass) }

// Properties returns all properties.
func (m *Model) Properties() []*Property { return selectAll[*Property](m, KindProperty) }

// ClassByName returns the first class, in creation order, with the given name.
func (m *Model) ClassByName(name string) *Class {
	for _, e := range m.elements {
		if c, ok := e.(*Class); ok && c.Name == name {
			return c
		}
	}
	return nil
}

// NewPackage creates a package. An empty id is replaced by a generated one.
func (m *Model) NewPackage(id, name string) (*Package, error) {
	p := &Package{Name: name}
	return p, m.add(&p.element, p, id)
}

// NewClass creates a class.
func (m *Model) NewClass(id, name string) (*Class, error) {
	c := &Class{Name: name}
	return c, m.add(&c.element, c, id)
}

// NewProperty creates a property. The property has no owner until it is
// added to a class.
func (m *Model) NewProperty(id, name string) (*Property, error) {
	p := &Property{Name: name}
	return p, m.add(&p.element, p, id)
}

// NewOperation creates an operation.
func (m *Model) NewOperation(id, name string) (*Operation, error) {
	o := &Operation{Name: name}
	return o, m.add(&o.element, o, id)
}

// NewGeneralization creates the edge specific -> general and registers it
// with the specific class.
func (m *Model) NewGeneralization(id string, specific, general *Class) (*Generalization, error) {
	if specific == nil || general == nil {
		return nil, errors.Newf("generalization %q: both ends are required", id)
	}
	g := &Generalization{Specific: specific, General: general}
	if err := m.add(&g.element, g, id); err != nil {
		return nil, err
	}
	specific.Generalizations = append(specific.Generalizations, g)
	return g, nil
}

// NewAnnotation creates a stereotype application.
func (m *Model) NewAnnotation(id, stereotype string) (*Annotation, error) {
	a := &Annotation{Stereotype: stereotype}
	return a, m.add(&a.element, a, id)
}

func (m *Model) add(base *element, e Element, id string) error {
	if id == "" {
		id = m.nextID(e.Kind())
	}
	if _, ok := m.byID[id]; ok {
		return errors.Newf("duplicate element id %q", id)
	}
	base.id = id
	m.byID[id] = e
	m.elements = append(m.elements, e)
	return nil
}

func (m *Model) nextID(k Kind) string {
	for {
		m.seq++
		id := k.String() + "-" + strconv.Itoa(m.seq)
		if _, ok := m.byID[id]; !ok {
			return id
		}
	}
}

func selectAll[T Element](m *Model, kind Kind) []T {
	var ts []T
	for _, e := range m.elements {
		if e.Kind() == kind {
			ts = append(ts, e.(T))
		}
	}
	return ts
}
