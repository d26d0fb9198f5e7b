package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind identifies the kind of an element.
type Kind uint8

const (
	KindPackage Kind = iota + 1
	KindClass
	KindProperty
	KindOperation
	KindGeneralization
	KindAnnotation
)

var kindNames = [...]string{
	KindPackage:        "Package",
	KindClass:          "Class",
	KindProperty:       "Property",
	KindOperation:      "Operation",
	KindGeneralization: "Generalization",
	KindAnnotation:     "Annotation",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Element is a node of the model graph.
type Element interface {
	// ID returns the identity of the element, unique within its model.
	ID() string
	// Kind returns the element kind.
	Kind() Kind
}

type element struct {
	id string
}

func (e *element) ID() string { return e.id }

// Aggregation is the aggregation kind of a property.
type Aggregation uint8

const (
	AggregationNone Aggregation = iota
	AggregationShared
	AggregationComposite
)

// ParseAggregation parses "none", "shared" or "composite". The empty string
// is AggregationNone.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AggregationNone, nil
	case "shared":
		return AggregationShared, nil
	case "composite":
		return AggregationComposite, nil
	default:
		return AggregationNone, errors.Newf("unknown aggregation kind %q", s)
	}
}

// String returns the aggregation kind name.
func (a Aggregation) String() string {
	switch a {
	case AggregationShared:
		return "shared"
	case AggregationComposite:
		return "composite"
	default:
		return "none"
	}
}

type (
	// Package is a named container of classes and nested packages.
	Package struct {
		element
		// Name of the package.
		Name string
		// Owner is the enclosing package, nil for root packages.
		Owner *Package
		// Profile marks a package holding profile content only.
		Profile bool
		// Packages are the nested packages.
		Packages []*Package
		// Classes are the owned classes.
		Classes []*Class
	}

	// Class is a classifier with owned properties and operations.
	Class struct {
		element
		// Name of the class.
		Name string
		// Package is the owning package, if any.
		Package *Package
		// Attributes are the owned properties in declaration order.
		Attributes []*Property
		// Operations are the owned operations.
		Operations []*Operation
		// Generalizations are the outgoing edges to the direct bases.
		Generalizations []*Generalization
		// Annotations are the applied stereotypes.
		Annotations []*Annotation
	}

	// Property is an attribute of a class.
	Property struct {
		element
		// Name of the property.
		Name string
		// Owner is the class owning the property.
		Owner *Class
		// Type of the property.
		Type TypeRef
		// Lower and Upper hold the multiplicity bounds as literals.
		// An Upper of "*" is unbounded; empty means not declared.
		Lower, Upper string
		// Derived marks a computed property.
		Derived bool
		// Aggregation kind of the property.
		Aggregation Aggregation
		// Opposite is the other end of the association. It is a weak
		// reference, used for its name only.
		Opposite *Property
		// Association reports whether the property is an association end
		// rather than a plain value holder.
		Association bool
		// Default is the default value literal; empty means none.
		Default string
		// Annotations are the applied stereotypes.
		Annotations []*Annotation
	}

	// Operation is a behavioral feature of a class.
	Operation struct {
		element
		Name  string
		Owner *Class
	}

	// Generalization is a directed edge from a specific class to its general class.
	Generalization struct {
		element
		Specific *Class
		General  *Class
	}

	// Annotation is an applied stereotype together with its slot values.
	Annotation struct {
		element
		// Stereotype is the name of the applied stereotype.
		Stereotype string
		// Slots hold the tagged values of the application.
		Slots []Slot
	}

	// Slot is a tagged value keyed by the name of its defining feature.
	Slot struct {
		Feature string
		Value   string
	}
)

func (*Package) Kind() Kind        { return KindPackage }
func (*Class) Kind() Kind          { return KindClass }
func (*Property) Kind() Kind       { return KindProperty }
func (*Operation) Kind() Kind      { return KindOperation }
func (*Generalization) Kind() Kind { return KindGeneralization }
func (*Annotation) Kind() Kind     { return KindAnnotation }

// AddPackage nests n in p.
func (p *Package) AddPackage(n *Package) {
	n.Owner = p
	p.Packages = append(p.Packages, n)
}

// AddClass makes the package the owner of c.
func (p *Package) AddClass(c *Class) {
	c.Package = p
	p.Classes = append(p.Classes, c)
}

// InProfile reports whether p or any of its enclosing packages is a profile.
func (p *Package) InProfile() bool {
	seen := make(map[*Package]bool)
	for ; p != nil && !seen[p]; p = p.Owner {
		if p.Profile {
			return true
		}
		seen[p] = true
	}
	return false
}

// AddAttribute appends an owned property.
func (c *Class) AddAttribute(p *Property) {
	p.Owner = c
	c.Attributes = append(c.Attributes, p)
}

// AddOperation appends an owned operation.
func (c *Class) AddOperation(o *Operation) {
	o.Owner = c
	c.Operations = append(c.Operations, o)
}

// Attribute returns the owned property with the given name.
func (c *Class) Attribute(name string) *Property {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Bases returns the direct general classes in edge order.
func (c *Class) Bases() []*Class {
	bases := make([]*Class, 0, len(c.Generalizations))
	for _, g := range c.Generalizations {
		if g.General != nil {
			bases = append(bases, g.General)
		}
	}
	return bases
}

// HasStereotype reports whether a stereotype with the given name is applied
// to the class itself.
func (c *Class) HasStereotype(name string) bool {
	return hasStereotype(c.Annotations, name)
}

// InProfile reports whether the class lives in a profile package.
func (c *Class) InProfile() bool {
	return c.Package.InProfile()
}

// QualifiedName returns "Class.property".
func (p *Property) QualifiedName() string {
	if p.Owner == nil {
		return p.Name
	}
	return p.Owner.Name + "." + p.Name
}

// Slot returns the value of the first slot defined by feature across the
// applied stereotypes.
func (p *Property) Slot(feature string) (string, bool) {
	for _, a := range p.Annotations {
		if v, ok := a.Slot(feature); ok {
			return v, true
		}
	}
	return "", false
}

// Slots returns the values of all slots defined by feature.
func (p *Property) Slots(feature string) []string {
	var vs []string
	for _, a := range p.Annotations {
		for _, s := range a.Slots {
			if s.Feature == feature {
				vs = append(vs, s.Value)
			}
		}
	}
	return vs
}

// QualifiedName returns "Class.operation".
func (o *Operation) QualifiedName() string {
	if o.Owner == nil {
		return o.Name
	}
	return o.Owner.Name + "." + o.Name
}

// Slot returns the value of the slot defined by feature.
func (a *Annotation) Slot(feature string) (string, bool) {
	for _, s := range a.Slots {
		if s.Feature == feature {
			return s.Value, true
		}
	}
	return "", false
}

// SetSlot adds or replaces the slot defined by feature.
func (a *Annotation) SetSlot(feature, value string) {
	for i := range a.Slots {
		if a.Slots[i].Feature == feature {
			a.Slots[i].Value = value
			return
		}
	}
	a.Slots = append(a.Slots, Slot{Feature: feature, Value: value})
}

func hasStereotype(as []*Annotation, name string) bool {
	for _, a := range as {
		if a.Stereotype == name {
			return true
		}
	}
	return false
}
