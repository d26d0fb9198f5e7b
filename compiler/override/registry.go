// Package override holds hand-written replacements for generated code.
//
// An override is keyed by a qualified name, either "Class" or
// "Class.member". It carries an optional type annotation, used where the
// member is declared, and a code body, used in place of the generated class
// block or association statement.
//
// Two file formats are understood. The text format:
//
//	# comments before the first entry are ignored
//	override Element.owner(Element.ownedElement): relation_one[Element]
//	Element.owner = derivedunion("owner", Element, upper=1)
//
// and a YAML mapping:
//
//	Element.owner:
//	  type: relation_one[Element]
//	  code: Element.owner = derivedunion("owner", Element, upper=1)
//	Comment.body: Comment.body = _attribute("body", str)
package override

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrDuplicate is returned when two entries share a qualified name.
var ErrDuplicate = errors.New("duplicate override")

// Entry is a single override.
type Entry struct {
	// Name is the qualified name the entry replaces.
	Name string `yaml:"-"`
	// Type is the declaration type annotation.
	Type string `yaml:"type,omitempty"`
	// Code is the replacement text.
	Code string `yaml:"code,omitempty"`
	// Deps are names the code depends on. They are informational.
	Deps []string `yaml:"deps,omitempty"`
}

// Registry maps qualified names to overrides. It is immutable once
// built; a nil *Registry behaves as an empty one.
type Registry struct {
	entries map[string]Entry
	names   []string
}

// New builds a registry from entries. Duplicate names are an error.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New("override without a name")
		}
		if _, ok := r.entries[e.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicate, "%q", e.Name)
		}
		r.entries[e.Name] = e
		r.names = append(r.names, e.Name)
	}
	return r, nil
}

// Has reports whether an override exists for name.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.entries[name]
	return ok
}

// Type returns the type annotation of the override for name.
func (r *Registry) Type(name string) string {
	e, _ := r.Lookup(name)
	return e.Type
}

// Code returns the code body of the override for name.
func (r *Registry) Code(name string) string {
	e, _ := r.Lookup(name)
	return e.Code
}

// Lookup returns the entry for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[name]
	return e, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Names returns the qualified names in definition order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.names)
}
