package load

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/syssam/modelcoder/model"
)

// Document is the native model format. JSON documents use the same keys.
//
//	packages:
//	  - name: Core
//	    classes:
//	      - name: Element
//	        attributes:
//	          - {name: owner, type: Element, upper: "1", association: true, derived: true}
//	      - name: Comment
//	        bases: [Element]
//	        attributes:
//	          - {name: body, type: String}
//	    packages:
//	      - name: Profiles
//	        profile: true
type Document struct {
	Packages []*PackageSpec `yaml:"packages" json:"packages"`
}

// PackageSpec describes a package.
type PackageSpec struct {
	Name     string         `yaml:"name" json:"name"`
	Profile  bool           `yaml:"profile,omitempty" json:"profile,omitempty"`
	Classes  []*ClassSpec   `yaml:"classes,omitempty" json:"classes,omitempty"`
	Packages []*PackageSpec `yaml:"packages,omitempty" json:"packages,omitempty"`
}

// ClassSpec describes a class.
type ClassSpec struct {
	ID          string           `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string           `yaml:"name" json:"name"`
	Bases       []string         `yaml:"bases,omitempty" json:"bases,omitempty"`
	Stereotypes []string         `yaml:"stereotypes,omitempty" json:"stereotypes,omitempty"`
	Attributes  []*AttributeSpec `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Operations  []string         `yaml:"operations,omitempty" json:"operations,omitempty"`
}

// AttributeSpec describes a property.
type AttributeSpec struct {
	ID          string           `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string           `yaml:"name" json:"name"`
	Type        string           `yaml:"type,omitempty" json:"type,omitempty"`
	Lower       Literal          `yaml:"lower,omitempty" json:"lower,omitempty"`
	Upper       Literal          `yaml:"upper,omitempty" json:"upper,omitempty"`
	Derived     bool             `yaml:"derived,omitempty" json:"derived,omitempty"`
	Association bool             `yaml:"association,omitempty" json:"association,omitempty"`
	Aggregation string           `yaml:"aggregation,omitempty" json:"aggregation,omitempty"`
	Opposite    string           `yaml:"opposite,omitempty" json:"opposite,omitempty"`
	Default     Literal          `yaml:"default,omitempty" json:"default,omitempty"`
	Redefines   string           `yaml:"redefines,omitempty" json:"redefines,omitempty"`
	Subsets     string           `yaml:"subsets,omitempty" json:"subsets,omitempty"`
	Annotations []AnnotationSpec `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// AnnotationSpec describes an applied stereotype with its slots.
type AnnotationSpec struct {
	Stereotype string            `yaml:"stereotype" json:"stereotype"`
	Slots      map[string]string `yaml:"slots,omitempty" json:"slots,omitempty"`
}

// Literal is a scalar kept as written. Numbers, booleans and strings are
// all accepted, so upper: 1 and upper: "*" decode alike.
type Literal string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Literal) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: expected a scalar", n.Line)
	}
	*l = Literal(n.Value)
	return nil
}

// ReadDocument reads a model in the native format.
func ReadDocument(r io.Reader) (*model.Model, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode document")
	}
	return doc.Build()
}

// Build creates the model described by the document. Bases and opposites
// are resolved by name after all classes exist.
func (d *Document) Build() (*model.Model, error) {
	b := &docBuilder{m: model.New(), classes: make(map[string]*model.Class)}
	for _, p := range d.Packages {
		if err := b.pkg(nil, p); err != nil {
			return nil, err
		}
	}
	if err := b.resolve(); err != nil {
		return nil, err
	}
	return b.m, nil
}

type pendingBase struct {
	class *model.Class
	base  string
}

type pendingOpposite struct {
	prop     *model.Property
	opposite string
}

type docBuilder struct {
	m         *model.Model
	classes   map[string]*model.Class
	bases     []pendingBase
	opposites []pendingOpposite
}

func (b *docBuilder) pkg(owner *model.Package, spec *PackageSpec) error {
	if spec == nil {
		return nil
	}
	p, err := b.m.NewPackage("", spec.Name)
	if err != nil {
		return err
	}
	p.Profile = spec.Profile
	if owner != nil {
		owner.AddPackage(p)
	}
	for _, cs := range spec.Classes {
		if err := b.class(p, cs); err != nil {
			return err
		}
	}
	for _, ps := range spec.Packages {
		if err := b.pkg(p, ps); err != nil {
			return err
		}
	}
	return nil
}

func (b *docBuilder) class(p *model.Package, spec *ClassSpec) error {
	if spec == nil {
		return nil
	}
	if spec.Name == "" {
		return errors.Newf("package %q: class without a name", p.Name)
	}
	c, err := b.m.NewClass(spec.ID, spec.Name)
	if err != nil {
		return errors.Wrapf(err, "class %s", spec.Name)
	}
	p.AddClass(c)
	if _, ok := b.classes[c.Name]; !ok {
		b.classes[c.Name] = c
	}
	for _, s := range spec.Stereotypes {
		a, err := b.m.NewAnnotation("", s)
		if err != nil {
			return err
		}
		c.Annotations = append(c.Annotations, a)
	}
	for _, base := range spec.Bases {
		b.bases = append(b.bases, pendingBase{class: c, base: base})
	}
	for _, as := range spec.Attributes {
		if err := b.attribute(c, as); err != nil {
			return errors.Wrapf(err, "class %s", c.Name)
		}
	}
	for _, name := range spec.Operations {
		o, err := b.m.NewOperation("", name)
		if err != nil {
			return err
		}
		c.AddOperation(o)
	}
	return nil
}

func (b *docBuilder) attribute(c *model.Class, spec *AttributeSpec) error {
	if spec == nil {
		return nil
	}
	if spec.Name == "" {
		return errors.New("attribute without a name")
	}
	agg, err := model.ParseAggregation(spec.Aggregation)
	if err != nil {
		return errors.Wrapf(err, "attribute %s", spec.Name)
	}
	p, err := b.m.NewProperty(spec.ID, spec.Name)
	if err != nil {
		return errors.Wrapf(err, "attribute %s", spec.Name)
	}
	p.Type = model.Placeholder(spec.Type)
	p.Lower = strings.TrimSpace(string(spec.Lower))
	p.Upper = strings.TrimSpace(string(spec.Upper))
	p.Derived = spec.Derived
	p.Association = spec.Association
	p.Aggregation = agg
	p.Default = string(spec.Default)
	c.AddAttribute(p)

	if spec.Redefines != "" || spec.Subsets != "" {
		a, err := b.m.NewAnnotation("", "")
		if err != nil {
			return err
		}
		if spec.Redefines != "" {
			a.SetSlot("redefines", spec.Redefines)
		}
		if spec.Subsets != "" {
			a.SetSlot("subsets", spec.Subsets)
		}
		p.Annotations = append(p.Annotations, a)
	}
	for _, as := range spec.Annotations {
		a, err := b.m.NewAnnotation("", as.Stereotype)
		if err != nil {
			return err
		}
		for _, k := range slices.Sorted(maps.Keys(as.Slots)) {
			a.SetSlot(k, as.Slots[k])
		}
		p.Annotations = append(p.Annotations, a)
	}
	if spec.Opposite != "" {
		b.opposites = append(b.opposites, pendingOpposite{prop: p, opposite: spec.Opposite})
	}
	return nil
}

func (b *docBuilder) resolve() error {
	for _, pb := range b.bases {
		base, ok := b.classes[pb.base]
		if !ok {
			return errors.Newf("class %s: unknown base class %q", pb.class.Name, pb.base)
		}
		if _, err := b.m.NewGeneralization("", pb.class, base); err != nil {
			return err
		}
	}
	for _, po := range b.opposites {
		cls, attr, ok := strings.Cut(po.opposite, ".")
		if !ok {
			return errors.Newf("attribute %s: opposite %q is not of the form Class.attribute", po.prop.QualifiedName(), po.opposite)
		}
		c, ok := b.classes[cls]
		if !ok || c.Attribute(attr) == nil {
			return errors.Newf("attribute %s: unknown opposite %q", po.prop.QualifiedName(), po.opposite)
		}
		po.prop.Opposite = c.Attribute(attr)
	}
	return nil
}
