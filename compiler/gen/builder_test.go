package gen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/modelcoder/model"
)

// builder assembles small models for tests.
type builder struct {
	t   testing.TB
	m   *model.Model
	pkg *model.Package
}

func newBuilder(t testing.TB) *builder {
	t.Helper()
	m := model.New()
	p, err := m.NewPackage("", "Model")
	require.NoError(t, err)
	return &builder{t: t, m: m, pkg: p}
}

func (b *builder) class(name string, bases ...*model.Class) *model.Class {
	b.t.Helper()
	return b.classIn(b.pkg, name, bases...)
}

func (b *builder) classIn(p *model.Package, name string, bases ...*model.Class) *model.Class {
	b.t.Helper()
	c, err := b.m.NewClass("", name)
	require.NoError(b.t, err)
	p.AddClass(c)
	for _, base := range bases {
		b.generalize(c, base)
	}
	return c
}

func (b *builder) generalize(specific, general *model.Class) {
	b.t.Helper()
	_, err := b.m.NewGeneralization("", specific, general)
	require.NoError(b.t, err)
}

func (b *builder) profile(name string) *model.Package {
	b.t.Helper()
	p, err := b.m.NewPackage("", name)
	require.NoError(b.t, err)
	p.Profile = true
	b.pkg.AddPackage(p)
	return p
}

type attrOption func(*model.Property)

func assoc(upper string) attrOption {
	return func(p *model.Property) {
		p.Association = true
		p.Upper = upper
	}
}

func lower(l string) attrOption {
	return func(p *model.Property) { p.Lower = l }
}

func derived() attrOption {
	return func(p *model.Property) { p.Derived = true }
}

func composite() attrOption {
	return func(p *model.Property) { p.Aggregation = model.AggregationComposite }
}

func defaultValue(v string) attrOption {
	return func(p *model.Property) { p.Default = v }
}

// attr adds an attribute whose type is the placeholder typ.
func (b *builder) attr(c *model.Class, name, typ string, opts ...attrOption) *model.Property {
	b.t.Helper()
	p, err := b.m.NewProperty("", name)
	require.NoError(b.t, err)
	p.Type = model.Placeholder(typ)
	for _, opt := range opts {
		opt(p)
	}
	c.AddAttribute(p)
	return p
}

func (b *builder) op(c *model.Class, name string) *model.Operation {
	b.t.Helper()
	o, err := b.m.NewOperation("", name)
	require.NoError(b.t, err)
	c.AddOperation(o)
	return o
}

func (b *builder) stereotype(c *model.Class, name string) {
	b.t.Helper()
	a, err := b.m.NewAnnotation("", name)
	require.NoError(b.t, err)
	c.Annotations = append(c.Annotations, a)
}

func (b *builder) slot(p *model.Property, feature, value string) {
	b.t.Helper()
	a, err := b.m.NewAnnotation("", "")
	require.NoError(b.t, err)
	a.SetSlot(feature, value)
	p.Annotations = append(p.Annotations, a)
}

// overrides is a map backed gen.Overrides.
type overrides map[string]struct{ typ, code string }

func (o overrides) Has(name string) bool {
	_, ok := o[name]
	return ok
}

func (o overrides) Type(name string) string { return o[name].typ }

func (o overrides) Code(name string) string { return o[name].code }
