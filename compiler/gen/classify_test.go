package gen_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/modelcoder/compiler/gen"
	"github.com/syssam/modelcoder/compiler/gen/python"
	"github.com/syssam/modelcoder/model"
)

// newGraph builds a graph with the python dialect and an observed logger.
func newGraph(t *testing.T, m *model.Model, opts ...gen.Option) (*gen.Graph, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	opts = append([]gen.Option{
		gen.WithDialect(python.NewDialect()),
		gen.WithLogger(zap.New(core).Sugar()),
	}, opts...)
	g, err := gen.NewGraph(gen.MustNewConfig(opts...), m)
	require.NoError(t, err)
	return g, logs
}

func TestGraph_Members(t *testing.T) {
	b := newBuilder(t)
	kind := b.class("AggregationKind")
	b.attr(kind, "none", "")
	b.attr(kind, "shared", "")
	b.attr(kind, "composite", "")
	text := b.class("LiteralText")
	b.stereotype(text, "SimpleAttribute")

	elem := b.class("Element")
	b.attr(elem, "owner", "Element", assoc("1"), derived())
	b.attr(elem, "ownedElement", "Element", assoc("*"), derived())
	prop := b.class("Property", elem)
	b.attr(prop, "name", "String")
	b.attr(prop, "body", "LiteralText", assoc("1"))
	b.attr(prop, "aggregation", "AggregationKind")
	b.attr(prop, "isDerived", "Boolean", defaultValue("false"))
	b.attr(prop, "default", "String", defaultValue("x"))
	b.attr(prop, "ownedElement", "Element", assoc("*"))
	b.attr(prop, "qualifiedName", "String", derived())
	b.attr(prop, "when", "")

	g, logs := newGraph(t, b.m)
	members, err := g.Members(prop)
	require.NoError(t, err)

	assert.Equal(t, []gen.Member{
		{Kind: gen.MemberEnumeration, Name: "aggregation", Literals: []string{"none", "shared", "composite"}, Default: "none"},
		{Kind: gen.MemberSimple, Name: "body"},
		{Kind: gen.MemberScalar, Name: "default", Type: "str", Default: `"x"`},
		{Kind: gen.MemberScalar, Name: "isDerived", Type: "int", Default: "False"},
		{Kind: gen.MemberScalar, Name: "name", Type: "str"},
		{Kind: gen.MemberRelation, Name: "ownedElement", Type: "Element", Many: true, Reassignment: true},
		{Kind: gen.MemberScalar, Name: "when"},
	}, members)

	warnings := logs.FilterMessage("derived attribute has no implementation").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "qualifiedName", warnings[0].ContextMap()["member"])

	members, err = g.Members(elem)
	require.NoError(t, err)
	assert.Equal(t, []gen.Member{
		{Kind: gen.MemberRelation, Name: "ownedElement", Type: "Element", Many: true},
		{Kind: gen.MemberRelation, Name: "owner", Type: "Element"},
	}, members)
}

func TestGraph_Members_Overrides(t *testing.T) {
	b := newBuilder(t)
	owner := b.class("Owner")
	b.attr(owner, "children", "Child", assoc("*"))
	b.attr(owner, "hidden", "String")
	b.op(owner, "isValid")
	b.op(owner, "missing")
	b.op(owner, "helper")
	b.class("Child")

	g, logs := newGraph(t, b.m, gen.WithOverrides(overrides{
		"Owner.children": {typ: "relation_many[Child]", code: "Owner.children = custom()"},
		"Owner.hidden":   {code: "Owner.hidden = derived()"},
		"Owner.isValid":  {typ: "Callable[[], bool]", code: "Owner.isValid = lambda self: True"},
		"Owner.helper":   {},
	}))
	members, err := g.Members(owner)
	require.NoError(t, err)

	assert.Equal(t, []gen.Member{
		{Kind: gen.MemberOverride, Name: "children", Type: "relation_many[Child]"},
		{Kind: gen.MemberOperation, Name: "isValid", Type: "Callable[[], bool]"},
	}, members)
	warnings := logs.FilterMessage("operation has no implementation").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "missing", warnings[0].ContextMap()["member"])
}

func TestGraph_Members_EmptyEnumeration(t *testing.T) {
	b := newBuilder(t)
	b.class("VisibilityKind")
	c := b.class("Element")
	b.attr(c, "visibility", "VisibilityKind")

	g, logs := newGraph(t, b.m)
	members, err := g.Members(c)
	require.NoError(t, err)
	assert.Empty(t, members)
	assert.Equal(t, 1, logs.FilterMessage("enumeration has no literals").Len())
}

func TestGraph_Members_UnrenderableDefault(t *testing.T) {
	b := newBuilder(t)
	c := b.class("Element")
	b.attr(c, "ratio", "Real", defaultValue("1.5"))

	g, _ := newGraph(t, b.m)
	_, err := g.Members(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gen.ErrUnrenderableDefault))
	var defErr *gen.DefaultValueError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "Element", defErr.Class)
	assert.Equal(t, "ratio", defErr.Attribute)
	assert.Equal(t, "Real", defErr.Type)
	assert.Equal(t, "1.5", defErr.Value)
}

func TestGraph_Members_InvalidUTF8Default(t *testing.T) {
	b := newBuilder(t)
	c := b.class("Element")
	b.attr(c, "name", "String", defaultValue("caf\xe9"))

	g, _ := newGraph(t, b.m)
	_, err := g.Members(c)
	var defErr *gen.DefaultValueError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "str", defErr.Type)
}

func TestGraph_SimpleAttributeCollapse(t *testing.T) {
	b := newBuilder(t)
	text := b.class("LiteralText")
	b.stereotype(text, "SimpleAttribute")
	_ = b.class("Body", text)
	elem := b.class("Element")
	b.attr(elem, "ownedElement", "Element", assoc("*"), derived())
	comment := b.class("Comment", elem)
	lines := b.attr(comment, "lines", "LiteralText", assoc("*"))
	b.slot(lines, "subsets", "ownedElement")
	bodies := b.attr(comment, "bodies", "Body", assoc("*"))
	b.slot(bodies, "redefines", "Element.bodies")

	g, logs := newGraph(t, b.m)
	assert.NotContains(t, names(g.Nodes), "Body")

	members, err := g.Members(comment)
	require.NoError(t, err)
	assert.Equal(t, []gen.Member{
		{Kind: gen.MemberSimple, Name: "bodies"},
		{Kind: gen.MemberSimple, Name: "lines"},
	}, members)
	assert.Empty(t, g.Statements(comment))
	assert.Zero(t, logs.FilterMessage("subset target is not defined").Len())

	var buf bytes.Buffer
	require.NoError(t, gen.Generate(g, &buf))
	out := buf.String()
	assert.Contains(t, out, `    bodies: _attribute[str] = _attribute("bodies", str)`)
	assert.Contains(t, out, `    lines: _attribute[str] = _attribute("lines", str)`)
	assert.NotContains(t, out, "Comment.lines")
	assert.NotContains(t, out, "Comment.bodies")
}

func TestGraph_Members_ReassignmentThroughAncestors(t *testing.T) {
	b := newBuilder(t)
	root := b.class("Root")
	b.attr(root, "member", "Root", assoc("*"))
	mid := b.class("Mid", root)
	leaf := b.class("Leaf", mid)
	b.attr(leaf, "member", "Root", assoc("*"))
	b.attr(leaf, "other", "Root", assoc("*"))
	b.generalize(root, leaf)

	g, err := gen.NewGraph(gen.MustNewConfig(gen.WithDialect(python.NewDialect())), b.m)
	require.Error(t, err)
	assert.Nil(t, g)

	// Without the cycle the reassignment is found two levels up.
	root.Generalizations = nil
	g, _ = newGraph(t, b.m)
	members, err := g.Members(leaf)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.True(t, members[0].Reassignment)
	assert.False(t, members[1].Reassignment)
}
