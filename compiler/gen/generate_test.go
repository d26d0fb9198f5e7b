package gen_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelcoder/compiler/gen"
)

const preamble = `# This file is generated by modelcoder. DO NOT EDIT!
# isort: skip_file
# flake8: noqa F401,F811
# fmt: off

from __future__ import annotations

from typing import Callable

from gaphor.core.modeling.properties import (
    association,
    attribute as _attribute,
    derived,
    derivedunion,
    enumeration as _enumeration,
    redefine,
    relation_many,
    relation_one,
)


`

func TestGenerate(t *testing.T) {
	b := newBuilder(t)
	// Child is declared before its base.
	child := b.class("Child")
	base := b.class("Base")
	owner := b.class("Owner")
	b.generalize(child, base)
	b.attr(base, "id", "String")
	b.attr(base, "owner", "Owner", assoc("1"))
	b.attr(child, "name", "String", defaultValue("x"))
	narrowed := b.attr(child, "owner", "Owner", assoc("1"))
	b.slot(narrowed, "redefines", "Base.owner")
	b.attr(owner, "children", "Child", assoc("*"), composite())
	b.op(owner, "describe")

	g, _ := newGraph(t, b.m, gen.WithOverrides(overrides{
		"Owner.describe": {typ: "Callable[[], str]", code: `Owner.describe = lambda self: "owner"`},
	}))
	var buf bytes.Buffer
	require.NoError(t, gen.Generate(g, &buf))

	want := preamble + `class Base():
    id: _attribute[str] = _attribute("id", str)
    owner: relation_one[Owner]


class Child(Base):
    name: _attribute[str] = _attribute("name", str, default="x")
    owner: relation_one[Owner]  # type: ignore[assignment]


class Owner():
    children: relation_many[Child]
    describe: Callable[[], str]


Owner.describe = lambda self: "owner"

Base.owner = association("owner", Owner, upper=1)
Child.owner = redefine(Child, "owner", Owner, Base.owner)
Owner.children = association("children", Child, composite=True)
`
	assert.Equal(t, want, buf.String())
}

func TestGenerate_BasesBeforeDescendants(t *testing.T) {
	b := newBuilder(t)
	leaf := b.class("Leaf")
	mid := b.class("Mid")
	root := b.class("Root")
	other := b.class("Aux")
	b.generalize(leaf, mid)
	b.generalize(leaf, other)
	b.generalize(mid, root)

	g, _ := newGraph(t, b.m)
	var buf bytes.Buffer
	require.NoError(t, gen.Generate(g, &buf))
	out := buf.String()

	for _, decl := range []string{"class Root():", "class Mid(Root):", "class Aux():", "class Leaf(Aux, Mid):"} {
		assert.Equal(t, 1, strings.Count(out, decl), decl)
	}
	assert.Less(t, strings.Index(out, "class Root()"), strings.Index(out, "class Mid(Root)"))
	assert.Less(t, strings.Index(out, "class Mid(Root)"), strings.Index(out, "class Leaf("))
	assert.Less(t, strings.Index(out, "class Aux()"), strings.Index(out, "class Leaf("))
	assert.Contains(t, out, "class Root():\n    pass\n\n\n")
}

func TestGenerate_BaseBehindExcludedClass(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		b := newBuilder(t)
		child := b.class("Child")
		mid := b.classIn(b.profile("Profile"), "Mid")
		root := b.class("Root")
		b.generalize(child, mid)
		b.generalize(mid, root)

		g, _ := newGraph(t, b.m)
		assert.Equal(t, []string{"Root", "Child"}, names(g.Nodes))

		var buf bytes.Buffer
		require.NoError(t, gen.Generate(g, &buf))
		out := buf.String()
		assert.Less(t, strings.Index(out, "class Root("), strings.Index(out, "class Child("))
		assert.NotContains(t, out, "class Mid(")
	})

	t.Run("enumeration", func(t *testing.T) {
		b := newBuilder(t)
		child := b.class("Child")
		mid := b.class("MidKind")
		root := b.class("Root")
		b.generalize(child, mid)
		b.generalize(mid, root)

		g, _ := newGraph(t, b.m)
		assert.Equal(t, []string{"Root", "Child"}, names(g.Nodes))
	})
}

func TestGenerate_Overrides(t *testing.T) {
	b := newBuilder(t)
	owner := b.class("Owner")
	b.attr(owner, "children", "Child", assoc("*"))
	b.attr(owner, "name", "String")
	child := b.class("Child")
	b.attr(child, "parent", "Owner", assoc("1"))

	g, _ := newGraph(t, b.m, gen.WithOverrides(overrides{
		"Owner.children": {typ: "relation_many[Child]  # custom", code: "Owner.children = custom_children()"},
		"Child":          {code: "class Child(Owner):\n    parent = None"},
	}))
	var buf bytes.Buffer
	require.NoError(t, gen.Generate(g, &buf))
	out := buf.String()

	assert.Contains(t, out, "class Owner():\n    children: relation_many[Child]  # custom\n    name: _attribute[str] = _attribute(\"name\", str)\n\n\n")
	assert.Contains(t, out, "class Child(Owner):\n    parent = None\n\n\n")
	assert.NotContains(t, out, "class Child():")
	assert.Contains(t, out, "Owner.children = custom_children()\n")
	assert.NotContains(t, out, `association("children"`)
	// Statements of an overridden class are still emitted.
	assert.Contains(t, out, `Child.parent = association("parent", Owner, upper=1)`)
}

func TestGenerate_EnumerationAndSimpleTypesExcluded(t *testing.T) {
	b := newBuilder(t)
	kind := b.class("VisibilityKind")
	b.attr(kind, "public", "")
	b.attr(kind, "private", "")
	text := b.class("Text")
	b.stereotype(text, "SimpleAttribute")
	elem := b.class("Element")
	b.attr(elem, "visibility", "VisibilityKind")
	b.attr(elem, "body", "Text", assoc("1"))
	prof := b.profile("Profile")
	b.classIn(prof, "Stereotype")

	g, _ := newGraph(t, b.m)
	var buf bytes.Buffer
	require.NoError(t, gen.Generate(g, &buf))
	out := buf.String()

	assert.NotContains(t, out, "class VisibilityKind")
	assert.NotContains(t, out, "class Text")
	assert.NotContains(t, out, "class Stereotype")
	assert.Contains(t, out, `    body: _attribute[str] = _attribute("body", str)`)
	assert.Contains(t, out, `    visibility = _enumeration("visibility", ("public", "private"), "public")`)
	assert.True(t, strings.HasSuffix(out, "\n\n\n\n"), "no statements")
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("missing dialect", func(t *testing.T) {
		b := newBuilder(t)
		b.class("A")
		g, err := gen.NewGraph(gen.DefaultConfig(), b.m)
		require.NoError(t, err)

		err = gen.Generate(g, &bytes.Buffer{})
		assert.True(t, gen.IsConfigError(err))
		assert.True(t, errors.Is(err, gen.ErrMissingConfig))
	})

	t.Run("unrenderable default writes nothing", func(t *testing.T) {
		b := newBuilder(t)
		c := b.class("A")
		b.attr(c, "when", "DateTime", defaultValue("now"))
		g, _ := newGraph(t, b.m)

		var buf bytes.Buffer
		err := gen.Generate(g, &buf)
		assert.True(t, errors.Is(err, gen.ErrUnrenderableDefault))
		assert.Zero(t, buf.Len())
	})

	t.Run("write failure", func(t *testing.T) {
		b := newBuilder(t)
		b.class("A")
		g, _ := newGraph(t, b.m)

		err := gen.Generate(g, failingWriter{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, gen.ErrGenerationFailed))
		assert.ErrorIs(t, err, errDiskFull)
	})

	t.Run("nil graph", func(t *testing.T) {
		assert.True(t, gen.IsGenerationError(gen.Generate(nil, &bytes.Buffer{})))
	})
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }
