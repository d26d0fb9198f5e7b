package compiler

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelcoder/compiler/gen"
)

const coreModel = `packages:
  - name: Core
    classes:
      - name: Element
        attributes:
          - {name: owner, type: Element, upper: 1, association: true}
      - name: Comment
        bases: [Element]
        attributes:
          - {name: body, type: String}
`

const cyclicModel = `packages:
  - name: Core
    classes:
      - {name: A, bases: [B]}
      - {name: B, bases: [A]}
`

const coreOverrides = `override Comment.body: _attribute[str]
Comment.body = _attribute("body", str, default="")
`

func newFS(t *testing.T) vfs.FileSystem {
	t.Helper()
	fs := memoryfs.New()
	files := map[string]string{
		"/models/core.yaml":       coreModel,
		"/models/cyclic.yaml":     cyclicModel,
		"/models/core.override":   coreOverrides,
		"/models/broken.override": "stray code\n",
	}
	require.NoError(t, fs.MkdirAll("/models", 0o755))
	for path, data := range files {
		require.NoError(t, vfs.WriteFile(fs, path, []byte(data), 0o644))
	}
	return fs
}

func exists(fs vfs.FileSystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

func TestGenerate(t *testing.T) {
	fs := newFS(t)
	ctx := context.Background()

	res, err := Generate(ctx, fs, Target{Model: "/models/core.yaml", Output: "/out/core.py"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Classes)
	assert.Zero(t, res.Link.Unresolved)

	data, err := vfs.ReadFile(fs, "/out/core.py")
	require.NoError(t, err)
	assert.Equal(t, res.Bytes, len(data))
	out := string(data)
	assert.Contains(t, out, "# This file is generated by modelcoder. DO NOT EDIT!\n")
	assert.Contains(t, out, "class Element():\n    owner: relation_one[Element]\n\n\n")
	assert.Contains(t, out, "class Comment(Element):\n    body: _attribute[str] = _attribute(\"body\", str)\n\n\n")
	assert.Less(t, bytes.Index(data, []byte("class Element")), bytes.Index(data, []byte("class Comment")))
	assert.Contains(t, out, "Element.owner = association(\"owner\", Element, upper=1)\n")
}

func TestGenerate_Writer(t *testing.T) {
	fs := newFS(t)
	var buf bytes.Buffer
	_, err := Generate(context.Background(), fs, Target{
		Model:     "/models/core.yaml",
		Overrides: "/models/core.override",
		Writer:    &buf,
	}, gen.WithHeader("Core model"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Core model\n")
	assert.Contains(t, out, "    body: _attribute[str]\n")
	assert.Contains(t, out, "Comment.body = _attribute(\"body\", str, default=\"\")\n")
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no output", func(t *testing.T) {
		_, err := Generate(ctx, newFS(t), Target{Model: "/models/core.yaml"})
		assert.ErrorContains(t, err, "has no output")
	})

	t.Run("no model", func(t *testing.T) {
		_, err := Generate(ctx, newFS(t), Target{Output: "/out.py"})
		assert.ErrorContains(t, err, "target has no model")
	})

	t.Run("cycle leaves no output", func(t *testing.T) {
		fs := newFS(t)
		_, err := Generate(ctx, fs, Target{Model: "/models/cyclic.yaml", Output: "/out/cyclic.py"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, gen.ErrCyclicGeneralization))
		assert.True(t, gen.IsGeneralizationError(err))
		assert.False(t, exists(fs, "/out/cyclic.py"))
	})

	t.Run("broken overrides", func(t *testing.T) {
		fs := newFS(t)
		_, err := Generate(ctx, fs, Target{Model: "/models/core.yaml", Overrides: "/models/broken.override", Output: "/out/core.py"})
		assert.ErrorContains(t, err, "parse overrides /models/broken.override")
		assert.False(t, exists(fs, "/out/core.py"))
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := Generate(ctx, newFS(t), Target{Model: "/models/none.yaml", Output: "/out.py"})
		assert.ErrorContains(t, err, "read model /models/none.yaml")
	})

	t.Run("bad option", func(t *testing.T) {
		_, err := Generate(ctx, newFS(t), Target{Model: "/models/core.yaml", Output: "/out.py"}, gen.WithLogger(nil))
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Generate(ctx, newFS(t), Target{Model: "/models/core.yaml", Output: "/out.py"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerateAll(t *testing.T) {
	fs := newFS(t)
	ctx := context.Background()
	targets := []Target{
		{Model: "/models/core.yaml", Output: "/out/a.py"},
		{Model: "/models/core.yaml", Overrides: "/models/core.override", Output: "/out/b.py"},
		{Model: "/models/core.yaml", Output: "/out/c/c.py"},
	}

	results, err := GenerateAll(ctx, fs, targets, 2)
	require.NoError(t, err)
	require.Len(t, results, len(targets))
	for i, res := range results {
		assert.Equal(t, targets[i].Output, res.Target.Output)
		assert.True(t, exists(fs, targets[i].Output), targets[i].Output)
	}

	t.Run("same output twice", func(t *testing.T) {
		_, err := GenerateAll(ctx, fs, []Target{
			{Model: "/models/core.yaml", Output: "/out/a.py"},
			{Model: "/models/cyclic.yaml", Output: "/out/../out/a.py"},
		}, 0)
		assert.ErrorContains(t, err, "write the same output")
	})

	t.Run("failure", func(t *testing.T) {
		_, err := GenerateAll(ctx, fs, []Target{
			{Model: "/models/core.yaml", Output: "/out/d.py"},
			{Model: "/models/cyclic.yaml", Output: "/out/e.py"},
		}, 1)
		assert.True(t, errors.Is(err, gen.ErrCyclicGeneralization))
		assert.False(t, exists(fs, "/out/e.py"))
	})
}

func TestCheck(t *testing.T) {
	fs := newFS(t)
	ctx := context.Background()
	target := Target{Model: "/models/core.yaml", Output: "/out/core.py"}

	ok, err := Check(ctx, fs, target)
	require.NoError(t, err)
	assert.False(t, ok, "missing output is out of date")

	_, err = Generate(ctx, fs, target)
	require.NoError(t, err)
	ok, err = Check(ctx, fs, target)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Check(ctx, fs, Target{Model: target.Model, Overrides: "/models/core.override", Output: target.Output})
	require.NoError(t, err)
	assert.False(t, ok, "overrides change the output")

	require.NoError(t, vfs.WriteFile(fs, target.Output, []byte("# edited\n"), 0o644))
	ok, err = Check(ctx, fs, target)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Check(ctx, fs, Target{Model: target.Model})
	assert.ErrorContains(t, err, "no output to check")
}
