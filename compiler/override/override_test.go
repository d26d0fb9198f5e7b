package override

import (
	"errors"
	"strings"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textOverrides = `# Overrides for the UML model.
# Comments before the first entry are ignored.

override Element
class Element(Base):
    pass

override Element.owner(Element.ownedElement): relation_one[Element]
Element.owner = derivedunion("owner", Element, upper=1)
# kept: part of the code


override Comment.body: _attribute[str]
override NamedElement.qualifiedName: derived[list[str]]

def _namedelement_qualifiedname(self) -> list[str]:
    return [self.name]

NamedElement.qualifiedName = derived("qualifiedName", str, 0, "*", lambda self: [_namedelement_qualifiedname(self)])
`

func TestParseText(t *testing.T) {
	r, err := ParseText(strings.NewReader(textOverrides))
	require.NoError(t, err)

	assert.Equal(t, []string{"Element", "Element.owner", "Comment.body", "NamedElement.qualifiedName"}, r.Names())
	assert.Equal(t, 4, r.Len())

	assert.True(t, r.Has("Element"))
	assert.Empty(t, r.Type("Element"))
	assert.Equal(t, "class Element(Base):\n    pass", r.Code("Element"))

	e, ok := r.Lookup("Element.owner")
	require.True(t, ok)
	assert.Equal(t, "relation_one[Element]", e.Type)
	assert.Equal(t, []string{"Element.ownedElement"}, e.Deps)
	assert.Equal(t, "Element.owner = derivedunion(\"owner\", Element, upper=1)\n# kept: part of the code", e.Code)

	assert.Equal(t, "_attribute[str]", r.Type("Comment.body"))
	assert.Empty(t, r.Code("Comment.body"))

	assert.Equal(t, "derived[list[str]]", r.Type("NamedElement.qualifiedName"))
	assert.True(t, strings.HasPrefix(r.Code("NamedElement.qualifiedName"), "\ndef _namedelement_qualifiedname"))

	assert.False(t, r.Has("Element.name"))
	assert.False(t, r.Has("element"))
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"code before first entry", "x = 1\noverride A\n", "line 1: code outside of an override"},
		{"missing name", "override\n", "line 1: malformed override header"},
		{"duplicate", "override A\na\noverride A\nb\n", "duplicate override"},
		{"bad deps", "override A(b: c\n", "line 1: malformed override header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParseText(strings.NewReader("override A\noverride A\n"))
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
Element:
  code: |
    class Element(Base):
        pass
Element.owner:
  type: relation_one[Element]
  deps: [Element.ownedElement]
  code: Element.owner = derivedunion("owner", Element, upper=1)
Comment.body: Comment.body = _attribute("body", str)
`)
	r, err := ParseYAML(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Element", "Element.owner", "Comment.body"}, r.Names())
	assert.Equal(t, "class Element(Base):\n    pass", r.Code("Element"))
	assert.Equal(t, "relation_one[Element]", r.Type("Element.owner"))
	e, _ := r.Lookup("Element.owner")
	assert.Equal(t, []string{"Element.ownedElement"}, e.Deps)
	assert.Empty(t, r.Type("Comment.body"))
	assert.Equal(t, `Comment.body = _attribute("body", str)`, r.Code("Comment.body"))

	t.Run("empty document", func(t *testing.T) {
		r, err := ParseYAML(nil)
		require.NoError(t, err)
		assert.Zero(t, r.Len())
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := ParseYAML([]byte("- a\n- b\n"))
		assert.ErrorContains(t, err, "must be a mapping")
	})

	t.Run("bad entry", func(t *testing.T) {
		_, err := ParseYAML([]byte("A:\n  - x\n"))
		assert.ErrorContains(t, err, `override "A"`)
	})
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry
	assert.False(t, r.Has("A"))
	assert.Empty(t, r.Type("A"))
	assert.Empty(t, r.Code("A"))
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Names())
}

func TestNew(t *testing.T) {
	_, err := New(Entry{Code: "x"})
	assert.Error(t, err)

	r, err := New(Entry{Name: "A", Type: "int"}, Entry{Name: "B", Code: "b"})
	require.NoError(t, err)
	assert.Equal(t, "int", r.Type("A"))
	assert.Equal(t, "b", r.Code("B"))
}

func TestLoad(t *testing.T) {
	fs := memoryfs.New()
	require.NoError(t, vfs.WriteFile(fs, "/uml.override", []byte("override A: int\n"), 0o644))
	require.NoError(t, vfs.WriteFile(fs, "/uml.yaml", []byte("A: {type: int}\n"), 0o644))
	require.NoError(t, vfs.WriteFile(fs, "/broken.override", []byte("code\n"), 0o644))

	for _, path := range []string{"/uml.override", "/uml.yaml"} {
		t.Run(path, func(t *testing.T) {
			r, err := Load(fs, path)
			require.NoError(t, err)
			assert.Equal(t, "int", r.Type("A"))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(fs, "/missing.override")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/missing.override")
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(fs, "/broken.override")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse overrides /broken.override")
	})
}
