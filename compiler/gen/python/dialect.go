package python

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/modelcoder/compiler/gen"
)

const (
	// DefaultRuntimeModule provides the property descriptors used by the
	// generated code.
	DefaultRuntimeModule = "gaphor.core.modeling.properties"
	// DefaultHeader is the header comment of a generated module.
	DefaultHeader = "This file is generated by modelcoder. DO NOT EDIT!"
)

// Descriptors imported from the runtime module, in import order.
var descriptors = []string{
	"association",
	"attribute as _attribute",
	"derived",
	"derivedunion",
	"enumeration as _enumeration",
	"redefine",
	"relation_many",
	"relation_one",
}

// Dialect renders Python source code.
type Dialect struct {
	runtime string
}

var _ gen.Dialect = (*Dialect)(nil)

// Option configures the Python dialect.
type Option func(*Dialect)

// WithRuntimeModule sets the module the property descriptors are imported
// from. An empty module keeps the default.
func WithRuntimeModule(module string) Option {
	return func(d *Dialect) {
		if module != "" {
			d.runtime = module
		}
	}
}

// NewDialect returns the Python dialect.
func NewDialect(opts ...Option) *Dialect {
	d := &Dialect{
		runtime: DefaultRuntimeModule,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements gen.Dialect.
func (*Dialect) Name() string { return "python" }

// RuntimeModule returns the module the descriptors are imported from.
func (d *Dialect) RuntimeModule() string { return d.runtime }

// Preamble implements gen.DeclarationRenderer.
func (d *Dialect) Preamble(header string) string {
	if header == "" {
		header = DefaultHeader
	}
	var b strings.Builder
	for _, l := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		if l = strings.TrimRight(l, " \t"); l == "" {
			b.WriteString("#\n")
			continue
		}
		b.WriteString("# " + l + "\n")
	}
	b.WriteString("# isort: skip_file\n")
	b.WriteString("# flake8: noqa F401,F811\n")
	b.WriteString("# fmt: off\n")
	b.WriteString("\n")
	b.WriteString("from __future__ import annotations\n")
	b.WriteString("\n")
	b.WriteString("from typing import Callable\n")
	b.WriteString("\n")
	b.WriteString("from " + d.runtime + " import (\n")
	for _, s := range descriptors {
		b.WriteString("    " + s + ",\n")
	}
	b.WriteString(")\n")
	return b.String()
}

// ClassHeader implements gen.DeclarationRenderer.
func (*Dialect) ClassHeader(name string, bases []string) string {
	return fmt.Sprintf("class %s(%s):", name, strings.Join(bases, ", "))
}

// EmptyBody implements gen.DeclarationRenderer.
func (*Dialect) EmptyBody() string { return "pass" }

// Indent implements gen.DeclarationRenderer.
func (*Dialect) Indent() string { return "    " }

// Member implements gen.DeclarationRenderer.
func (*Dialect) Member(m gen.Member) string {
	switch m.Kind {
	case gen.MemberOverride, gen.MemberOperation:
		return m.Name + ": " + m.Type
	case gen.MemberSimple:
		return fmt.Sprintf("%s: _attribute[str] = _attribute(%s, str)", m.Name, strconv.Quote(m.Name))
	case gen.MemberRelation:
		mult := "one"
		if m.Many {
			mult = "many"
		}
		s := fmt.Sprintf("%s: relation_%s[%s]", m.Name, mult, typeName(m.Type))
		if m.Reassignment {
			s += "  # type: ignore[assignment]"
		}
		return s
	case gen.MemberEnumeration:
		return fmt.Sprintf("%s = _enumeration(%s, %s, %s)", m.Name, strconv.Quote(m.Name), tuple(m.Literals), strconv.Quote(m.Default))
	default:
		typ := typeName(m.Type)
		s := fmt.Sprintf("%s: _attribute[%s] = _attribute(%s, %s", m.Name, typ, strconv.Quote(m.Name), typ)
		if m.Default != "" {
			s += ", default=" + m.Default
		}
		return s + ")"
	}
}

// DefaultValue implements gen.ValueRenderer. Strings are quoted with
// escaping and integers are title-cased, so a boolean "true" becomes True.
// Strings must be valid UTF-8: Python reads a byte escape such as \xff as
// a code point.
func (*Dialect) DefaultValue(typ, value string) (string, bool) {
	switch typ {
	case "str":
		if !utf8.ValidString(value) {
			return "", false
		}
		return strconv.Quote(value), true
	case "int":
		// A Caser is stateful, so one is made per call.
		return cases.Title(language.Und).String(value), true
	default:
		return "", false
	}
}

// Statement implements gen.StatementRenderer.
func (*Dialect) Statement(s gen.Statement) string {
	target := s.Owner + "." + s.Name
	switch s.Kind {
	case gen.StatementOverride:
		return s.Code
	case gen.StatementRedefine:
		return fmt.Sprintf("%s = redefine(%s, %s, %s, %s)", target, s.Owner, strconv.Quote(s.Name), typeName(s.Type), s.Redefines)
	case gen.StatementDerivedUnion:
		return fmt.Sprintf("%s = derivedunion(%s, %s%s)", target, strconv.Quote(s.Name), typeName(s.Type), bounds(s))
	case gen.StatementSubset:
		return fmt.Sprintf("%s.%s.add(%s)", s.UnionOwner, s.Union, target)
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "%s = association(%s, %s%s", target, strconv.Quote(s.Name), typeName(s.Type), bounds(s))
		if s.Composite {
			b.WriteString(", composite=True")
		}
		if s.Opposite != "" {
			b.WriteString(", opposite=" + strconv.Quote(s.Opposite))
		}
		b.WriteString(")")
		return b.String()
	}
}

func bounds(s gen.Statement) string {
	var b strings.Builder
	if s.Lower != "" {
		b.WriteString(", lower=" + s.Lower)
	}
	if s.Upper != "" {
		b.WriteString(", upper=" + s.Upper)
	}
	return b.String()
}

// tuple renders literals as a tuple of strings.
func tuple(literals []string) string {
	quoted := make([]string, len(literals))
	for i, l := range literals {
		quoted[i] = strconv.Quote(l)
	}
	if len(quoted) == 1 {
		return "(" + quoted[0] + ",)"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// typeName renders an undeclared type as None.
func typeName(t string) string {
	if t == "" {
		return "None"
	}
	return t
}
