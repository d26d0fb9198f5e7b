package gen

// =============================================================================
// Interface Segregation: a Dialect is split into the renderers used by each
// emission phase.
// =============================================================================

// DeclarationRenderer renders the class declaration blocks.
type DeclarationRenderer interface {
	// Preamble renders the file prologue (header comment and imports).
	// The header is the configured header text, empty for the default.
	Preamble(header string) string
	// ClassHeader renders the opening line of a class declaration.
	ClassHeader(name string, bases []string) string
	// EmptyBody renders the member line of a class without members.
	EmptyBody() string
	// Indent is the prefix of member lines inside a class block.
	Indent() string
	// Member renders a single member declaration without indentation.
	Member(m Member) string
}

// ValueRenderer renders literal values.
type ValueRenderer interface {
	// DefaultValue renders the default value of a scalar attribute of the
	// given canonical type. It reports false when the type has no
	// rendering rule.
	DefaultValue(typ, value string) (string, bool)
}

// StatementRenderer renders the association section.
type StatementRenderer interface {
	// Statement renders a single association wiring statement.
	Statement(s Statement) string
}

// Dialect is a target language. The generator only decides what is
// declared; the dialect decides how it is spelled.
type Dialect interface {
	// Name returns the dialect name (e.g. "python").
	Name() string
	DeclarationRenderer
	ValueRenderer
	StatementRenderer
}

// MemberKind is the code-shape of a class member.
type MemberKind uint8

// Member kinds.
const (
	// MemberOverride is a member replaced by a hand-written type annotation.
	MemberOverride MemberKind = iota + 1
	// MemberSimple is an association collapsed into a plain string attribute.
	MemberSimple
	// MemberRelation is a single or multi valued association end.
	MemberRelation
	// MemberEnumeration is an attribute typed by an enumeration class.
	MemberEnumeration
	// MemberScalar is a plain typed value attribute.
	MemberScalar
	// MemberOperation is an operation implemented by an override.
	MemberOperation
)

var memberKindNames = [...]string{
	MemberOverride:    "override",
	MemberSimple:      "simple",
	MemberRelation:    "relation",
	MemberEnumeration: "enumeration",
	MemberScalar:      "scalar",
	MemberOperation:   "operation",
}

// String returns the member kind name.
func (k MemberKind) String() string {
	if int(k) < len(memberKindNames) && memberKindNames[k] != "" {
		return memberKindNames[k]
	}
	return "invalid"
}

// Member is a classified declaration inside a class block.
type Member struct {
	Kind MemberKind
	// Name of the attribute or operation.
	Name string
	// Type is the override type annotation, the relation target or the
	// scalar type name depending on Kind. Empty for an untyped scalar.
	Type string
	// Many marks a multi valued relation.
	Many bool
	// Reassignment marks a relation that redeclares an inherited attribute.
	Reassignment bool
	// Literals are the enumeration literals in declared order.
	Literals []string
	// Default is the rendered default value. For enumerations it is the
	// default literal.
	Default string
}

// StatementKind is the kind of an association section statement.
type StatementKind uint8

// Statement kinds.
const (
	// StatementOverride is hand-written code placed verbatim.
	StatementOverride StatementKind = iota + 1
	// StatementAssociation wires a plain association end.
	StatementAssociation
	// StatementDerivedUnion declares a derived union.
	StatementDerivedUnion
	// StatementRedefine narrows an inherited association end.
	StatementRedefine
	// StatementSubset registers an end as a subset of a derived union.
	StatementSubset
)

var statementKindNames = [...]string{
	StatementOverride:     "override",
	StatementAssociation:  "association",
	StatementDerivedUnion: "derivedunion",
	StatementRedefine:     "redefine",
	StatementSubset:       "subset",
}

// String returns the statement kind name.
func (k StatementKind) String() string {
	if int(k) < len(statementKindNames) && statementKindNames[k] != "" {
		return statementKindNames[k]
	}
	return "invalid"
}

// Statement is an association section entry of a class.
type Statement struct {
	Kind StatementKind
	// Owner is the class owning the attribute.
	Owner string
	// Name is the attribute name.
	Name string
	// Type is the target class name.
	Type string
	// Lower and Upper are the multiplicity bounds. Empty bounds are
	// omitted, a lower of "0" and an upper of "*" are normalized to empty.
	Lower, Upper string
	// Composite marks a composite aggregation.
	Composite bool
	// Opposite is the name of the opposite end, if any.
	Opposite string
	// Redefines is the redefined attribute expression.
	Redefines string
	// UnionOwner and Union identify the derived union a subset is added to.
	UnionOwner, Union string
	// Code is the override text.
	Code string
}
