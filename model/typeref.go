package model

// TypeKind tells which variant of a TypeRef is set.
type TypeKind uint8

const (
	// TypeNone is the zero TypeRef: no type was declared.
	TypeNone TypeKind = iota
	// TypePlaceholder is a type name that was not linked yet.
	TypePlaceholder
	// TypePrimitive is a canonical primitive type name of the target language.
	TypePrimitive
	// TypeClass is a reference to a Class in the same model.
	TypeClass
)

// String returns the variant name.
func (k TypeKind) String() string {
	switch k {
	case TypePlaceholder:
		return "placeholder"
	case TypePrimitive:
		return "primitive"
	case TypeClass:
		return "class"
	default:
		return "none"
	}
}

// TypeRef is the type of a Property. Exactly one variant is set; use the
// Placeholder, Primitive and ClassType constructors to build one.
type TypeRef struct {
	kind  TypeKind
	name  string
	class *Class
}

// Placeholder returns an unresolved type reference. An empty name yields
// the zero TypeRef.
func Placeholder(name string) TypeRef {
	if name == "" {
		return TypeRef{}
	}
	return TypeRef{kind: TypePlaceholder, name: name}
}

// Primitive returns a canonical primitive type reference.
func Primitive(name string) TypeRef {
	if name == "" {
		return TypeRef{}
	}
	return TypeRef{kind: TypePrimitive, name: name}
}

// ClassType returns a reference to c. A nil class yields the zero TypeRef.
func ClassType(c *Class) TypeRef {
	if c == nil {
		return TypeRef{}
	}
	return TypeRef{kind: TypeClass, class: c}
}

// Kind returns the variant of t.
func (t TypeRef) Kind() TypeKind { return t.kind }

// IsZero reports whether no type is set.
func (t TypeRef) IsZero() bool { return t.kind == TypeNone }

// Class returns the referenced class, or nil if t is not a class reference.
func (t TypeRef) Class() *Class {
	if t.kind != TypeClass {
		return nil
	}
	return t.class
}

// Name returns the type name: the class name for class references, the
// literal name otherwise.
func (t TypeRef) Name() string {
	if t.kind == TypeClass {
		return t.class.Name
	}
	return t.name
}

// String implements fmt.Stringer.
func (t TypeRef) String() string {
	if t.kind == TypeNone {
		return "<none>"
	}
	return t.kind.String() + "(" + t.Name() + ")"
}
