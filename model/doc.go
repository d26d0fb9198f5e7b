// Package model holds the in-memory object graph of a meta-model: packages,
// classes, properties, operations, generalizations and applied stereotypes.
//
// A Model is produced by one of the loaders in compiler/load and consumed
// read-only by the code generator, with a single exception: the type linker
// of compiler/gen rewrites Property types once, before generation starts.
//
// # Querying
//
// Elements are kept in load order and can be selected by kind:
//
//	for _, e := range m.Select(model.KindClass, func(e model.Element) bool {
//	    return strings.HasSuffix(e.(*model.Class).Name, "Kind")
//	}) {
//	    ...
//	}
//
// Typed accessors (Classes, Properties, Packages) cover the common cases.
//
// # Property types
//
// A Property type is a TypeRef, a tagged union of an unresolved placeholder
// name, a canonical primitive name, or a reference to a Class. The zero
// TypeRef means that no type was declared.
package model
