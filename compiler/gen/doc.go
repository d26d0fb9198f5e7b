// Package gen generates class definitions from a model.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	model.Model (loaded by compiler/load)
//	        ↓
//	   Linker (placeholder types → primitives or class references)
//	        ↓
//	   Config.SelectClasses (drop enumerations, simple attributes, profiles)
//	        ↓
//	   OrderClasses (bases before descendants)
//	        ↓
//	   Graph
//	        ↓
//	   Generator (declarations, operations, associations) through a Dialect
//	        ↓
//	   io.Writer
//
// # Key Types
//
//   - Config: conventions, overrides, dialect and logger
//   - Graph: the linked model and its ordered generation set
//   - Member: a classified declaration in a class block
//   - Statement: an entry of the association section
//   - Dialect: renders members and statements in a target language
//
// # Overrides
//
// Every emission point consults Config.Overrides by qualified name. A
// "Class" override replaces the whole class block. A "Class.member"
// override replaces the member declaration with its type annotation, and
// the association statement with its code.
//
// # Errors
//
// Features that cannot be generated are logged as warnings and omitted.
// Fatal conditions are reported with the structured errors of this package:
//
//	if errors.Is(err, gen.ErrCyclicGeneralization) {
//	    // a class inherits from itself
//	}
package gen
