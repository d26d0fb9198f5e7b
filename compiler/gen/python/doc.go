// Package python implements the Python dialect of the model code generator.
//
// The generated module declares one Python class per model class and wires
// associations through the property descriptors of a runtime module
// (gaphor.core.modeling.properties by default):
//
//	class Element(Base):
//	    name: _attribute[str] = _attribute("name", str)
//	    owner: relation_one[Element]
//
//
//	Element.owner = association("owner", Element, upper=1, opposite="ownedElement")
//
// Usage:
//
//	import (
//	    "github.com/syssam/modelcoder/compiler/gen"
//	    "github.com/syssam/modelcoder/compiler/gen/python"
//	)
//
//	cfg, err := gen.NewConfig(gen.WithDialect(python.NewDialect()))
package python
