package gen

import (
	"strings"

	"github.com/syssam/modelcoder/model"
)

// IsEnumeration reports whether c is an enumeration class, recognized by
// its name suffix.
func (c *Config) IsEnumeration(cls *model.Class) bool {
	if cls == nil || cls.Name == "" {
		return false
	}
	for _, s := range c.EnumerationSuffixes {
		if strings.HasSuffix(cls.Name, s) {
			return true
		}
	}
	return false
}

// IsSimpleType reports whether cls carries the simple attribute stereotype,
// either directly or through one of its ancestors.
func (c *Config) IsSimpleType(cls *model.Class) bool {
	if cls == nil {
		return false
	}
	var (
		seen  = make(map[*model.Class]bool)
		stack = []*model.Class{cls}
	)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		if n.HasStereotype(c.SimpleAttributeStereotype) {
			return true
		}
		stack = append(stack, n.Bases()...)
	}
	return false
}

// Selectable reports whether cls belongs to the generation set.
func (c *Config) Selectable(cls *model.Class) bool {
	return !c.IsEnumeration(cls) && !c.IsSimpleType(cls) && !cls.InProfile()
}

// SelectClasses returns the generation set of m in model order.
func (c *Config) SelectClasses(m *model.Model) []*model.Class {
	var classes []*model.Class
	for _, cls := range m.Classes() {
		if c.Selectable(cls) {
			classes = append(classes, cls)
		}
	}
	return classes
}
