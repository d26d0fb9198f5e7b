package gen

import (
	"maps"

	"go.uber.org/zap"
)

// Defaults used by DefaultConfig.
var (
	// DefaultEnumerationSuffixes mark enumeration classes by name.
	DefaultEnumerationSuffixes = []string{"Kind", "Sort"}
	// DefaultSimpleAttributeStereotype collapses association targets into strings.
	DefaultSimpleAttributeStereotype = "SimpleAttribute"
)

// DefaultPrimitives returns the default mapping of well-known type names
// to canonical primitive names.
func DefaultPrimitives() map[string]string {
	return map[string]string{
		"String":  "str",
		"Integer": "int",
		"Boolean": "int",
	}
}

// Overrides resolves hand-written replacements by qualified name, either
// "Class" or "Class.member".
type Overrides interface {
	// Has reports whether an override exists for the name.
	Has(name string) bool
	// Type returns the declaration type annotation of the override.
	Type(name string) string
	// Code returns the replacement text of the override.
	Code(name string) string
}

// Config holds the generation settings.
type Config struct {
	// Header is the comment placed at the top of the generated file.
	// The dialect's default header is used when empty.
	Header string
	// Dialect renders the target language.
	Dialect Dialect
	// EnumerationSuffixes mark enumeration classes by name suffix.
	EnumerationSuffixes []string
	// SimpleAttributeStereotype marks classes collapsed into plain strings.
	SimpleAttributeStereotype string
	// Primitives maps well-known type names to canonical primitive names.
	Primitives map[string]string
	// Overrides holds hand-written replacements. Nil means none.
	Overrides Overrides
	// Logger receives warnings about omitted features.
	Logger *zap.SugaredLogger
}

// DefaultConfig returns a Config with the default conventions and a
// no-op logger. The dialect is left unset.
func DefaultConfig() *Config {
	return &Config{
		EnumerationSuffixes:       append([]string(nil), DefaultEnumerationSuffixes...),
		SimpleAttributeStereotype: DefaultSimpleAttributeStereotype,
		Primitives:                DefaultPrimitives(),
		Logger:                    zap.NewNop().Sugar(),
	}
}

// Clone returns a copy of the config that can be modified independently.
func (c *Config) Clone() *Config {
	n := *c
	n.EnumerationSuffixes = append([]string(nil), c.EnumerationSuffixes...)
	n.Primitives = maps.Clone(c.Primitives)
	return &n
}

// override returns the override registered under name.
func (c *Config) override(name string) (typ, code string, ok bool) {
	if c.Overrides == nil || !c.Overrides.Has(name) {
		return "", "", false
	}
	return c.Overrides.Type(name), c.Overrides.Code(name), true
}

func (c *Config) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}
