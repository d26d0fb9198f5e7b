package gen

import (
	"errors"
	"maps"
	"strings"

	"go.uber.org/zap"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the header comment of the generated file.
// Each line of the header is emitted as a comment by the dialect.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithDialect sets the target language dialect.
func WithDialect(d Dialect) Option {
	return func(c *Config) error {
		if d == nil {
			return NewConfigError("Dialect", nil, "dialect cannot be nil")
		}
		c.Dialect = d
		return nil
	}
}

// WithEnumerationSuffixes replaces the class name suffixes that mark an
// enumeration class. For example: "Kind", "Sort".
func WithEnumerationSuffixes(suffixes ...string) Option {
	return func(c *Config) error {
		if len(suffixes) == 0 {
			return NewConfigError("EnumerationSuffixes", nil, "at least one suffix is required")
		}
		for _, s := range suffixes {
			if strings.TrimSpace(s) == "" {
				return NewConfigError("EnumerationSuffixes", suffixes, "suffix cannot be empty")
			}
		}
		c.EnumerationSuffixes = append([]string(nil), suffixes...)
		return nil
	}
}

// WithSimpleAttributeStereotype sets the stereotype name that collapses
// an association target into a plain string attribute.
func WithSimpleAttributeStereotype(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("SimpleAttributeStereotype", nil, "stereotype cannot be empty")
		}
		c.SimpleAttributeStereotype = name
		return nil
	}
}

// WithPrimitives adds or replaces well-known type names and the canonical
// primitive they are linked to. For example: {"Real": "float"}.
func WithPrimitives(primitives map[string]string) Option {
	return func(c *Config) error {
		if c.Primitives == nil {
			c.Primitives = make(map[string]string, len(primitives))
		}
		for k, v := range primitives {
			if k == "" || v == "" {
				return NewConfigError("Primitives", k, "primitive names cannot be empty")
			}
		}
		maps.Copy(c.Primitives, primitives)
		return nil
	}
}

// WithOverrides sets the registry of hand-written replacements.
func WithOverrides(o Overrides) Option {
	return func(c *Config) error {
		c.Overrides = o
		return nil
	}
}

// WithLogger sets the logger receiving generation warnings.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
