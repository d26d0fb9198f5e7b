package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidModel indicates a model that cannot be generated from.
	ErrInvalidModel = errors.New("modelcoder: invalid model")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("modelcoder: missing configuration")
	// ErrCyclicGeneralization indicates a cycle in the generalization graph.
	ErrCyclicGeneralization = errors.New("modelcoder: cyclic generalization")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("modelcoder: code generation failed")
	// ErrUnrenderableDefault indicates a default value without a rendering rule.
	ErrUnrenderableDefault = errors.New("modelcoder: unrenderable default value")
)

// ModelError represents an error in the model being generated.
type ModelError struct {
	Class   string // Class name
	Member  string // Member name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	var b strings.Builder
	b.WriteString("modelcoder: model error")
	if e.Class != "" {
		b.WriteString(" on class ")
		b.WriteString(e.Class)
	}
	if e.Member != "" {
		b.WriteString(" member ")
		b.WriteString(e.Member)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ModelError.
func (e *ModelError) Is(target error) bool {
	return target == ErrInvalidModel
}

// NewModelError creates a new ModelError.
func NewModelError(className, member, message string, cause error) *ModelError {
	return &ModelError{
		Class:   className,
		Member:  member,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("modelcoder: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("modelcoder: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GeneralizationError reports a cycle in the generalization graph. Cycle
// holds the class names along the cycle, starting and ending with the same
// class.
type GeneralizationError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *GeneralizationError) Error() string {
	return "modelcoder: cyclic generalization: " + strings.Join(e.Cycle, " -> ")
}

// Is reports whether the target matches the sentinel error for GeneralizationError.
func (e *GeneralizationError) Is(target error) bool {
	return target == ErrCyclicGeneralization
}

// NewGeneralizationError creates a new GeneralizationError.
func NewGeneralizationError(cycle ...string) *GeneralizationError {
	return &GeneralizationError{Cycle: cycle}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "preamble", "declarations", "operations", "associations"
	Class   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("modelcoder: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.Class != "" {
		b.WriteString(" (class: ")
		b.WriteString(e.Class)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, className, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		Class:   className,
		Message: message,
		Cause:   cause,
	}
}

// DefaultValueError is returned for a declared default value on a scalar
// type the dialect has no rendering rule for.
type DefaultValueError struct {
	Class     string
	Attribute string
	Type      string
	Value     string
}

// Error implements the error interface.
func (e *DefaultValueError) Error() string {
	return fmt.Sprintf("modelcoder: unknown default value type: %s.%s: %s = %s", e.Class, e.Attribute, e.Type, e.Value)
}

// Is reports whether the target matches the sentinel error for DefaultValueError.
func (e *DefaultValueError) Is(target error) bool {
	return target == ErrUnrenderableDefault
}

// NewDefaultValueError creates a new DefaultValueError.
func NewDefaultValueError(className, attr, typ, value string) *DefaultValueError {
	return &DefaultValueError{
		Class:     className,
		Attribute: attr,
		Type:      typ,
		Value:     value,
	}
}

// IsModelError reports whether the error is a ModelError.
func IsModelError(err error) bool {
	var modelErr *ModelError
	return errors.As(err, &modelErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGeneralizationError reports whether the error is a GeneralizationError.
func IsGeneralizationError(err error) bool {
	var genErr *GeneralizationError
	return errors.As(err, &genErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsDefaultValueError reports whether the error is a DefaultValueError.
func IsDefaultValueError(err error) bool {
	var defErr *DefaultValueError
	return errors.As(err, &defErr)
}
