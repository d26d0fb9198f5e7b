package app

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/syssam/modelcoder/compiler"
	"github.com/syssam/modelcoder/compiler/gen"
	"github.com/syssam/modelcoder/compiler/gen/python"
)

// ConfigNames are looked up in the working directory, in order, when no
// --config flag is given.
var ConfigNames = []string{"modelcoder.yaml", "modelcoder.yml", "modelcoder.toml"}

// Config is the content of a modelcoder configuration file.
//
//	targets:
//	  - model: uml.gaphor
//	    overrides: uml.override
//	    output: uml.py
//	jobs: 4
//	log:
//	  level: info
//	python:
//	  runtime_module: gaphor.core.modeling.properties
type Config struct {
	Targets     []compiler.Target `mapstructure:"targets" yaml:"targets"`
	Jobs        int               `mapstructure:"jobs" yaml:"jobs"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	Python      PythonConfig      `mapstructure:"python" yaml:"python"`
	Conventions Conventions       `mapstructure:"conventions" yaml:"conventions"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// PythonConfig configures the Python dialect.
type PythonConfig struct {
	RuntimeModule string `mapstructure:"runtime_module" yaml:"runtime_module"`
	Header        string `mapstructure:"header" yaml:"header,omitempty"`
}

// Conventions configures how model elements are recognized.
type Conventions struct {
	EnumerationSuffixes       []string    `mapstructure:"enumeration_suffixes" yaml:"enumeration_suffixes"`
	SimpleAttributeStereotype string      `mapstructure:"simple_attribute_stereotype" yaml:"simple_attribute_stereotype"`
	Primitives                []Primitive `mapstructure:"primitives" yaml:"primitives,omitempty"`
}

// Primitive maps a model type name to a target type. It is a list entry
// rather than a map key since configuration keys are case-insensitive.
type Primitive struct {
	Name string `mapstructure:"name" yaml:"name"`
	Type string `mapstructure:"type" yaml:"type"`
}

// SetDefaults sets the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("jobs", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("python.runtime_module", python.DefaultRuntimeModule)
	v.SetDefault("python.header", "")
	v.SetDefault("conventions.enumeration_suffixes", gen.DefaultEnumerationSuffixes)
	v.SetDefault("conventions.simple_attribute_stereotype", gen.DefaultSimpleAttributeStereotype)
}

// newViper returns a viper instance reading MODELCODER_* variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MODELCODER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// readConfig reads the configuration file into v. An explicit path must
// exist; otherwise the first of ConfigNames found is used, if any. It
// returns the path read.
func readConfig(fs vfs.FileSystem, v *viper.Viper, path string) (string, error) {
	if path == "" {
		for _, name := range ConfigNames {
			if fi, err := fs.Stat(name); err == nil && !fi.IsDir() {
				path = name
				break
			}
		}
		if path == "" {
			return "", nil
		}
	}
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return "", errors.Wrapf(err, "read config %s", path)
	}
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "yaml", "yml", "toml", "json":
		v.SetConfigType(ext)
	default:
		return "", errors.WithHint(
			errors.Newf("config %s: unsupported format", path),
			"use a .yaml, .yml, .toml or .json file",
		)
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return "", errors.Wrapf(err, "parse config %s", path)
	}
	return path, nil
}

// decodeConfig unmarshals v and resolves target paths relative to the
// directory of the configuration file.
func decodeConfig(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	base := filepath.Dir(path)
	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		if t.Model == "" {
			return nil, errors.Newf("config %s: target %d has no model", path, i+1)
		}
		t.Model = resolve(base, t.Model)
		t.Overrides = resolve(base, t.Overrides)
		t.Output = resolve(base, t.Output)
	}
	return &cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "." || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// GenOptions returns the generator options of the configuration.
func (c *Config) GenOptions(log *zap.SugaredLogger) []gen.Option {
	opts := []gen.Option{
		gen.WithDialect(python.NewDialect(python.WithRuntimeModule(c.Python.RuntimeModule))),
	}
	if log != nil {
		opts = append(opts, gen.WithLogger(log))
	}
	if c.Python.Header != "" {
		opts = append(opts, gen.WithHeader(c.Python.Header))
	}
	if len(c.Conventions.EnumerationSuffixes) > 0 {
		opts = append(opts, gen.WithEnumerationSuffixes(c.Conventions.EnumerationSuffixes...))
	}
	if c.Conventions.SimpleAttributeStereotype != "" {
		opts = append(opts, gen.WithSimpleAttributeStereotype(c.Conventions.SimpleAttributeStereotype))
	}
	if len(c.Conventions.Primitives) > 0 {
		m := make(map[string]string, len(c.Conventions.Primitives))
		for _, p := range c.Conventions.Primitives {
			m[p.Name] = p.Type
		}
		opts = append(opts, gen.WithPrimitives(m))
	}
	return opts
}

// NewConfigCmd returns the command printing the effective configuration.
func NewConfigCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(opts.config); err != nil {
				return errors.Wrap(err, "encode config")
			}
			return enc.Close()
		},
	}
}
