// Package app implements the modelcoder command line.
package app

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/syssam/modelcoder/compiler"
	"github.com/syssam/modelcoder/internal/logger"
)

// Options is the state shared by all commands.
type Options struct {
	fs         vfs.FileSystem
	v          *viper.Viper
	configFile string
	verbosity  int
	config     *Config
	log        *zap.SugaredLogger
}

// New returns the root command. Files are accessed through the optional
// file system, the OS file system by default.
func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs:  osfs.New(),
		v:   newViper(),
		log: logger.Logger,
	}
	if len(fss) > 0 && fss[0] != nil {
		opts.fs = fss[0]
	}

	cmd := &cobra.Command{
		Use:   "modelcoder",
		Short: "generate Python model classes from UML models",
		Long: `
modelcoder turns a UML model (Gaphor XML or the YAML/JSON document format)
into a Python module of classes with typed property descriptors. Parts of
the output can be replaced by hand-written overrides.

Targets are given on the command line or listed in modelcoder.yaml:

  targets:
    - model: uml.gaphor
      overrides: uml.override
      output: uml.py
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.complete(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "configuration file (default: ./modelcoder.yaml if present)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "raise the log level, -v for info and -vv for debug")
	flags.Bool("log-json", false, "log in JSON")
	flags.IntP("jobs", "j", 0, "targets generated in parallel (default: one per CPU)")
	_ = opts.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = opts.v.BindPFlag("log.json", flags.Lookup("log-json"))
	_ = opts.v.BindPFlag("jobs", flags.Lookup("jobs"))

	cmd.AddCommand(
		NewGenerateCmd(opts),
		NewCheckCmd(opts),
		NewWatchCmd(opts),
		NewConfigCmd(opts),
	)
	return cmd
}

// complete reads the configuration and sets up logging.
func (o *Options) complete(cmd *cobra.Command) error {
	path, err := readConfig(o.fs, o.v, o.configFile)
	if err != nil {
		return err
	}
	cfg, err := decodeConfig(o.v, path)
	if err != nil {
		return err
	}
	// An explicit --log-level wins over -v.
	if o.verbosity > 0 && !cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logger.VerbosityToLevel(o.verbosity).String()
	}
	if err := logger.Initialize(logger.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}
	o.log = logger.ComponentLogger("modelcoder")
	o.config = cfg
	if path != "" {
		o.log.Debugw("loaded config", "path", path, "targets", len(cfg.Targets))
	}
	return nil
}

// targets returns the target named on the command line, or the configured
// targets when there is none. A command line target without output writes
// to w.
func (o *Options) targets(args []string, output, overrides string, w io.Writer) ([]compiler.Target, error) {
	if len(args) == 0 {
		if output != "" || overrides != "" {
			return nil, errors.New("--output and --overrides need a MODEL argument")
		}
		if len(o.config.Targets) == 0 {
			return nil, errors.WithHint(
				errors.New("no targets"),
				"pass a model file or list targets in modelcoder.yaml",
			)
		}
		return o.config.Targets, nil
	}
	t := compiler.Target{Model: args[0], Overrides: overrides, Output: output}
	if output == "" {
		t.Writer = w
	}
	return []compiler.Target{t}, nil
}
