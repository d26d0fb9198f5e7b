package app

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/syssam/modelcoder/compiler"
)

type generateCmd struct {
	opts      *Options
	output    string
	overrides string
}

// NewGenerateCmd returns the generate command.
func NewGenerateCmd(opts *Options) *cobra.Command {
	c := &generateCmd{opts: opts}
	cmd := &cobra.Command{
		Use:   "generate [MODEL]",
		Short: "generate the Python module of a model",
		Long: `
Generate the Python module of MODEL, or of every configured target when
MODEL is omitted. Without --output the module is written to stdout.
`,
		Example: `  modelcoder generate uml.gaphor -r uml.override -o uml.py
  modelcoder generate core.yaml > core.py
  modelcoder generate -c modelcoder.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	flags := cmd.Flags()
	flags.StringVarP(&c.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVarP(&c.overrides, "overrides", "r", "", "override file")
	return cmd
}

func (c *generateCmd) run(cmd *cobra.Command, args []string) error {
	targets, err := c.opts.targets(args, c.output, c.overrides, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	cfg := c.opts.config
	results, err := compiler.GenerateAll(cmd.Context(), c.opts.fs, targets, cfg.Jobs, cfg.GenOptions(c.opts.log)...)
	if err != nil {
		return err
	}
	status := pterm.Success.WithWriter(cmd.ErrOrStderr())
	for _, res := range results {
		if res.Target.Output == "" {
			continue
		}
		status.Printfln("%s: %d classes written to %s", res.Target.Model, res.Classes, res.Target.Output)
	}
	return nil
}
