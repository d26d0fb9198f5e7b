package app

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/syssam/modelcoder/compiler"
)

// ErrOutOfDate is returned by check when a generated file differs from
// its model.
var ErrOutOfDate = errors.New("generated files are out of date")

type checkCmd struct {
	opts      *Options
	output    string
	overrides string
}

// NewCheckCmd returns the check command.
func NewCheckCmd(opts *Options) *cobra.Command {
	c := &checkCmd{opts: opts}
	cmd := &cobra.Command{
		Use:   "check [MODEL]",
		Short: "check that generated modules are up to date",
		Long: `
Regenerate MODEL, or every configured target, in memory and compare the
result with the existing output file. Nothing is written.

Exit codes:
  0 - everything is up to date
  1 - a module is out of date or cannot be generated
`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	flags := cmd.Flags()
	flags.StringVarP(&c.output, "output", "o", "", "generated file to check")
	flags.StringVarP(&c.overrides, "overrides", "r", "", "override file")
	return cmd
}

func (c *checkCmd) run(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && c.output == "" {
		return errors.New("check needs --output with a MODEL argument")
	}
	targets, err := c.opts.targets(args, c.output, c.overrides, nil)
	if err != nil {
		return err
	}
	var (
		out   = cmd.OutOrStdout()
		ok    = pterm.Success.WithWriter(out)
		stale = pterm.Warning.WithWriter(out)
		opts  = c.opts.config.GenOptions(c.opts.log)
		dirty []string
	)
	for _, t := range targets {
		upToDate, err := compiler.Check(cmd.Context(), c.opts.fs, t, opts...)
		if err != nil {
			return err
		}
		if upToDate {
			ok.Printfln("%s is up to date", t.Output)
			continue
		}
		stale.Printfln("%s is out of date", t.Output)
		dirty = append(dirty, t.Output)
	}
	if len(dirty) > 0 {
		return errors.WithHint(
			errors.Wrapf(ErrOutOfDate, "%d of %d", len(dirty), len(targets)),
			"run modelcoder generate to update them",
		)
	}
	return nil
}
