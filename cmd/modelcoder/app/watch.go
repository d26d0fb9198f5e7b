package app

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/syssam/modelcoder/compiler"
	"github.com/syssam/modelcoder/internal/watch"
)

type watchCmd struct {
	opts      *Options
	output    string
	overrides string
	debounce  time.Duration
}

// NewWatchCmd returns the watch command.
func NewWatchCmd(opts *Options) *cobra.Command {
	c := &watchCmd{opts: opts}
	cmd := &cobra.Command{
		Use:   "watch [MODEL]",
		Short: "regenerate modules when their models change",
		Long: `
Generate MODEL, or every configured target, and regenerate a target
whenever its model or override file changes. Runs until interrupted.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	flags := cmd.Flags()
	flags.StringVarP(&c.output, "output", "o", "", "output file")
	flags.StringVarP(&c.overrides, "overrides", "r", "", "override file")
	flags.DurationVar(&c.debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}

func (c *watchCmd) run(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && c.output == "" {
		return errors.New("watch needs --output with a MODEL argument")
	}
	targets, err := c.opts.targets(args, c.output, c.overrides, nil)
	if err != nil {
		return err
	}
	var paths []string
	for _, t := range targets {
		paths = append(paths, t.Model)
		if t.Overrides != "" {
			paths = append(paths, t.Overrides)
		}
	}
	w, err := watch.New(paths, watch.WithDebounce(c.debounce), watch.WithLogger(c.opts.log))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	_ = c.generate(ctx, cmd, targets)
	pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln("watching %d files, press Ctrl+C to stop", len(w.Files()))
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		return c.generate(ctx, cmd, affected(targets, changed))
	})
}

// generate regenerates targets and reports the outcome. Failures are
// shown but do not stop watching.
func (c *watchCmd) generate(ctx context.Context, cmd *cobra.Command, targets []compiler.Target) error {
	cfg := c.opts.config
	results, err := compiler.GenerateAll(ctx, c.opts.fs, targets, cfg.Jobs, cfg.GenOptions(c.opts.log)...)
	if err != nil {
		pterm.Error.WithWriter(cmd.ErrOrStderr()).Println(err.Error())
		return err
	}
	status := pterm.Success.WithWriter(cmd.ErrOrStderr())
	for _, res := range results {
		status.Printfln("%s: %d classes written to %s", res.Target.Model, res.Classes, res.Target.Output)
	}
	return nil
}

// affected returns the targets reading one of the changed files.
func affected(targets []compiler.Target, changed []string) []compiler.Target {
	var out []compiler.Target
	for _, t := range targets {
		for _, p := range []string{t.Model, t.Overrides} {
			if p == "" {
				continue
			}
			abs, err := filepath.Abs(p)
			if err == nil && slices.Contains(changed, abs) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
