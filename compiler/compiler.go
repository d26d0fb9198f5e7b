// Package compiler drives a generation run end to end: it loads a model
// and its overrides from a file system, generates the Python module and
// writes it out.
//
//	res, err := compiler.Generate(ctx, osfs.New(), compiler.Target{
//		Model:     "uml.gaphor",
//		Overrides: "uml.override",
//		Output:    "uml.py",
//	})
package compiler

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/modelcoder/compiler/gen"
	"github.com/syssam/modelcoder/compiler/gen/python"
	"github.com/syssam/modelcoder/compiler/load"
	"github.com/syssam/modelcoder/compiler/override"
)

// Target is a single generation job.
type Target struct {
	// Model is the path of the model file.
	Model string `mapstructure:"model" yaml:"model"`
	// Overrides is the path of the override file. Optional.
	Overrides string `mapstructure:"overrides" yaml:"overrides,omitempty"`
	// Output is the path of the generated file. When empty the
	// result is written to Writer.
	Output string `mapstructure:"output" yaml:"output,omitempty"`
	// Writer receives the result of targets without Output.
	Writer io.Writer `mapstructure:"-" yaml:"-"`
}

// Result describes a finished run.
type Result struct {
	Target Target
	// Classes is the number of declared classes.
	Classes int
	// Bytes is the size of the generated text.
	Bytes int
	// Link is the report of the linking pass.
	Link gen.LinkReport
}

// Generate loads the target model and writes the generated module. The
// Python dialect is used unless opts select another one. Nothing is left
// at the output path when generation fails.
func Generate(ctx context.Context, fs vfs.FileSystem, t Target, opts ...gen.Option) (*Result, error) {
	if t.Output == "" && t.Writer == nil {
		return nil, errors.WithHint(
			errors.Newf("target %s has no output", t.Model),
			"set an output path or a writer",
		)
	}
	data, res, err := Render(ctx, fs, t, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.Output == "" {
		if _, err := t.Writer.Write(data); err != nil {
			return nil, gen.NewGenerationError("", "", "write output", err)
		}
		return res, nil
	}
	if err := writeFile(fs, t.Output, data); err != nil {
		return nil, err
	}
	return res, nil
}

// Render generates the target into memory.
func Render(ctx context.Context, fs vfs.FileSystem, t Target, opts ...gen.Option) ([]byte, *Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if t.Model == "" {
		return nil, nil, errors.New("target has no model")
	}
	m, err := load.Load(fs, t.Model)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := gen.NewConfig(append([]gen.Option{gen.WithDialect(python.NewDialect())}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	if t.Overrides != "" {
		reg, err := override.Load(fs, t.Overrides)
		if err != nil {
			return nil, nil, err
		}
		cfg.Overrides = reg
	}
	cfg.Logger = cfg.Logger.With("model", t.Model)

	g, err := gen.NewGraph(cfg, m)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "generate %s", t.Model)
	}
	var buf bytes.Buffer
	if err := gen.Generate(g, &buf); err != nil {
		return nil, nil, errors.Wrapf(err, "generate %s", t.Model)
	}
	res := &Result{Target: t, Classes: len(g.Nodes), Bytes: buf.Len(), Link: g.Link}
	cfg.Logger.Debugw("generated module",
		"classes", res.Classes,
		"bytes", res.Bytes,
		"unresolved", res.Link.Unresolved,
	)
	return buf.Bytes(), res, nil
}

// GenerateAll runs the targets concurrently, at most jobs at a time. A
// jobs value below one means one per CPU. The results are in target order;
// the first failure cancels the runs that did not start yet.
func GenerateAll(ctx context.Context, fs vfs.FileSystem, targets []Target, jobs int, opts ...gen.Option) ([]*Result, error) {
	outputs := make(map[string]string, len(targets))
	for _, t := range targets {
		if t.Output == "" {
			continue
		}
		out := filepath.Clean(t.Output)
		if prev, ok := outputs[out]; ok {
			return nil, errors.Newf("targets %s and %s write the same output %s", prev, t.Model, t.Output)
		}
		outputs[out] = t.Model
	}
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(targets))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, t := range targets {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := Generate(ctx, fs, t, opts...)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Check regenerates the target in memory and reports whether its output
// file holds the same text. A missing output file is out of date.
func Check(ctx context.Context, fs vfs.FileSystem, t Target, opts ...gen.Option) (bool, error) {
	if t.Output == "" {
		return false, errors.Newf("target %s has no output to check", t.Model)
	}
	data, _, err := Render(ctx, fs, t, opts...)
	if err != nil {
		return false, err
	}
	current, err := vfs.ReadFile(fs, t.Output)
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "read %s", t.Output)
	}
	return bytes.Equal(current, data), nil
}

// writeFile writes data to path, removing the file again if the write
// does not complete.
func writeFile(fs vfs.FileSystem, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, vfs.ErrExist) {
			return errors.Wrapf(err, "create output directory %s", dir)
		}
	}
	if err := vfs.WriteFile(fs, path, data, 0o644); err != nil {
		_ = fs.Remove(path)
		return gen.NewGenerationError("", "", "write "+path, err)
	}
	return nil
}
