// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go.astrophena.name/colorsync/cli"
	"go.astrophena.name/colorsync/colorize"
	"go.astrophena.name/colorsync/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	force  bool
	dry    bool
	config string
	report string
}

func (a *app) Flags(fs *flag.FlagSet) {
	const forceUsage = "Ignore file timestamps and regenerate every file pair."
	fs.BoolVar(&a.force, "f", false, forceUsage)
	fs.BoolVar(&a.force, "force", false, forceUsage)
	fs.BoolVar(&a.dry, "dry", false, "Print the file pairs that would be regenerated, without running the colorizer.")
	fs.StringVar(&a.config, "config", "", "Read configuration from `file` instead of "+colorize.DefaultConfigFile+".")
	fs.StringVar(&a.report, "report", "", "Write an HTML report of the run to `file`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	cfgPath, required := a.config, true
	if cfgPath == "" {
		cfgPath, required = colorize.DefaultConfigFile, false
	}
	cfg, err := colorize.LoadConfig(cfgPath, required)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}
	logger.Debug(ctx, "loaded config",
		slog.String("colorizer", cfg.Colorizer),
		slog.String("check_file", cfg.CheckFile),
		slog.String("replacement_file", cfg.ReplacementFile),
	)

	roots := env.Args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", cli.ErrInvalidArgs, root)
		}
	}

	s := &colorize.Synchronizer{
		Colorizer: colorize.NewExecColorizer(cfg),
		Force:     a.force,
		DryRun:    a.dry,
		Report:    env.Stdout,
	}
	res, syncErr := s.Sync(ctx, roots...)

	if err := res.Stats.WriteSummary(env.Stdout); err != nil {
		return err
	}
	if a.report != "" {
		if err := writeReport(ctx, a.report, res); err != nil {
			return err
		}
	}

	if syncErr != nil {
		return syncErr
	}
	if res.Stats.Errors > 0 {
		return cli.Unprintable(fmt.Errorf("%w: %d errors", colorize.ErrPairsFailed, res.Stats.Errors))
	}
	return nil
}

func writeReport(ctx context.Context, path string, res *colorize.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := colorize.WriteReport(ctx, f, res); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Info(ctx, "wrote report", slog.String("path", path))
	return nil
}
