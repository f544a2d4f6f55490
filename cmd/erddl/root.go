package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/erddl/compiler/gen"
	"github.com/syssam/erddl/compiler/load"
	"github.com/syssam/erddl/config"
)

// cli is the state shared by the subcommands.
type cli struct {
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "erddl",
		Short:        "Compile ER diagrams into relational DDL",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			c.cfg, c.log = cfg, logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	root.AddCommand(
		c.genCmd(),
		c.validateCmd(),
		c.applyCmd(),
		c.normalizeCmd(),
	)
	return root
}

// compileAll compiles the snapshot files in parallel, one compiler per file.
// Results keep the order of files.
func (c *cli) compileAll(ctx context.Context, files []string) ([]*gen.Result, error) {
	results := make([]*gen.Result, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	workers := c.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(workers)
	for i, file := range files {
		eg.Go(func() error {
			d, err := load.Load(file)
			if err != nil {
				return err
			}
			res, err := gen.Compile(ctx, d, c.cfg.Options(c.log.With(zap.String("file", file)))...)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
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
