package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/erddl/dialect"
	"github.com/syssam/erddl/dialect/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func (c *cli) applyCmd() *cobra.Command {
	var (
		driver, dsn string
		dryRun      bool
		slow        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "apply [flags] <snapshot>",
		Short: "Compile a snapshot and execute the script on a database",
		Long: `Compile a snapshot for the dialect of the driver and execute its tables
and keys in one transaction. The DSN is read from --dsn or ERDDL_DSN.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("driver") {
				c.cfg.Apply.Driver = driver
			}
			if cmd.Flags().Changed("dsn") {
				c.cfg.Apply.DSN = dsn
			}
			name, err := dialect.Parse(c.cfg.Apply.Driver)
			if err != nil {
				return err
			}
			c.cfg.Dialect = name
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			results, err := c.compileAll(ctx, args)
			if err != nil {
				return err
			}
			cmds, err := results[0].Commands(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				for _, s := range cmds {
					fmt.Fprintf(out, "%s;\n", s)
				}
				return nil
			}
			if c.cfg.Apply.DSN == "" {
				return errors.New("apply: no DSN, set --dsn or ERDDL_DSN")
			}
			drv, err := sql.Open(name, c.cfg.Apply.DSN)
			if err != nil {
				return err
			}
			defer drv.Close()
			stats, err := drv.Apply(ctx, cmds,
				sql.WithLogger(c.log.With(zap.String("dialect", drv.Dialect()))),
				sql.WithSlowThreshold(slow),
			)
			switch {
			case sql.IsAlreadyExists(err):
				return fmt.Errorf("%w (the script was probably applied before; target an empty schema)", err)
			case sql.IsConstraintViolation(err):
				return fmt.Errorf("%w (existing rows violate a generated key)", err)
			case err != nil:
				return err
			}
			fmt.Fprintln(out, stats)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&driver, "driver", dialect.Postgres, "database driver: postgres, mysql or sqlite")
	f.StringVar(&dsn, "dsn", "", "data source name")
	f.BoolVar(&dryRun, "dry-run", false, "print the statements instead of executing them")
	f.DurationVar(&slow, "slow-threshold", sql.DefaultSlowThreshold, "log statements running longer than this (0 disables)")
	return cmd
}
