package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/erddl/compiler/gen"
	"github.com/syssam/erddl/dialect"
	"github.com/syssam/erddl/dialect/sql/schema"
)

func (c *cli) genCmd() *cobra.Command {
	var (
		output, dialectName, header string
		goOut, goPackage            string
		errorBase                   int
		noTriggers, watch           bool
	)
	cmd := &cobra.Command{
		Use:   "gen [flags] <snapshot...>",
		Short: "Compile diagram snapshots into a DDL script",
		Long: `Compile one or more diagram snapshots (.json, .yaml, .msgpack) into a DDL
script. Several snapshots are compiled in parallel and their scripts are
concatenated in argument order. Trigger error codes continue from one
snapshot to the next, so every code in the combined script is distinct.
Table and trigger names are unique within a snapshot only: an entity drawn
in two snapshots is created twice.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			flags := cmd.Flags()
			if flags.Changed("output") {
				c.cfg.Output = output
			}
			if flags.Changed("dialect") {
				c.cfg.Dialect = dialectName
			}
			if flags.Changed("header") {
				c.cfg.Header = header
			}
			if flags.Changed("error-base") {
				c.cfg.ErrorBase = errorBase
			}
			if flags.Changed("no-triggers") {
				c.cfg.NoTriggers = noTriggers
			}
			if flags.Changed("go-out") {
				c.cfg.Bindings.Output = goOut
			}
			if flags.Changed("go-package") {
				c.cfg.Bindings.Package = goPackage
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			tables, err := c.generate(ctx, cmd.OutOrStdout(), files)
			if err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return c.watch(ctx, cmd.OutOrStdout(), files, tables)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "script path (default stdout)")
	f.StringVar(&dialectName, "dialect", dialect.Oracle, "target dialect: "+strings.Join(dialect.Names, ", "))
	f.StringVar(&header, "header", "", "comment written at the top of the script")
	f.IntVar(&errorBase, "error-base", gen.DefaultErrorBase, "first application error code used by triggers")
	f.BoolVar(&noTriggers, "no-triggers", false, "omit the constraint triggers")
	f.StringVar(&goOut, "go-out", "", "also write Go bindings for the tables to this path")
	f.StringVar(&goPackage, "go-package", "schema", "package name of the Go bindings")
	f.BoolVarP(&watch, "watch", "w", false, "recompile when a snapshot changes")
	return cmd
}

// generate compiles the files and writes the script and bindings. It returns
// the tables of the combined script.
func (c *cli) generate(ctx context.Context, stdout io.Writer, files []string) ([]*schema.Table, error) {
	results, err := c.compileAll(ctx, files)
	if err != nil {
		return nil, err
	}
	var (
		text   strings.Builder
		merged = &schema.Script{}
		offset int
	)
	for i, res := range results {
		res.ShiftErrorCodes(offset)
		offset += res.ErrorCodes()
		out, err := res.Render(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", files[i], err)
		}
		if i > 0 {
			text.WriteString("\n")
		}
		text.WriteString(out)
		merged.Add(res.Script.Statements...)
	}
	var artifacts []gen.Artifact
	if c.cfg.Output == "" {
		if _, err := io.WriteString(stdout, text.String()); err != nil {
			return nil, err
		}
	} else {
		artifacts = append(artifacts, gen.Artifact{Path: c.cfg.Output, Data: []byte(text.String())})
	}
	if c.cfg.Bindings.Output != "" {
		src, err := gen.GoBindings(c.cfg.Bindings.Package, merged)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, gen.Artifact{Path: c.cfg.Bindings.Output, Data: src})
	}
	if len(artifacts) > 0 {
		w := gen.NewWriter()
		if err := w.WriteAll(ctx, artifacts...); err != nil {
			return nil, err
		}
		m := w.Metrics()
		c.log.Info("artifacts written", zap.Int("files", m.FilesWritten), zap.Int64("bytes", m.TotalBytes))
	}
	return merged.Tables(), nil
}

// watch recompiles whenever one of the files is written or replaced, until
// ctx is done. Changes that would break a database created from the previous
// script are logged.
func (c *cli) watch(ctx context.Context, stdout io.Writer, files []string, tables []*schema.Table) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Editors often replace files, so the directory is watched.
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	c.log.Info("watching snapshots", zap.Strings("files", files))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("watch error", zap.Error(err))
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); err != nil || !watched[abs] {
				continue
			}
			next, err := c.generate(ctx, stdout, files)
			if err != nil {
				c.log.Error("recompile failed", zap.String("file", ev.Name), zap.Error(err))
				continue
			}
			switch diff := schema.ValidateDiff(tables, next); {
			case diff.HasBreakingChanges():
				c.log.Warn("breaking schema change", zap.String("file", ev.Name), zap.String("report", diff.String()))
			case diff.HasWarnings():
				c.log.Info("schema changed", zap.String("file", ev.Name), zap.String("report", diff.String()))
			}
			tables = next
		}
	}
}
