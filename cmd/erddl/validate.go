package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [flags] <snapshot...>",
		Short: "Compile snapshots and check the resulting relational schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			results, err := c.compileAll(cmd.Context(), files)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for i, res := range results {
				v := res.Validate()
				fmt.Fprintf(out, "%s: %d statements, %d skipped constructs\n", files[i], res.Script.Len(), len(res.Warnings))
				for _, w := range res.Warnings {
					fmt.Fprintf(out, "  skipped: %v\n", w)
				}
				for _, line := range strings.Split(strings.TrimRight(v.String(), "\n"), "\n") {
					fmt.Fprintf(out, "  %s\n", line)
				}
				if v.HasErrors() || (strict && (len(res.Warnings) > 0 || v.HasWarnings())) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d snapshot(s) failed validation", failed, len(files))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also fail on skipped constructs and schema warnings")
	return cmd
}
