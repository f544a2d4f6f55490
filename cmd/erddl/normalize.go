package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/compiler/gen"
	"github.com/syssam/erddl/dialect/sql/schema"
)

func (c *cli) normalizeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "normalize [flags] [script]",
		Short: "Remove dangling separators from a hand-edited DDL script",
		Long: `Normalize reads a script, or stdin when no file is named, and removes the
separators left before a closing ");" and the "+" operators left before a
comparison. Scripts produced by gen never need it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
				if err != nil {
					return erddl.NewIOError("read", args[0], err)
				}
			} else if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
				return erddl.NewIOError("read", "stdin", err)
			}
			text := schema.Normalize(string(data))
			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			return gen.WriteFile(output, []byte(text))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout)")
	return cmd
}
