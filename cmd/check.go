package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runbook-sh/runbook/pkg/load"
)

var CheckCmd = &cobra.Command{
	Use:   "check [BOOKFILE]",
	Short: "Parse a book file and report the books it defines",
	Long:  `Parse a book file and report the books it defines, without running anything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := DefaultBookFileName
		if len(args) > 0 {
			path = args[0]
		}

		file, err := load.File(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d book(s)\n", path, len(file.Books))
		for _, b := range file.Books {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d step(s)", b.Name, len(b.Steps))
			if len(b.Inputs) > 0 {
				names := []string{}
				for _, i := range b.Inputs {
					names = append(names, i.Name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), ", inputs: %s", strings.Join(names, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}
