package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runbook-sh/runbook/version"
)

func VersionCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of this runbook command",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := version.Get()
			if err != nil {
				return err
			}

			if output := cmd.Flag("output"); output != nil && output.Value.String() == "json" {
				bytes, err := json.Marshal(v)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(bytes))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), v.RunbookVersion)
			return nil
		},
	}
}
