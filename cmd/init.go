package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"

	"github.com/runbook-sh/runbook/pkg/util/fileutil"
)

const starterBookFile = `# Books played by the runbook command.
#
# console_command is prefixed to every console step, e.g.
#   console_command: bin/app console
books:
  hello:
    description: Greet whoever asks
    inputs:
    - name: greeting
      default: Hello
    steps:
    - external: echo {{ get "greeting" }} runbook
`

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter " + DefaultBookFileName + " into the current directory",
	Long: `Write a starter ` + DefaultBookFileName + ` into the current directory.

Example:
  runbook init
  runbook run hello
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fileutil.Exists(DefaultBookFileName) {
			return fmt.Errorf("%s already exists. remove it first if you really want to start over", DefaultBookFileName)
		}
		if err := ioutil.WriteFile(DefaultBookFileName, []byte(starterBookFile), 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", DefaultBookFileName)
		return nil
	},
}
