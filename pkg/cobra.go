package runbook

import (
	"fmt"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CobraAdapter exposes an App as a cobra command tree: a root command
// named after the app, with `run` and `list` below it.
type CobraAdapter struct {
	app *App
}

func NewCobraAdapter(app *App) *CobraAdapter {
	return &CobraAdapter{
		app: app,
	}
}

func (p *CobraAdapter) GenerateCommands() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   p.app.Name,
		Short: "Play the books defined in the book file",
	}

	rootCmd.AddCommand(p.runCommand())
	rootCmd.AddCommand(p.listCommand())

	return rootCmd, nil
}

func (p *CobraAdapter) runCommand() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "run <book> [book...]",
		Short: "Run one or more books in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := p.app.UpdateLoggingConfiguration(); err != nil {
				return err
			}

			overrides, err := parseOverrides(set)
			if err != nil {
				return err
			}

			var result *multierror.Error

			for _, name := range args {
				out, err := p.app.RunBook(name, overrides)

				if err != nil {
					p.app.Log.WithFields(log.Fields{"stack": errors.ErrorStack(err)}).Errorf("book %s failed: %v", name, err)
					result = multierror.Append(result, errors.Annotatef(err, "book %s failed", name))
					continue
				}

				// When echoing, the output already went to the console
				// as the steps produced it.
				if !p.app.Env.Echoing() && out != "" {
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
			}

			return result.ErrorOrNil()
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", []string{}, "Set a value for a book input, e.g. --set name=value. May be repeated")

	return cmd
}

func (p *CobraAdapter) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the books defined in the book file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := p.app.UpdateLoggingConfiguration(); err != nil {
				return err
			}

			for _, b := range p.app.Books() {
				if b.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.Description)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), b.Name)
				}
			}

			return nil
		},
	}
}

func parseOverrides(pairs []string) (map[string]string, error) {
	overrides := map[string]string{}
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid --set value `%s`: expected key=value", pair)
		}
		overrides[kv[0]] = kv[1]
	}
	return overrides, nil
}
