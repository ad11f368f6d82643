package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	runbook "github.com/runbook-sh/runbook/pkg"
)

func init() {
	logrus.SetOutput(os.Stdout)

	verbose := false
	logtostderr := false
	for _, e := range os.Environ() {
		if strings.Contains(e, "VERBOSE=") {
			verbose = true
			break
		}
		if strings.Contains(e, "LOGTOSTDERR=") {
			logtostderr = true
			break
		}
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if logtostderr {
		logrus.SetOutput(os.Stderr)
	}
}

// Run builds the command line application for file and executes it
// with opts.Args, returning the outputs of every book that ran keyed
// by name.
func Run(file *runbook.BookFile, opts runbook.InitOpts) (map[string]string, error) {
	if opts.Log == nil {
		panic("log must be set")
	}
	if opts.CommandPath == "" {
		panic("command path must be set")
	}
	if opts.Args == nil {
		panic("args must be set")
	}

	cobraApp, err := command(file, opts)
	if err != nil {
		return nil, err
	}

	return cobraApp.Run(opts.Args)
}

func command(file *runbook.BookFile, opts runbook.InitOpts) (*runbook.CobraApp, error) {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if len(opts.ExtraCmds) == 0 {
		opts.ExtraCmds = []*cobra.Command{
			InitCmd,
			CheckCmd,
			VersionCmd(logrus.StandardLogger()),
		}
	}

	return runbook.Init(file, opts)
}

// Command wraps a book file so that a host program can run books
// repeatedly without re-reading the file.
type Command struct {
	file *runbook.BookFile
	opts runbook.InitOpts
}

func New(file *runbook.BookFile, opts runbook.InitOpts) *Command {
	return &Command{
		file: file,
		opts: opts,
	}
}

// Run executes args against the book file and returns the output of
// the book that ran last.
func (c *Command) Run(args []string) (string, error) {
	cobraApp, err := command(c.file, c.opts)
	if err != nil {
		return "", err
	}

	results, err := cobraApp.Run(args)
	if err != nil {
		return "", err
	}

	if len(args) == 0 {
		return results[""], nil
	}

	return results[cobraApp.App.LastRun], nil
}
