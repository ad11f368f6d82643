package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	runbook "github.com/runbook-sh/runbook/pkg"
	"github.com/runbook-sh/runbook/pkg/load"
	"github.com/runbook-sh/runbook/pkg/util/envutil"
	"github.com/runbook-sh/runbook/pkg/util/fileutil"
)

// DefaultBookFileName is looked for in the working directory when no
// book file is named on the command line or via RUNBOOK_FILE.
const DefaultBookFileName = "runbook.yaml"

func MustRun() {
	if opts, err := RunE(); err != nil {
		HandleErrorAndExit(err, opts)
	}
}

// RunE locates the book file, builds the application for it and runs
// the process arguments against it.
//
// The book file is found in this order: an existing file named by the
// first argument, the RUNBOOK_FILE environment variable, then
// runbook.yaml in the working directory. A remote source containing
// `//` is fetched through the getter cache. With no file at all the
// app still starts, carrying only the generic subcommands.
func RunE() (runbook.InitOpts, error) {
	var file *runbook.BookFile
	var args []string

	var cmdPath string
	var bookfile string

	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") && fileutil.Exists(os.Args[1]) {
		bookfile = os.Args[1]
		args = os.Args[2:]
		cmdPath = bookfile
	} else {
		cmdPath = os.Args[0]
		bookfile = DefaultBookFileName
		args = os.Args[1:]
	}

	opts := runbook.InitOpts{
		CommandPath: cmdPath,
		Args:        args,
		Log:         logrus.StandardLogger(),
	}

	additionalArgs, err := runbook.ArgsFromEnvVars()
	if err != nil {
		return opts, runbook.NewInitError(err)
	}
	args = append(args, additionalArgs...)

	opts.Args = args

	environ := envutil.ParseEnviron()

	if environ["RUNBOOK_FILE"] != "" {
		bookfile = environ["RUNBOOK_FILE"]
	}

	if strings.Contains(bookfile, "//") {
		remote, err := load.Remote(bookfile)
		if err != nil {
			return opts, runbook.NewInitError(err)
		}
		file = remote
	} else if fileutil.Exists(bookfile) {
		fromFile, err := load.File(bookfile)
		if err != nil {
			return opts, runbook.NewInitError(err)
		}
		file = fromFile
	} else {
		file = runbook.NewDefaultBookFile()
	}

	opts.ExtraCmds = []*cobra.Command{
		InitCmd,
		CheckCmd,
		VersionCmd(logrus.StandardLogger()),
	}

	_, err = Run(file, opts)
	return opts, err
}

// YAML runs the process arguments against a book file embedded in the
// host binary as a string. Used by programs that go generate or inline
// their books.
func YAML(yaml string) {
	cmdPath := os.Args[0]
	file, err := load.YAML(yaml)

	if err != nil {
		logrus.Errorf("%+v", err)
		panic(errors.Trace(err))
	}

	base := filepath.Base(cmdPath)
	file.Name = strings.TrimSuffix(base, filepath.Ext(base))

	opts := runbook.InitOpts{
		CommandPath: cmdPath,
		Args:        os.Args[1:],
		Log:         logrus.StandardLogger(),
		ExtraCmds: []*cobra.Command{
			VersionCmd(logrus.StandardLogger()),
		},
	}

	if _, err := Run(file, opts); err != nil {
		HandleErrorAndExit(err, opts)
	}
}

func HandleErrorAndExit(err error, opts runbook.InitOpts) {
	msg, status := HandleError(err, opts)
	LogAndExit(opts, msg, status)
}

func LogAndExit(opts runbook.InitOpts, msg string, status int) {
	if msg != "" {
		opts.Log.Errorf("%s", msg)
	}
	os.Exit(status)
}

// HandleError maps an error from RunE onto the message to log and the
// exit status to use.
func HandleError(err error, opts runbook.InitOpts) (string, int) {
	if err == nil {
		return "", 0
	}
	args := opts.Args
	log := opts.Log
	var msg string
	switch err.(type) {
	case runbook.InitError:
		msg = fmt.Sprintf("%v", err)
	case runbook.ValidationError:
		msg = fmt.Sprintf("Error: %v", err)
	case runbook.CommandTimeoutError:
		msg = fmt.Sprintf("Error: %v", err)
	default:
		// A bare invocation produces the command help, not an error.
		if len(args) == 0 {
			return "", 0
		}
		if log.GetLevel() == logrus.DebugLevel {
			msg = fmt.Sprintf("Stack trace: %+v\n", err)
		}
		errs := strings.Split(err.Error(), ": ")
		msg += strings.Join(errs, "\n")
	}
	return msg, 1
}

// GetStatus returns the exit status HandleError would use for err.
func GetStatus(err error, opts runbook.InitOpts) int {
	_, status := HandleError(err, opts)
	return status
}
