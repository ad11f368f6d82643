package runbook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/runbook-sh/runbook/pkg/util/envutil"
)

// Command describes one process execution ordered by the engine.
type Command struct {
	// Line is the full command line. Non-interactive commands are split
	// on whitespace only, so an argument cannot contain an embedded
	// space.
	Line string
	// WorkDir is the directory the command runs in.
	WorkDir string
	// Interactive attaches the terminal to the command and runs it
	// through the shell instead of capturing its output.
	Interactive bool
	// Timeout kills a non-interactive command that runs longer. Zero
	// means no timeout. Interactive commands are never timed out.
	Timeout time.Duration
	// Env is overlaid on the process environment.
	Env map[string]string
	// Echo receives stdout chunks as the command produces them. Nil
	// disables echoing. Stderr is never echoed.
	Echo io.Writer
}

// Result carries what a finished command left behind. Stdout and
// Stderr hold the raw captured bytes of a non-interactive command,
// newlines included.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

type CommandRunner interface {
	Run(c Command) (Result, error)
}

// CommandTimeoutError reports a command that was killed because it
// exceeded its timeout.
type CommandTimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e CommandTimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}

// ShellRunner runs commands as child processes of this one.
//
// A non-zero exit is not an error here: the Result carries the exit
// code and both output streams, and the engine decides what to keep.
// Run only fails when the command cannot be run at all or times out.
type ShellRunner struct{}

func NewShellRunner() ShellRunner {
	return ShellRunner{}
}

func (r ShellRunner) Run(c Command) (Result, error) {
	if c.Interactive {
		return r.runInteractive(c)
	}
	return r.runCaptured(c)
}

func (r ShellRunner) runCaptured(c Command) (Result, error) {
	words := strings.Fields(c.Line)
	if len(words) == 0 {
		return Result{}, errors.New("empty command")
	}

	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	logctx := log.WithFields(log.Fields{"cmd": words})
	logctx.Debug("command started")

	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	cmd.Dir = c.WorkDir
	if len(c.Env) > 0 {
		cmd.Env = envutil.Merge(c.Env)
	}

	var stdout, stderr bytes.Buffer
	if c.Echo != nil {
		cmd.Stdout = io.MultiWriter(&stdout, c.Echo)
	} else {
		cmd.Stdout = &stdout
	}
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		logctx.Errorf("command timed out after %s", c.Timeout)
		return Result{}, CommandTimeoutError{Command: c.Line, Timeout: c.Timeout}
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return Result{}, errors.Wrapf(err, "running %q", words[0])
		}
		logctx.Debugf("command finished with status %d", exitErr.ExitCode())
		return Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitErr.ExitCode(),
		}, nil
	}

	logctx.Debug("command finished with status 0")

	return Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}

func (r ShellRunner) runInteractive(c Command) (Result, error) {
	// Quote each word so that shell metacharacters in the command line
	// stay literal.
	line := shellescape.QuoteCommand(strings.Fields(c.Line))

	log.WithFields(log.Fields{"cmd": line}).Debug("interactive command started")

	cmd := exec.Command("sh", "-c", line)
	cmd.Dir = c.WorkDir
	if len(c.Env) > 0 {
		cmd.Env = envutil.Merge(c.Env)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return Result{}, errors.Wrap(err, "running interactive command")
		}
		return Result{ExitCode: exitErr.ExitCode()}, nil
	}

	return Result{}, nil
}
