package runbook

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultCommandTimeout bounds non-interactive commands that carry no
// explicit timeout.
const DefaultCommandTimeout = 60 * time.Second

// ErrNoConsoleCommand is recorded when RunConsole is used on an engine
// that was built without a console command.
var ErrNoConsoleCommand = errors.New("console command is not configured")

// Executor runs an ordered sequence of console commands, external
// commands, in-process functions and HTTP pings, and accumulates their
// textual output in a single buffer.
//
// Every operation returns the receiver so a routine reads as one
// fluent chain. The first recorded error turns the remaining
// operations into no-ops; check it once at the end via Err.
//
// The three failure classes are deliberately asymmetric: a validation
// failure aborts the chain, a command that exits non-zero only swaps
// its stderr into the buffer, and errors from functions and pings are
// recorded exactly as returned.
type Executor struct {
	env      Environment
	runner   CommandRunner
	notifier Notifier
	pinger   Pinger

	consoleCommand string
	workDir        string
	defaultTimeout time.Duration
	console        io.Writer
	log            *logrus.Logger

	output string
	err    error
}

// Opts configures an Executor. The zero value selects the detected
// environment, the host shell runner, native desktop notifications and
// a plain HTTP pinger.
type Opts struct {
	// Env overrides the detected execution environment.
	Env *Environment
	// ConsoleCommand is the host application's console entry point,
	// e.g. "bin/app console". RunConsole refuses to run without it.
	ConsoleCommand string
	// WorkDir is the directory every command runs in, normally the
	// host application root. Defaults to the current directory.
	WorkDir string
	// DefaultTimeout applies to non-interactive commands that carry no
	// per-command timeout. Defaults to DefaultCommandTimeout; an
	// explicit zero (Duration(0)) disables the default timeout.
	DefaultTimeout *time.Duration
	// Console receives echoed output. Defaults to os.Stdout.
	Console io.Writer

	Runner   CommandRunner
	Notifier Notifier
	Pinger   Pinger
	Log      *logrus.Logger
}

func New(opts ...Opts) (*Executor, error) {
	var o Opts
	if len(opts) == 0 {
		o = Opts{}
	} else if len(opts) == 1 {
		o = opts[0]
	} else {
		return nil, fmt.Errorf("unexpected number of opts: %d", len(opts))
	}

	env := DetectEnvironment()
	if o.Env != nil {
		env = *o.Env
	}

	workDir := o.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "resolving work dir")
		}
		workDir = wd
	}

	timeout := DefaultCommandTimeout
	if o.DefaultTimeout != nil {
		timeout = *o.DefaultTimeout
	}

	console := o.Console
	if console == nil {
		console = os.Stdout
	}

	var runner CommandRunner = o.Runner
	if runner == nil {
		runner = NewShellRunner()
	}

	notifier := o.Notifier
	if notifier == nil {
		notifier = NewDesktopNotifier()
	}

	pinger := o.Pinger
	if pinger == nil {
		pinger = NewHTTPPinger(nil)
	}

	logger := o.Log
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Executor{
		env:            env,
		runner:         runner,
		notifier:       notifier,
		pinger:         pinger,
		consoleCommand: o.ConsoleCommand,
		workDir:        workDir,
		defaultTimeout: timeout,
		console:        console,
		log:            logger,
	}, nil
}

// Duration returns a pointer to d. Opts and RunOpts take *time.Duration
// so that an explicit zero can disable the timeout.
func Duration(d time.Duration) *time.Duration {
	return &d
}

// RunOpts adjusts a single RunConsole or RunExternal call.
type RunOpts struct {
	// Interactive attaches the terminal to the command instead of
	// capturing its output. Only legal in a console environment.
	Interactive bool
	// Timeout overrides the engine default for this command. Duration(0)
	// disables the timeout.
	Timeout *time.Duration
	// Env is overlaid on the process environment of this command.
	Env map[string]string
}

func runOpts(opts []RunOpts) (RunOpts, error) {
	switch len(opts) {
	case 0:
		return RunOpts{}, nil
	case 1:
		return opts[0], nil
	default:
		return RunOpts{}, fmt.Errorf("unexpected number of opts: %d", len(opts))
	}
}

// RunConsole runs a subcommand of the host application's console tool,
// prefixing the configured console command.
func (e *Executor) RunConsole(command string, opts ...RunOpts) *Executor {
	if e.err != nil {
		return e
	}

	if e.consoleCommand == "" {
		e.err = ErrNoConsoleCommand
		return e
	}

	return e.runCommand(e.consoleCommand+" "+command, opts)
}

// RunExternal runs the given command line verbatim.
func (e *Executor) RunExternal(command string, opts ...RunOpts) *Executor {
	if e.err != nil {
		return e
	}

	return e.runCommand(command, opts)
}

func (e *Executor) runCommand(command string, opts []RunOpts) *Executor {
	o, err := runOpts(opts)
	if err != nil {
		e.err = err
		return e
	}

	if err := e.validate(command, o.Interactive); err != nil {
		e.err = err
		return e
	}

	c := Command{
		Line:        command,
		WorkDir:     e.workDir,
		Interactive: o.Interactive,
		Env:         o.Env,
	}

	if o.Interactive {
		res, err := e.runner.Run(c)
		if err != nil {
			e.err = err
			return e
		}
		if res.ExitCode == 0 {
			e.output += " Interactive command completed"
		} else {
			e.output += " Interactive command failed"
		}
		return e
	}

	c.Timeout = e.defaultTimeout
	if o.Timeout != nil {
		c.Timeout = *o.Timeout
	}
	if e.env.Echoing() {
		c.Echo = e.console
	}

	res, err := e.runner.Run(c)
	if err != nil {
		e.err = err
		return e
	}

	// A non-zero exit is not an error: the command's stderr becomes the
	// output instead of its stdout.
	if res.ExitCode == 0 {
		e.output += res.Stdout
	} else {
		e.output += res.Stderr
	}

	return e
}

// RunFunc invokes fn and appends its return value to the output
// buffer. An error from fn is recorded as returned and aborts the
// chain.
func (e *Executor) RunFunc(fn func() (string, error)) *Executor {
	if e.err != nil {
		return e
	}

	out, err := fn()
	if err != nil {
		e.err = err
		return e
	}

	if e.env.Echoing() {
		fmt.Fprint(e.console, out)
	}

	e.output += out

	return e
}

// Ping issues a blocking GET against url, merging the given header
// maps onto the request. The response body is discarded and the output
// buffer is left untouched; a transport error or non-2xx status is
// recorded as returned.
func (e *Executor) Ping(url string, headers ...map[string]string) *Executor {
	if e.err != nil {
		return e
	}

	merged := map[string]string{}
	for _, h := range headers {
		for k, v := range h {
			merged[k] = v
		}
	}

	if err := e.pinger.Ping(url, merged); err != nil {
		e.err = err
	}

	return e
}

// Notify sends a desktop notification. Delivery is best-effort:
// failures are logged, never recorded on the chain, and the output
// buffer is left untouched.
func (e *Executor) Notify(title, body string) *Executor {
	if e.err != nil {
		return e
	}

	if err := e.notifier.Notify(title, body); err != nil {
		e.log.WithFields(logrus.Fields{"title": title}).Debugf("notification not delivered: %v", err)
	}

	return e
}

// Output returns everything the chain has appended so far.
func (e *Executor) Output() string {
	return e.output
}

// Err returns the first error recorded by the chain, or nil.
func (e *Executor) Err() error {
	return e.err
}

func (e *Executor) reset() {
	e.output = ""
	e.err = nil
}
