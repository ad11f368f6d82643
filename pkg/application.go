package runbook

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/juju/errors"
	bunyan "github.com/mumoshu/logrus-bunyan-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// App ties a parsed book file to the config, the logger and the
// collaborators every run shares. One App serves every book the file
// defines.
type App struct {
	Name        string
	CommandPath string
	File        *BookFile
	ConfigFile  string
	Verbose     bool
	Output      string
	Colorize    bool
	LogToStderr bool
	Env         Environment
	Viper       *viper.Viper
	Log         *logrus.Logger

	Runner   CommandRunner
	Notifier Notifier
	Pinger   Pinger

	// Outputs caches the output of each finished book by name.
	Outputs map[string]string
	// LastRun is the name of the book that finished most recently.
	LastRun string
}

func (a *App) UpdateLoggingConfiguration() error {
	if a.Verbose {
		a.Log.SetLevel(logrus.DebugLevel)
	} else if level, err := logrus.ParseLevel(a.Viper.GetString("log_level")); err == nil {
		a.Log.SetLevel(level)
	}

	if a.LogToStderr {
		a.Log.SetOutput(os.Stderr)
	}

	commandName := path.Base(os.Args[0])
	switch a.Output {
	case "bunyan":
		a.Log.SetFormatter(&bunyan.Formatter{Name: commandName})
	case "json":
		a.Log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		a.Log.SetFormatter(a.textFormatter())
	case "message":
		a.Log.SetFormatter(&MessageOnlyFormatter{})
	default:
		return fmt.Errorf("unexpected output format specified: %s", a.Output)
	}

	return nil
}

// RunBook resolves the named book's inputs, builds a fresh engine and
// plays the book on it. The book's output is returned and cached in
// Outputs; an error from the run itself comes back exactly as the
// engine recorded it.
func (a *App) RunBook(name string, overrides map[string]string) (string, error) {
	ctx := a.Log.WithFields(logrus.Fields{"app": a.Name, "book": name})

	ctx.Debugf("app started book %s", name)

	def, err := a.File.FindBook(name)
	if err != nil {
		return "", errors.Trace(err)
	}

	values, err := NewInputResolver(a.Viper, overrides, nil).Resolve(name, def.Inputs)
	if err != nil {
		return "", errors.Annotatef(err, "app failed resolving inputs for book %s", name)
	}

	ctx.WithFields(logrus.Fields{"values": values}).Debugf("app bound values for book %s", name)

	consoleCommand := a.Viper.GetString("console_command")
	if consoleCommand == "" {
		consoleCommand = a.File.ConsoleCommand
	}

	opts := Opts{
		Env:            &a.Env,
		ConsoleCommand: consoleCommand,
		WorkDir:        a.Viper.GetString("root"),
		Runner:         a.Runner,
		Notifier:       a.Notifier,
		Pinger:         a.Pinger,
		Log:            a.Log,
	}
	if a.Viper.IsSet("timeout") {
		opts.DefaultTimeout = Duration(time.Duration(a.Viper.GetFloat64("timeout") * float64(time.Second)))
	}

	e, err := New(opts)
	if err != nil {
		return "", errors.Trace(err)
	}

	book := a.File.Compile(def, values)

	out, runErr := book.Run(e)

	a.Outputs[name] = out
	a.LastRun = name

	if runErr != nil {
		ctx.Debugf("app finished book %s with error: %v", name, runErr)
	} else {
		ctx.Debugf("app finished book %s", name)
	}

	if a.Viper.GetBool("notifications") {
		a.notifyCompletion(name, runErr)
	}

	return out, runErr
}

func (a *App) notifyCompletion(book string, runErr error) {
	title := fmt.Sprintf("%s: %s", a.Name, book)
	body := "Book completed."
	if runErr != nil {
		body = "Book failed."
	}

	n := a.Notifier
	if n == nil {
		n = NewDesktopNotifier()
	}

	if err := n.Notify(title, body); err != nil {
		a.Log.Debugf("completion notification not delivered: %v", err)
	}
}

func (a *App) Books() []*BookDef {
	return a.File.Books
}
