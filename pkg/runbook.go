package runbook

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/runbook-sh/runbook/pkg/util/fileutil"
)

// CobraApp is a fully wired command line application: the cobra
// command tree plus the App it drives.
type CobraApp struct {
	viperCfg *viper.Viper
	cobraCmd *cobra.Command

	App *App
}

// Run executes the command tree against args and returns the outputs
// of every book that ran, keyed by book name.
func (a *CobraApp) Run(args []string) (map[string]string, error) {
	a.cobraCmd.SetArgs(args)
	err := a.cobraCmd.Execute()
	return a.App.Outputs, err
}

// InitError wraps a failure that happened before any book could run,
// e.g. an unreadable book file or an unknown output format.
type InitError struct {
	Err error
}

func NewInitError(err error) InitError {
	return InitError{Err: err}
}

func (e InitError) Error() string {
	return e.Err.Error()
}

type InitOpts struct {
	CommandPath string
	Args        []string
	Log         *logrus.Logger

	ExtraCmds []*cobra.Command

	// Collaborators for the engines built per run. Nil selects the
	// host shell runner, native desktop notifications and a plain
	// HTTP pinger.
	Runner   CommandRunner
	Notifier Notifier
	Pinger   Pinger
}

// Init builds the command line application for a parsed book file. It
// wires up the config, flags and logging the same way for every host
// binary that embeds a book file.
func Init(file *BookFile, opts ...InitOpts) (*CobraApp, error) {
	var o InitOpts
	if len(opts) == 0 {
		o = InitOpts{Args: []string{}}
	} else if len(opts) == 1 {
		o = opts[0]
	} else {
		return nil, fmt.Errorf("unexpected number of opts: %d", len(opts))
	}
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	commandName := file.Name
	if commandName == "" {
		commandName = "runbook"
	}

	v := viper.GetViper()

	a := &App{
		Name:        commandName,
		CommandPath: o.CommandPath,
		File:        file,
		Verbose:     false,
		Output:      "text",
		Colorize:    true,
		Env:         DetectEnvironment(),
		Viper:       v,
		Log:         log,
		Runner:      o.Runner,
		Notifier:    o.Notifier,
		Pinger:      o.Pinger,
		Outputs:     map[string]string{},
	}

	adapter := NewCobraAdapter(a)

	rootCmd, err := adapter.GenerateCommands()
	if err != nil {
		return nil, errors.Trace(err)
	}

	if len(o.ExtraCmds) > 0 {
		rootCmd.AddCommand(o.ExtraCmds...)
	}

	addPersistentFlags(rootCmd.PersistentFlags(), a)

	// Set default log level.
	v.SetDefault("log_level", "info")

	// Set default colors for the logs.
	v.SetDefault("log_color_panic", "red")
	v.SetDefault("log_color_fatal", "red")
	v.SetDefault("log_color_error", "red")
	v.SetDefault("log_color_warn", "red")
	v.SetDefault("log_color_info", "cyan")
	v.SetDefault("log_color_debug", "dark_gray")
	v.SetDefault("log_color_trace", "dark_gray")

	v.SetDefault("notifications", false)

	// see `func ExecuteC` in https://github.com/spf13/cobra/blob/master/command.go#L671-L677 for usage of ParseFlags()
	rootCmd.ParseFlags(o.Args)

	if a.ConfigFile != "" {
		v.SetConfigFile(a.ConfigFile)

		if err := v.MergeInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		// The book file doubles as the config file, so keys like
		// console_command, root and timeout can live next to the
		// books they apply to.
		v.SetConfigName(commandName)
		commonConfigFile := fmt.Sprintf("%s.yaml", commandName)
		commonConfigMsg := fmt.Sprintf("loading config file %s...", commonConfigFile)
		if fileutil.Exists(commonConfigFile) {
			if err := v.MergeInConfig(); err != nil {
				log.Errorf("%serror", commonConfigMsg)
				return nil, err
			}
			log.Debugf("%sdone", commonConfigMsg)
		} else {
			log.Debugf("%smissing", commonConfigMsg)
		}
	}

	//Set the environment prefix as app name
	v.SetEnvPrefix(strings.ToUpper(commandName))
	v.AutomaticEnv()

	//Substitute the . and - to _,
	replacer := strings.NewReplacer(".", "_", "-", "_")
	v.SetEnvKeyReplacer(replacer)

	// Workaround: we want logging configured via the command-line
	// options before the rootCmd is run
	if err := a.UpdateLoggingConfiguration(); err != nil {
		return nil, errors.Trace(err)
	}

	return &CobraApp{
		viperCfg: v,
		cobraCmd: rootCmd,
		App:      a,
	}, nil
}

func addPersistentFlags(fs *pflag.FlagSet, a *App) {
	fs.BoolVarP(&(a.Verbose), "verbose", "v", false, "verbose output")
	fs.StringVarP(&(a.Output), "output", "o", "text", "Output format. One of: json|text|bunyan|message")
	fs.BoolVarP(&(a.Colorize), "color", "C", true, "Colorize output")
	fs.StringVarP(&(a.ConfigFile), "config-file", "c", "", "Path to config file")
	fs.BoolVar(&(a.LogToStderr), "logtostderr", true, "write log messages to stderr")
}
