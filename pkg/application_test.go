package runbook

import (
	"io/ioutil"
	"strings"
	"testing"
	"time"

	bunyan "github.com/mumoshu/logrus-bunyan-formatter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const appBookFileYaml = `
console_command: bin/app console
books:
  greet:
    inputs:
    - name: greeting
      default: hello
    steps:
    - external: echo {{ get "greeting" }}
  migrate:
    steps:
    - console: db:migrate
`

func testApp(t *testing.T, runner *fakeRunner) *App {
	t.Helper()

	file, err := ReadBookFileFromString(appBookFileYaml)
	if err != nil {
		t.Fatal(err)
	}
	file.Name = "shop"

	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	return &App{
		Name:    file.Name,
		File:    file,
		Output:  "text",
		Env:     Environment{Console: true, Testing: true},
		Viper:   viper.New(),
		Log:     logger,
		Runner:  runner,
		Outputs: map[string]string{},
	}
}

func TestAppRunBookRecordsOutputs(t *testing.T) {
	runner := &fakeRunner{results: []Result{{Stdout: "done\n"}}}
	app := testApp(t, runner)

	out, err := app.RunBook("migrate", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "done\n" {
		t.Errorf("unexpected output: %q", out)
	}
	if runner.commands[0].Line != "bin/app console db:migrate" {
		t.Errorf("unexpected command line: %q", runner.commands[0].Line)
	}
	if app.Outputs["migrate"] != "done\n" {
		t.Errorf("output not cached: %#v", app.Outputs)
	}
	if app.LastRun != "migrate" {
		t.Errorf("unexpected last run: %q", app.LastRun)
	}
}

func TestAppRunBookTemplatesInputs(t *testing.T) {
	runner := &fakeRunner{results: []Result{{Stdout: "ohai\n"}}}
	app := testApp(t, runner)

	if _, err := app.RunBook("greet", map[string]string{"greeting": "ohai"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.commands[0].Line != "echo ohai" {
		t.Errorf("unexpected command line: %q", runner.commands[0].Line)
	}
}

func TestAppConsoleCommandFromConfig(t *testing.T) {
	runner := &fakeRunner{}
	app := testApp(t, runner)
	app.Viper.Set("console_command", "docker exec app rails")

	if _, err := app.RunBook("migrate", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.commands[0].Line != "docker exec app rails db:migrate" {
		t.Errorf("unexpected command line: %q", runner.commands[0].Line)
	}
}

func TestAppDefaultTimeoutFromConfig(t *testing.T) {
	runner := &fakeRunner{}
	app := testApp(t, runner)
	app.Viper.Set("timeout", 0.5)

	if _, err := app.RunBook("migrate", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.commands[0].Timeout != 500*time.Millisecond {
		t.Errorf("unexpected timeout: %v", runner.commands[0].Timeout)
	}
}

func TestAppRunBookUnknownBook(t *testing.T) {
	app := testApp(t, &fakeRunner{})

	_, err := app.RunBook("rollback", nil)
	if err == nil {
		t.Fatal("expected an error for an undefined book")
	}
	if !strings.Contains(err.Error(), "book `rollback` is not defined") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAppCompletionNotifications(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		notifier := &fakeNotifier{}
		app := testApp(t, &fakeRunner{})
		app.Notifier = notifier
		app.Viper.Set("notifications", true)

		if _, err := app.RunBook("migrate", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if notifier.titles[0] != "shop: migrate" || notifier.bodies[0] != "Book completed." {
			t.Errorf("unexpected notification: %q %q", notifier.titles[0], notifier.bodies[0])
		}
	})

	t.Run("failed", func(t *testing.T) {
		notifier := &fakeNotifier{}
		app := testApp(t, &fakeRunner{errs: []error{errors.New("db down")}})
		app.Notifier = notifier
		app.Viper.Set("notifications", true)

		if _, err := app.RunBook("migrate", nil); err == nil {
			t.Fatal("expected the run error to come back")
		}
		if notifier.bodies[0] != "Book failed." {
			t.Errorf("unexpected notification body: %q", notifier.bodies[0])
		}
	})

	t.Run("notifier failure does not fail the run", func(t *testing.T) {
		notifier := &fakeNotifier{err: errors.New("no dbus")}
		app := testApp(t, &fakeRunner{})
		app.Notifier = notifier
		app.Viper.Set("notifications", true)

		if _, err := app.RunBook("migrate", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("disabled by default", func(t *testing.T) {
		notifier := &fakeNotifier{}
		app := testApp(t, &fakeRunner{})
		app.Notifier = notifier

		if _, err := app.RunBook("migrate", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notifier.titles) != 0 {
			t.Errorf("unexpected notifications: %v", notifier.titles)
		}
	})
}

func TestUpdateLoggingConfiguration(t *testing.T) {
	newApp := func(output string) *App {
		logger := logrus.New()
		logger.SetOutput(ioutil.Discard)
		v := viper.New()
		v.Set("log_level", "warning")
		return &App{Name: "shop", Output: output, Viper: v, Log: logger}
	}

	t.Run("level from config", func(t *testing.T) {
		app := newApp("text")
		if err := app.UpdateLoggingConfiguration(); err != nil {
			t.Fatal(err)
		}
		if app.Log.Level != logrus.WarnLevel {
			t.Errorf("unexpected level: %v", app.Log.Level)
		}
		if _, ok := app.Log.Formatter.(*textLogFormatter); !ok {
			t.Errorf("unexpected formatter: %T", app.Log.Formatter)
		}
	})

	t.Run("verbose wins over config", func(t *testing.T) {
		app := newApp("text")
		app.Verbose = true
		if err := app.UpdateLoggingConfiguration(); err != nil {
			t.Fatal(err)
		}
		if app.Log.Level != logrus.DebugLevel {
			t.Errorf("unexpected level: %v", app.Log.Level)
		}
	})

	t.Run("json formatter", func(t *testing.T) {
		app := newApp("json")
		if err := app.UpdateLoggingConfiguration(); err != nil {
			t.Fatal(err)
		}
		if _, ok := app.Log.Formatter.(*logrus.JSONFormatter); !ok {
			t.Errorf("unexpected formatter: %T", app.Log.Formatter)
		}
	})

	t.Run("bunyan formatter", func(t *testing.T) {
		app := newApp("bunyan")
		if err := app.UpdateLoggingConfiguration(); err != nil {
			t.Fatal(err)
		}
		if _, ok := app.Log.Formatter.(*bunyan.Formatter); !ok {
			t.Errorf("unexpected formatter: %T", app.Log.Formatter)
		}
	})

	t.Run("message formatter", func(t *testing.T) {
		app := newApp("message")
		if err := app.UpdateLoggingConfiguration(); err != nil {
			t.Fatal(err)
		}
		if _, ok := app.Log.Formatter.(*MessageOnlyFormatter); !ok {
			t.Errorf("unexpected formatter: %T", app.Log.Formatter)
		}
	})

	t.Run("unknown output format", func(t *testing.T) {
		app := newApp("xml")
		if err := app.UpdateLoggingConfiguration(); err == nil {
			t.Error("expected an error for an unknown output format")
		}
	})
}
