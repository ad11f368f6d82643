package runbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func testCobraCommands(t *testing.T, runner *fakeRunner) (*App, *cobra.Command, *bytes.Buffer) {
	t.Helper()

	app := testApp(t, runner)
	root, err := NewCobraAdapter(app).GenerateCommands()
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	root.SetOutput(buf)
	return app, root, buf
}

func TestRunCommandPrintsBookOutput(t *testing.T) {
	runner := &fakeRunner{results: []Result{{Stdout: "done\n"}}}
	_, root, buf := testCobraCommands(t, runner)

	root.SetArgs([]string{"run", "migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "done\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRunCommandSkipsPrintWhenEchoing(t *testing.T) {
	runner := &fakeRunner{results: []Result{{Stdout: "done\n"}}}
	app, root, buf := testCobraCommands(t, runner)
	app.Env = Environment{Console: true, Testing: false}

	root.SetArgs([]string{"run", "migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "" {
		t.Errorf("expected no reprint of echoed output, got %q", buf.String())
	}
}

func TestRunCommandAppliesSetOverrides(t *testing.T) {
	runner := &fakeRunner{results: []Result{{Stdout: "ohai\n"}}}
	_, root, _ := testCobraCommands(t, runner)

	root.SetArgs([]string{"run", "greet", "--set", "greeting=ohai"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.commands[0].Line != "echo ohai" {
		t.Errorf("unexpected command line: %q", runner.commands[0].Line)
	}
}

func TestRunCommandRejectsMalformedSet(t *testing.T) {
	_, root, _ := testCobraCommands(t, &fakeRunner{})

	root.SetArgs([]string{"run", "greet", "--set", "greeting"})
	err := root.Execute()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "invalid --set value `greeting`") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunCommandRequiresBookName(t *testing.T) {
	_, root, _ := testCobraCommands(t, &fakeRunner{})

	root.SetArgs([]string{"run"})
	if err := root.Execute(); err == nil {
		t.Error("expected an error for a bare run")
	}
}

func TestRunCommandContinuesAfterFailedBook(t *testing.T) {
	runner := &fakeRunner{
		errs:    []error{errors.New("db down")},
		results: []Result{{}, {Stdout: "ohai\n"}},
	}
	_, root, buf := testCobraCommands(t, runner)

	root.SetArgs([]string{"run", "migrate", "greet"})
	err := root.Execute()
	if err == nil {
		t.Fatal("expected the failure to come back")
	}
	if !strings.Contains(err.Error(), "book migrate failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(runner.commands) != 2 {
		t.Fatalf("expected the second book to still run, got %d commands", len(runner.commands))
	}
	if !strings.Contains(buf.String(), "ohai\n") {
		t.Errorf("second book's output missing: %q", buf.String())
	}
}

func TestListCommandPrintsBooks(t *testing.T) {
	_, root, buf := testCobraCommands(t, &fakeRunner{})

	root.SetArgs([]string{"list"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "greet\nmigrate\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
