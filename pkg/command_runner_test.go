package runbook

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix tools")
	}
}

func TestShellRunnerCapturesStdout(t *testing.T) {
	skipOnWindows(t)

	res, err := NewShellRunner().Run(Command{Line: "echo hi"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("unexpected exit code: %d", res.ExitCode)
	}
	if res.Stdout != "hi\n" {
		t.Errorf("unexpected stdout: %q", res.Stdout)
	}
}

func TestShellRunnerNonZeroExit(t *testing.T) {
	skipOnWindows(t)

	script := filepath.Join(t.TempDir(), "fail.sh")
	if err := ioutil.WriteFile(script, []byte("#!/bin/sh\necho oops >&2\nexit 3\n"), 0755); err != nil {
		t.Fatal(err)
	}

	res, err := NewShellRunner().Run(Command{Line: script})

	// The failure is reported through the result, not as an error.
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("unexpected exit code: %d", res.ExitCode)
	}
	if res.Stderr != "oops\n" {
		t.Errorf("unexpected stderr: %q", res.Stderr)
	}
}

func TestShellRunnerTimeout(t *testing.T) {
	skipOnWindows(t)

	_, err := NewShellRunner().Run(Command{Line: "sleep 5", Timeout: 100 * time.Millisecond})

	terr, ok := err.(CommandTimeoutError)
	if !ok {
		t.Fatalf("expected a CommandTimeoutError, got %T: %v", err, err)
	}
	if terr.Command != "sleep 5" {
		t.Errorf("unexpected command in error: %q", terr.Command)
	}
	if terr.Timeout != 100*time.Millisecond {
		t.Errorf("unexpected timeout in error: %s", terr.Timeout)
	}
}

func TestShellRunnerEmptyCommand(t *testing.T) {
	if _, err := NewShellRunner().Run(Command{Line: "   "}); err == nil {
		t.Fatal("expected an error for a blank command line")
	}
}

func TestShellRunnerEchoStreams(t *testing.T) {
	skipOnWindows(t)

	var echo bytes.Buffer

	res, err := NewShellRunner().Run(Command{Line: "echo streamed", Echo: &echo})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if echo.String() != "streamed\n" {
		t.Errorf("unexpected echo: %q", echo.String())
	}
	if res.Stdout != "streamed\n" {
		t.Errorf("stdout should still be captured, got %q", res.Stdout)
	}
}

func TestShellRunnerWorkDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()

	res, err := NewShellRunner().Run(Command{Line: "pwd", WorkDir: dir})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("unexpected working directory: %q", got)
	}
}

func TestShellRunnerEnvOverlay(t *testing.T) {
	skipOnWindows(t)

	res, err := NewShellRunner().Run(Command{
		Line: "printenv GREETING",
		Env:  map[string]string{"GREETING": "hello"},
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("unexpected stdout: %q", res.Stdout)
	}
}

func TestShellRunnerInteractive(t *testing.T) {
	skipOnWindows(t)

	t.Run("exit 0", func(t *testing.T) {
		res, err := NewShellRunner().Run(Command{Line: "true", Interactive: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ExitCode != 0 {
			t.Errorf("unexpected exit code: %d", res.ExitCode)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		res, err := NewShellRunner().Run(Command{Line: "false", Interactive: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ExitCode != 1 {
			t.Errorf("unexpected exit code: %d", res.ExitCode)
		}
	})
}
