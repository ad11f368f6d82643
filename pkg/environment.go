package runbook

import (
	"flag"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Environment tells the engine what kind of process it is embedded in.
type Environment struct {
	// Console reports whether the process is attached to an interactive
	// console. Interactive commands are only legal when it is set.
	Console bool
	// Testing reports whether the process runs under the test harness.
	Testing bool
}

// Echoing reports whether command output should be streamed to the
// console as it arrives. Output is echoed on a console and silenced
// under tests.
func (e Environment) Echoing() bool {
	return e.Console && !e.Testing
}

// DetectEnvironment inspects the running process and returns the
// environment an Executor should assume when none is configured.
func DetectEnvironment() Environment {
	return Environment{
		Console: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		Testing: underTest(),
	}
}

func underTest() bool {
	if strings.HasSuffix(os.Args[0], ".test") {
		return true
	}
	return flag.Lookup("test.v") != nil
}
