package runbook

import (
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ArgsFromEnvVars reads extra command line arguments from RUNBOOK_RUN.
// This lets wrappers like CI jobs choose the book to run without
// touching the argument list. RUNBOOK_RUN_TRIM_PREFIX is stripped from
// the front first, so a full command line can be passed through as-is.
func ArgsFromEnvVars() ([]string, error) {
	return argsFromEnvVars(os.Getenv)
}

func argsFromEnvVars(getenv func(string) string) ([]string, error) {
	const (
		Run           = "RUNBOOK_RUN"
		RunTrimPrefix = "RUNBOOK_RUN_TRIM_PREFIX"
	)

	run := getenv(Run)
	prefix := getenv(RunTrimPrefix)

	if run != "" {
		run = strings.TrimSpace(run)
		if prefix != "" {
			run = strings.TrimPrefix(run, prefix)
		}

		return shellwords.Parse(run)
	}
	return nil, nil
}
