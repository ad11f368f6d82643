package runbook

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgsFromEnvVars(t *testing.T) {
	testcases := []struct {
		run        string
		trimPrefix string
		expected   []string
	}{
		{
			run:        "run deploy --set env=staging",
			trimPrefix: "",
			expected:   []string{"run", "deploy", "--set", "env=staging"},
		},
		{
			run:        "run deploy --set env=staging ",
			trimPrefix: "",
			expected:   []string{"run", "deploy", "--set", "env=staging"},
		},
		{
			run:        " run deploy --set env=staging ",
			trimPrefix: "",
			expected:   []string{"run", "deploy", "--set", "env=staging"},
		},
		{
			run:        "/usr/local/bin/rb run deploy",
			trimPrefix: "/usr/local/bin/rb",
			expected:   []string{"run", "deploy"},
		},
		{
			run:        "/usr/local/bin/rb run deploy ",
			trimPrefix: "/usr/local/bin/rb",
			expected:   []string{"run", "deploy"},
		},
		{
			run:        " /usr/local/bin/rb run deploy",
			trimPrefix: "/usr/local/bin/rb",
			expected:   []string{"run", "deploy"},
		},
		{
			run:        `run greet --set message="hello world"`,
			trimPrefix: "",
			expected:   []string{"run", "greet", "--set", "message=hello world"},
		},
	}

	for i, tc := range testcases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			getenv := func(name string) string {
				switch name {
				case "RUNBOOK_RUN":
					return tc.run
				case "RUNBOOK_RUN_TRIM_PREFIX":
					return tc.trimPrefix
				default:
					t.Fatalf("Unexpected envvar accessed: %s", name)
					return ""
				}
			}
			args, err := argsFromEnvVars(getenv)
			if diff := cmp.Diff(tc.expected, args); diff != "" {
				t.Errorf("%v", diff)
			}

			if err != nil {
				t.Errorf("%v", err)
			}
		})
	}
}
