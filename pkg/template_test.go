package runbook

import (
	"strings"
	"testing"
)

func TestTemplateRender(t *testing.T) {
	values := map[string]interface{}{
		"env":          "production",
		"num_replicas": 3,
		"deploy": map[string]interface{}{
			"channel": "#ops",
		},
	}
	tmpl := NewTemplate("runbook.yaml", "deploy", values)

	testcases := []struct {
		subject  string
		expr     string
		expected string
	}{
		{
			subject:  "plain text",
			expr:     "db:migrate",
			expected: "db:migrate",
		},
		{
			subject:  "get by name",
			expr:     `deploy:run --env {{ get "env" }}`,
			expected: "deploy:run --env production",
		},
		{
			subject:  "get normalizes dashes",
			expr:     `scale --n {{ get "num-replicas" }}`,
			expected: "scale --n 3",
		},
		{
			subject:  "get walks dotted paths",
			expr:     `notify {{ get "deploy.channel" }}`,
			expected: "notify #ops",
		},
		{
			subject:  "sprig functions",
			expr:     `{{ get "env" | upper }}`,
			expected: "PRODUCTION",
		},
		{
			subject:  "escapeDoubleQuotes",
			expr:     `say {{ escapeDoubleQuotes "a \"quoted\" word" }}`,
			expected: `say a \"quoted\" word`,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.subject, func(t *testing.T) {
			actual, err := tmpl.Render(tc.expr, "command")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if actual != tc.expected {
				t.Errorf("unexpected result: got %q, want %q", actual, tc.expected)
			}
		})
	}
}

func TestTemplateRenderErrors(t *testing.T) {
	tmpl := NewTemplate("runbook.yaml", "deploy", map[string]interface{}{"env": "staging"})

	if _, err := tmpl.Render(`{{ get "env" `, "command"); err == nil {
		t.Error("expected a parse error")
	} else if !strings.Contains(err.Error(), "failed parsing command of book deploy") {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := tmpl.Render(`{{ get "region" }}`, "command"); err == nil {
		t.Error("expected an error for an unknown value")
	} else if !strings.Contains(err.Error(), `no value found for "region"`) {
		t.Errorf("unexpected error: %v", err)
	}
}
