package runbook

import (
	"fmt"
	"time"
)

// run renders the step's text fields and plays the step on the engine.
// Engine failures land on the chain as usual; run itself only fails
// when a template does not render.
func (s *StepDef) run(e *Executor, t *Template) error {
	switch {
	case s.Console != "":
		command, err := t.Render(s.Console, s.Name)
		if err != nil {
			return err
		}
		e.RunConsole(command, s.runOpts())
	case s.External != "":
		command, err := t.Render(s.External, s.Name)
		if err != nil {
			return err
		}
		e.RunExternal(command, s.runOpts())
	case s.Ping != "":
		url, err := t.Render(s.Ping, s.Name)
		if err != nil {
			return err
		}
		headers := map[string]string{}
		for k, v := range s.Headers {
			rendered, err := t.Render(v, fmt.Sprintf("%s.headers.%s", s.Name, k))
			if err != nil {
				return err
			}
			headers[k] = rendered
		}
		e.Ping(url, headers)
	case s.Notify != "":
		title, err := t.Render(s.Notify, s.Name)
		if err != nil {
			return err
		}
		body, err := t.Render(s.Body, fmt.Sprintf("%s.body", s.Name))
		if err != nil {
			return err
		}
		e.Notify(title, body)
	default:
		return fmt.Errorf("step `%s` has no action", s.Name)
	}

	return nil
}

// runOpts maps the step's yaml attributes onto engine options. A nil
// timeout defers to the engine default and an explicit zero disables
// it.
func (s *StepDef) runOpts() RunOpts {
	o := RunOpts{Interactive: s.Interactive}
	if s.Timeout != nil {
		o.Timeout = Duration(time.Duration(*s.Timeout * float64(time.Second)))
	}
	return o
}
