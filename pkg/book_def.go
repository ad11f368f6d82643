package runbook

import (
	"fmt"
	"sort"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"

	"github.com/runbook-sh/runbook/pkg/util/maputil"
)

// BookFile is the parsed form of a book file such as runbook.yaml. It
// declares the console command shared by every book and the books
// themselves, keyed by name.
type BookFile struct {
	Name           string
	ConsoleCommand string
	Books          []*BookDef
}

type BookDef struct {
	Name        string
	Description string
	Inputs      []*InputDef
	Steps       []*StepDef
}

// StepDef is one entry under a book's steps list. Exactly one of
// Console, External, Ping and Notify is set; the schema rejects
// anything else before decoding.
type StepDef struct {
	Name        string
	Console     string
	External    string
	Ping        string
	Headers     map[string]string
	Notify      string
	Body        string
	Interactive bool
	Timeout     *float64
}

// Float64 returns a pointer to f. Step timeouts are *float64 so that
// an explicit zero can disable the timeout.
func Float64(f float64) *float64 {
	return &f
}

type bookFileSpec struct {
	ConsoleCommand string                  `yaml:"console_command,omitempty"`
	Books          map[string]*bookDefSpec `yaml:"books,omitempty"`
}

type bookDefSpec struct {
	Description string                        `yaml:"description,omitempty"`
	Inputs      []*InputDef                   `yaml:"inputs,omitempty"`
	Steps       []map[interface{}]interface{} `yaml:"steps,omitempty"`
}

func (f *BookFile) UnmarshalYAML(unmarshal func(interface{}) error) error {
	spec := bookFileSpec{
		Books: map[string]*bookDefSpec{},
	}

	if err := unmarshal(&spec); err != nil {
		return errors.Annotate(err, "failed to unmarshal book file")
	}

	if len(spec.Books) == 0 {
		return fmt.Errorf("no books defined: the `books` key is missing or empty")
	}

	books := []*BookDef{}
	for name, def := range spec.Books {
		steps, err := readStepsFromStepDefs(def.Steps)
		if err != nil {
			return errors.Annotatef(err, "error while reading book `%s`", name)
		}
		books = append(books, &BookDef{
			Name:        name,
			Description: def.Description,
			Inputs:      def.Inputs,
			Steps:       steps,
		})
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].Name < books[j].Name
	})

	f.ConsoleCommand = spec.ConsoleCommand
	f.Books = books

	return nil
}

func (f *BookFile) FindBook(name string) (*BookDef, error) {
	for _, b := range f.Books {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, errors.Errorf("book `%s` is not defined", name)
}

// Compile turns a parsed book definition into a runnable Book whose
// routine renders each step against values and plays it on the engine
// it is given.
func (f *BookFile) Compile(def *BookDef, values map[string]interface{}) *Book {
	tmpl := NewTemplate(f.Name, def.Name, values)

	return &Book{
		Name:        def.Name,
		Description: def.Description,
		Routine: func(e *Executor) error {
			for _, s := range def.Steps {
				if err := s.run(e, tmpl); err != nil {
					return err
				}
				if e.Err() != nil {
					break
				}
			}
			return nil
		},
	}
}

func readStepsFromStepDefs(stepDefs []map[interface{}]interface{}) ([]*StepDef, error) {
	result := []*StepDef{}

	for i, stepDef := range stepDefs {
		defaultName := fmt.Sprintf("step-%d", i+1)

		if stepDef["name"] == "" || stepDef["name"] == nil {
			stepDef["name"] = defaultName
		}

		converted, err := maputil.RecursivelyStringifyKeys(stepDef)
		if err != nil {
			return nil, errors.Annotatef(err, "error reading step[%d]", i)
		}

		if err := validateStepDef(converted); err != nil {
			return nil, errors.Annotatef(err, "step `%s` is invalid", converted["name"])
		}

		s := &StepDef{}
		if err := mapstructure.Decode(converted, s); err != nil {
			return nil, errors.Annotatef(err, "error decoding step `%s`", converted["name"])
		}

		result = append(result, s)
	}

	return result, nil
}
