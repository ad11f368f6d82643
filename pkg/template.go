package runbook

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"

	"github.com/runbook-sh/runbook/pkg/util/maputil"
)

// Template renders the text fields of a step against the values
// resolved for the current run.
type Template struct {
	file   string
	book   string
	values map[string]interface{}
}

func NewTemplate(file string, book string, values map[string]interface{}) *Template {
	return &Template{
		file:   file,
		book:   book,
		values: values,
	}
}

func (t *Template) createFuncMap() template.FuncMap {
	get := func(key string) (interface{}, error) {
		sep := "."
		components := strings.Split(strings.Replace(key, "-", "_", -1), sep)
		val, err := maputil.GetValueAtPath(t.values, components)

		if err != nil {
			return nil, errors.WithStack(err)
		}

		if val == nil {
			return nil, fmt.Errorf("no value found for \"%s\"", key)
		}

		return val, nil
	}

	escapeDoubleQuotes := func(str string) (interface{}, error) {
		val := strings.Replace(str, "\"", "\\\"", -1)
		return val, nil
	}

	fns := sprig.TxtFuncMap()
	fns["get"] = get
	fns["escapeDoubleQuotes"] = escapeDoubleQuotes

	return fns
}

func (t *Template) Render(expr string, name string) (string, error) {
	tmpl := template.New(fmt.Sprintf("%s: %s.%s", t.file, t.book, name))
	tmpl.Option("missingkey=error")

	tmpl, err := tmpl.Funcs(t.createFuncMap()).Parse(expr)
	if err != nil {
		return "", errors.Wrapf(err, "failed parsing %s of book %s", name, t.book)
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, t.values); err != nil {
		return "", errors.Wrapf(err, "failed rendering %s of book %s", name, t.book)
	}

	return buff.String(), nil
}
