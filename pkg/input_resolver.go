package runbook

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"

	"github.com/runbook-sh/runbook/pkg/util/stringutil"
)

// InputResolver collects the values a book's inputs need for one run.
// Each input is looked up through a fixed cascade: --set overrides
// first, then the config keyed by book, then the bare input name, then
// the book-scoped environment variable, then the declared default.
type InputResolver struct {
	v         *viper.Viper
	overrides map[string]string
	getenv    func(string) string
}

func NewInputResolver(v *viper.Viper, overrides map[string]string, getenv func(string) string) *InputResolver {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &InputResolver{
		v:         v,
		overrides: overrides,
		getenv:    getenv,
	}
}

func (r *InputResolver) Resolve(book string, inputs []*InputDef) (map[string]interface{}, error) {
	values := map[string]interface{}{}

	for _, input := range inputs {
		ctx := log.WithFields(log.Fields{"book": book, "input": input.Name})

		envName := stringutil.ToEnvironmentName(fmt.Sprintf("%s.%s", book, input.Name))

		var value interface{}

		if s, ok := r.override(input.Name); ok {
			v, err := input.convert(s)
			if err != nil {
				return nil, errors.Annotatef(err, "invalid value for input `%s`", input.Name)
			}
			ctx.Debugf("input resolved from override")
			value = v
		}

		if value == nil {
			if raw := r.configValue(fmt.Sprintf("%s.%s", book, input.Name)); raw != nil {
				v, err := input.convertAny(raw)
				if err != nil {
					return nil, errors.Annotatef(err, "invalid value for input `%s`", input.Name)
				}
				ctx.Debugf("input resolved from config key %s.%s", book, input.Name)
				value = v
			}
		}

		if value == nil {
			if raw := r.configValue(input.Name); raw != nil {
				v, err := input.convertAny(raw)
				if err != nil {
					return nil, errors.Annotatef(err, "invalid value for input `%s`", input.Name)
				}
				ctx.Debugf("input resolved from config key %s", input.Name)
				value = v
			}
		}

		if value == nil {
			if s := r.getenv(envName); s != "" {
				v, err := input.convert(s)
				if err != nil {
					return nil, errors.Annotatef(err, "invalid value for input `%s`", input.Name)
				}
				ctx.Debugf("input resolved from environment variable %s", envName)
				value = v
			}
		}

		if value == nil && input.Default != nil {
			v, err := input.defaultValue()
			if err != nil {
				return nil, errors.Annotatef(err, "invalid default for input `%s`", input.Name)
			}
			ctx.Debugf("input resolved from default")
			value = v
		}

		if value == nil {
			return nil, errors.Errorf("missing value for input `%s`. Please provide one with --set %s=<value>, the config, or the environment variable %s", input.Name, stringutil.ToArgumentName(input.Name), envName)
		}

		values[strings.Replace(input.Name, "-", "_", -1)] = value
	}

	s, err := jsonschemaFromInputs(inputs)
	if err != nil {
		return nil, errors.Annotatef(err, "failed while generating jsonschema from: %v", inputs)
	}
	doc := gojsonschema.NewGoLoader(values)
	result, err := s.Validate(doc)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if result.Valid() {
		log.Debugf("all the inputs are valid")
	} else {
		log.Errorf("one or more inputs are not valid in %v:", values)
		msgs := []string{}
		for _, err := range result.Errors() {
			log.Errorf("- %s", err)
			msgs = append(msgs, err.String())
		}
		return nil, errors.Errorf("one or more inputs are not valid: %s", strings.Join(msgs, "; "))
	}

	return values, nil
}

func (r *InputResolver) override(name string) (string, bool) {
	if v, ok := r.overrides[name]; ok {
		return v, true
	}
	v, ok := r.overrides[stringutil.ToArgumentName(name)]
	return v, ok
}

// configValue looks a dotted key up in the config, scoping nested keys
// through viper.Sub so that a book section shadows top-level keys.
// Non-scalar values for a bare key are treated as not provided.
func (r *InputResolver) configValue(k string) interface{} {
	lastIndex := strings.LastIndex(k, ".")

	if lastIndex != -1 {
		k1 := k[:lastIndex]
		k2 := k[lastIndex+1:]

		if r.v.Get(k1) != nil {
			values := r.v.Sub(k1)
			if values != nil && values.Get(k2) != nil {
				return values.Get(k2)
			}
		}
		return nil
	}

	raw := r.v.Get(k)
	switch raw.(type) {
	case nil:
		return nil
	case string, int, int64, bool:
		return raw
	default:
		log.WithFields(log.Fields{"key": k}).Debugf("ignoring non-scalar config value of type %T", raw)
		return nil
	}
}
