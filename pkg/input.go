package runbook

import (
	"fmt"
	"strconv"
)

// InputDef declares one named value a book needs before it can run.
// Values are resolved per run by the InputResolver and handed to the
// book's templates.
type InputDef struct {
	Name        string      `yaml:"name,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Type        string      `yaml:"type,omitempty"`
	Default     interface{} `yaml:"default,omitempty"`
}

// TypeName returns the declared type, defaulting to string.
func (i *InputDef) TypeName() string {
	if i.Type == "" {
		return "string"
	}
	return i.Type
}

// Required reports whether the input has no default and therefore must
// be provided by the caller.
func (i *InputDef) Required() bool {
	return i.Default == nil
}

func (i *InputDef) JSONSchema() map[string]interface{} {
	schema := map[string]interface{}{
		"type": i.TypeName(),
	}
	if i.Description != "" {
		schema["description"] = i.Description
	}
	return schema
}

func (i *InputDef) DefaultAsString() string {
	return fmt.Sprintf("%v", i.Default)
}

func (i *InputDef) DefaultAsInt() (int, error) {
	switch v := i.Default.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("default %v can't be casted to integer", i.Default)
	}
}

func (i *InputDef) DefaultAsBool() (bool, error) {
	switch v := i.Default.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("default %v can't be parsed as boolean", i.Default)
	}
}

// defaultValue types the declared default according to TypeName.
func (i *InputDef) defaultValue() (interface{}, error) {
	switch i.TypeName() {
	case "string":
		return i.DefaultAsString(), nil
	case "integer":
		return i.DefaultAsInt()
	case "boolean":
		return i.DefaultAsBool()
	default:
		return nil, fmt.Errorf("unsupported input type `%s` found. the type should be one of: string, integer, boolean", i.TypeName())
	}
}

// convert types a value that arrived as text, e.g. from --set or an
// environment variable.
func (i *InputDef) convert(s string) (interface{}, error) {
	switch i.TypeName() {
	case "string":
		return s, nil
	case "integer":
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%v can't be casted to integer", s)
		}
		return v, nil
	case "boolean":
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, fmt.Errorf("%v can't be parsed as boolean", s)
		}
	default:
		return nil, fmt.Errorf("unsupported input type `%s` found. the type should be one of: string, integer, boolean", i.TypeName())
	}
}

// convertAny types a value that arrived from the config already carrying
// a YAML type.
func (i *InputDef) convertAny(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case string:
		return i.convert(v)
	case int:
		if i.TypeName() == "integer" {
			return v, nil
		}
	case int64:
		if i.TypeName() == "integer" {
			return int(v), nil
		}
	case float64:
		if i.TypeName() == "integer" {
			return int(v), nil
		}
	case bool:
		if i.TypeName() == "boolean" {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unexpected type %T for value %v: the input is declared as %s", raw, raw, i.TypeName())
}
