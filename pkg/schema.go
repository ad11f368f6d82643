package runbook

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// stepJSONSchema describes one step definition as written in a book
// file. Exactly one of the action keys must be present.
func stepJSONSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":     map[string]interface{}{"type": "string"},
			"console":  map[string]interface{}{"type": "string"},
			"external": map[string]interface{}{"type": "string"},
			"ping":     map[string]interface{}{"type": "string"},
			"notify":   map[string]interface{}{"type": "string"},
			"body":     map[string]interface{}{"type": "string"},
			"headers": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": map[string]interface{}{"type": "string"},
			},
			"interactive": map[string]interface{}{"type": "boolean"},
			"timeout":     map[string]interface{}{"type": "number"},
		},
		"additionalProperties": false,
		"oneOf": []interface{}{
			map[string]interface{}{"required": []interface{}{"console"}},
			map[string]interface{}{"required": []interface{}{"external"}},
			map[string]interface{}{"required": []interface{}{"ping"}},
			map[string]interface{}{"required": []interface{}{"notify"}},
		},
	}
}

func validateStepDef(stepDef map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(stepJSONSchema())
	s, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(stepDef))
	if err != nil {
		return err
	}

	if !result.Valid() {
		msgs := []string{}
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	return nil
}

func jsonschemaFromInputs(inputs []*InputDef) (*gojsonschema.Schema, error) {
	required := []string{}
	props := map[string]map[string]interface{}{}
	for _, input := range inputs {
		name := strings.Replace(input.Name, "-", "_", -1)
		props[name] = input.JSONSchema()

		if input.Required() {
			required = append(required, name)
		}
	}
	goschema := map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	schemaLoader := gojsonschema.NewGoLoader(goschema)
	return gojsonschema.NewSchema(schemaLoader)
}
