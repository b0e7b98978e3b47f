package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
)

const stateSchemaURL = "https://scorecard.local/schemas/state.schema.json"

// stateSchema is compiled once from the catalog keys.
var stateSchema = compileStateSchema()

func stateSchemaDocument() map[string]interface{} {
	keys := catalog.Keys()
	number := map[string]interface{}{"type": "number"}
	str := map[string]interface{}{"type": "string"}

	return map[string]interface{}{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"type":     "object",
		"required": []string{contracts.KeyGridData, contracts.KeyLabels, contracts.KeyMetricUnits},
		"properties": map[string]interface{}{
			contracts.KeyGridData: map[string]interface{}{
				"type":                 "object",
				"propertyNames":        map[string]interface{}{"minLength": 1},
				"additionalProperties": map[string]interface{}{"$ref": "#/$defs/page"},
			},
			contracts.KeyLabels: map[string]interface{}{
				"type":       "object",
				"required":   []string{"start", "end"},
				"properties": map[string]interface{}{"start": str, "end": str},
			},
			contracts.KeyMetricUnits: map[string]interface{}{
				"type":                 "object",
				"required":             keys,
				"propertyNames":        map[string]interface{}{"enum": keys},
				"additionalProperties": str,
			},
		},
		"$defs": map[string]interface{}{
			"page": map[string]interface{}{
				"type":                 "object",
				"required":             keys,
				"propertyNames":        map[string]interface{}{"enum": keys},
				"additionalProperties": map[string]interface{}{"$ref": "#/$defs/sample"},
			},
			// June/July as the browser client writes them, or start/end
			"sample": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"start": number, "end": number, "June": number, "July": number,
				},
				"allOf": []interface{}{
					map[string]interface{}{"anyOf": []interface{}{
						map[string]interface{}{"required": []string{"start"}},
						map[string]interface{}{"required": []string{"June"}},
					}},
					map[string]interface{}{"anyOf": []interface{}{
						map[string]interface{}{"required": []string{"end"}},
						map[string]interface{}{"required": []string{"July"}},
					}},
				},
			},
		},
	}
}

func compileStateSchema() *jsonschema.Schema {
	doc, err := json.Marshal(stateSchemaDocument())
	if err != nil {
		panic(err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(stateSchemaURL, bytes.NewReader(doc)); err != nil {
		panic(fmt.Sprintf("load state schema: %v", err))
	}
	return c.MustCompile(stateSchemaURL)
}

// ValidateBlob checks a save body before it is decoded. It returns
// contracts.ErrMissingFields when a top-level part is absent or null and
// contracts.ErrMalformed for anything else the schema rejects.
func ValidateBlob(body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrMalformed, err)
	}

	obj, ok := doc.(map[string]interface{})
	if !ok {
		return fmt.Errorf("%w: body must be an object", contracts.ErrMalformed)
	}

	var missing []string
	for _, key := range []string{contracts.KeyGridData, contracts.KeyLabels, contracts.KeyMetricUnits} {
		if obj[key] == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", contracts.ErrMissingFields, strings.Join(missing, ", "))
	}

	if err := stateSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", contracts.ErrMalformed, err)
	}
	return nil
}
