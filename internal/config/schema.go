// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package config

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the generated config schema.
const SchemaID = "https://calcuzon.dev/schemas/accounts.config.schema.json"

const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

var (
	compiledOnce   sync.Once
	compiledSchema *jschema.Schema
	compileErr     error
)

// GenerateSchema returns the JSON Schema describing the config file.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeFor[time.Duration]() {
				return &jsonschema.Schema{Type: "string", Pattern: durationPattern}
			}
			return nil
		},
	}
	schema := r.Reflect(&Config{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Accounts service configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("CONFIG_SCHEMA_FAILED").Wrap(err)
	}
	return data, nil
}

// ValidateYAML checks a YAML config document against the schema.
func ValidateYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code("CONFIG_PARSE_FAILED").Wrapf(err, "invalid YAML")
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so numbers reach the validator as json.Number.
	raw, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	sch, err := compiled()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return oops.Code("CONFIG_SCHEMA_VIOLATION").Wrapf(err, "schema validation failed")
	}
	return nil
}

func compiled() (*jschema.Schema, error) {
	compiledOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			compileErr = err
			return
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = oops.Code("CONFIG_SCHEMA_FAILED").Wrap(err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource("schema.json", doc); err != nil {
			compileErr = oops.Code("CONFIG_SCHEMA_FAILED").Wrap(err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema.json")
		if compileErr != nil {
			compileErr = oops.Code("CONFIG_SCHEMA_FAILED").Wrap(compileErr)
		}
	})
	return compiledSchema, compileErr
}
