package config

import (
	"errors"

	"github.com/invopop/jsonschema"
	"github.com/spf13/viper"
)

var (
	ErrGeneratedSchemaIsNil = errors.New("generated JSON Schema is nil")
)

// JSONSchema returns the JSON Schema of the configuration file. Nested
// sections are inlined and every property carries the default LoadConfig
// applies when the key is absent.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	if schema == nil {
		return nil, ErrGeneratedSchemaIsNil
	}

	schema.Title = AppName + " configuration"
	schema.Description = "Environment variables prefixed with " + EnvPrefix +
		"_ override file values, with nested keys joined by _."

	v := viper.New()
	setDefaults(v)
	applySchemaDefaults(schema, v.AllSettings())

	return schema.MarshalJSON()
}

func applySchemaDefaults(schema *jsonschema.Schema, defaults map[string]interface{}) {
	if schema.Properties == nil {
		return
	}
	for key, value := range defaults {
		prop, ok := schema.Properties.Get(key)
		if !ok {
			continue
		}
		nested, isSection := value.(map[string]interface{})
		if isSection && prop.Properties != nil && prop.Properties.Len() > 0 {
			applySchemaDefaults(prop, nested)
			continue
		}
		prop.Default = value
	}
}
