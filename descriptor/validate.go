package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"
)

const schemaFile = "resources/schema-2020-12.json"

// JSONSchema contains the embedded JSON schema for validating resource descriptors.
//
//go:embed resources/schema-2020-12.json
var JSONSchema []byte

// GetJSONSchema compiles the JSON schema once and caches it for reuse.
var GetJSONSchema = sync.OnceValues[*jsonschema.Schema, error](func() (*jsonschema.Schema, error) {
	return compile(JSONSchema)
})

func compile(data []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	if err := c.AddResource(schemaFile, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	sch, err := c.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}

// Validate checks if the given descriptor conforms to the JSONSchema.
func Validate(d *Descriptor) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor: %w", err)
	}
	return ValidateRawJSON(raw)
}

// ValidateRawJSON validates raw JSON data against the descriptor schema.
func ValidateRawJSON(raw []byte) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to unmarshal descriptor: %w", err)
	}

	schema, err := GetJSONSchema()
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	return schema.Validate(instance)
}

// Decode decodes a descriptor from JSON or YAML and validates it against the JSONSchema.
func Decode(raw []byte) (*Descriptor, error) {
	data, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert descriptor to JSON: %w", err)
	}
	if err := ValidateRawJSON(data); err != nil {
		return nil, fmt.Errorf("invalid descriptor: %w", err)
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal descriptor: %w", err)
	}
	return &d, nil
}
