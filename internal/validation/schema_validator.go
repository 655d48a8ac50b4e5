package validation

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator validates JSON documents against JSON schemas supplied
// as raw bytes, typically embedded next to the config they describe.
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaName string, schemaJSON []byte) error
}

type validator struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a schema validator with an internal compile cache.
func NewSchemaValidator() SchemaValidator {
	return &validator{schemas: make(map[string]*jsonschema.Schema)}
}

// ValidateBytes validates data against the named schema. Schemas are
// compiled once per name and reused.
func (v *validator) ValidateBytes(data []byte, schemaName string, schemaJSON []byte) error {
	schema, err := v.compile(schemaName, schemaJSON)
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", schemaName, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return formatValidationError(err)
	}

	return nil
}

func (v *validator) compile(schemaName string, schemaJSON []byte) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[schemaName]; ok {
		return schema, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return nil, err
	}

	v.schemas[schemaName] = schema
	return schema, nil
}

// formatValidationError flattens the nested cause tree into one message.
func formatValidationError(err error) error {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}

	var msgs []string
	collectErrors(validationErr, &msgs)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(msgs, "\n"))
}

func collectErrors(err *jsonschema.ValidationError, msgs *[]string) {
	location := strings.Join(err.InstanceLocation, "/")
	if location == "" {
		location = "(root)"
	} else {
		location = "/" + location
	}

	keywords := ""
	if err.ErrorKind != nil {
		if keywordPath := err.ErrorKind.KeywordPath(); len(keywordPath) > 0 {
			keywords = strings.Join(keywordPath, ".")
		}
	}

	if keywords != "" {
		*msgs = append(*msgs, fmt.Sprintf("  - at %s: %s validation failed", location, keywords))
	} else {
		*msgs = append(*msgs, fmt.Sprintf("  - at %s: validation failed", location))
	}

	for _, cause := range err.Causes {
		collectErrors(cause, msgs)
	}
}
