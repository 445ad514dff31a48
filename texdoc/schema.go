package texdoc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed document.schema.json
var builtinSchema []byte

// Validator checks a finished document against the output schema.
type Validator interface {
	Validate(doc *Document) error
}

// NopValidator accepts every document.
type NopValidator struct{}

func (NopValidator) Validate(*Document) error { return nil }

// SchemaValidator validates the JSON form of a document with a JSON Schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles a JSON Schema given as bytes.
func NewSchemaValidator(name string, schema []byte) (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return &SchemaValidator{schema: s}, nil
}

// NewSchemaValidatorFromFile compiles the JSON Schema stored in fileName.
func NewSchemaValidatorFromFile(fileName string) (*SchemaValidator, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return NewSchemaValidator(fileName, data)
}

// BuiltinSchemaValidator validates against the schema shipped with the package.
func BuiltinSchemaValidator() (*SchemaValidator, error) {
	return NewSchemaValidator("document.schema.json", builtinSchema)
}

func (v *SchemaValidator) Validate(doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return err
	}
	return v.schema.Validate(tree)
}

func (c *Converter) defaultValidator() (Validator, error) {
	if c.opts.SchemaFile != "" {
		return NewSchemaValidatorFromFile(c.opts.SchemaFile)
	}
	return BuiltinSchemaValidator()
}
