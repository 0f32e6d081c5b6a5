// Package jsonschema holds the JSON Schema subset exported by schemas and
// embedded in OpenAPI documents.
package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	Ref         string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Core
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`

	// Object
	Required             []string   `json:"required,omitempty" yaml:"required,omitempty"`
	Properties           *SchemaMap `json:"properties,omitempty" yaml:"properties,omitempty"`
	AdditionalProperties any        `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
}

// SetProperty adds or replaces a property, keeping first-insertion order.
func (s *Schema) SetProperty(name string, ps *Schema) {
	if s.Properties == nil {
		s.Properties = NewSchemaMap()
	}
	s.Properties.Set(name, ps)
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	if s.Properties == nil {
		return nil
	}
	return s.Properties.Get(name)
}

// Exporter is implemented by schemas that can publish named sub-schemas into
// a Definitions registry. With a nil registry the result is self-contained.
type Exporter interface {
	ExportJSONSchema(defs *Definitions) (*Schema, error)
}

// Export renders v using Exporter when available and falls back to a
// JSONSchema() method otherwise.
func Export(v any, defs *Definitions) (*Schema, error) {
	switch s := v.(type) {
	case Exporter:
		return s.ExportJSONSchema(defs)
	case interface{ JSONSchema() (*Schema, error) }:
		return s.JSONSchema()
	default:
		return &Schema{}, nil
	}
}
