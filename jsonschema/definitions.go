package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// ComponentsRefPrefix is the $ref prefix used by OpenAPI documents.
const ComponentsRefPrefix = "#/components/schemas/"

// Definitions collects named schemas that other schemas point at with $ref.
type Definitions struct {
	RefPrefix string
	schemas   *SchemaMap
}

// NewDefinitions returns a registry whose references use prefix. An empty
// prefix selects ComponentsRefPrefix.
func NewDefinitions(prefix string) *Definitions {
	if prefix == "" {
		prefix = ComponentsRefPrefix
	}
	return &Definitions{RefPrefix: prefix, schemas: NewSchemaMap()}
}

// Ref returns the reference string for name.
func (d *Definitions) Ref(name string) string { return d.RefPrefix + name }

// Has reports whether name is registered.
func (d *Definitions) Has(name string) bool { return d.schemas.Has(name) }

// Get returns the schema registered under name, or nil.
func (d *Definitions) Get(name string) *Schema { return d.schemas.Get(name) }

// Names lists registered names in registration order.
func (d *Definitions) Names() []string { return d.schemas.Keys() }

// Add registers s under name. Registering the same name twice is allowed only
// when both schemas render identically.
func (d *Definitions) Add(name string, s *Schema) error {
	if prev := d.schemas.Get(name); prev != nil {
		same, err := sameSchema(prev, s)
		if err != nil {
			return err
		}
		if !same {
			return fmt.Errorf("jsonschema: conflicting definitions for %q", name)
		}
		return nil
	}
	d.schemas.Set(name, s)
	return nil
}

// Map exposes the registry as an ordered map, for embedding in documents.
func (d *Definitions) Map() *SchemaMap { return d.schemas }

func sameSchema(a, b *Schema) (bool, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}
