package jsonschema

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// SchemaMap is a name to schema map that remembers insertion order.
// Object properties and component registries render in that order.
type SchemaMap struct {
	keys []string
	m    map[string]*Schema
}

// NewSchemaMap returns an empty SchemaMap.
func NewSchemaMap() *SchemaMap {
	return &SchemaMap{m: map[string]*Schema{}}
}

// Set stores s under name. Replacing an entry keeps its original position.
func (sm *SchemaMap) Set(name string, s *Schema) {
	if sm.m == nil {
		sm.m = map[string]*Schema{}
	}
	if _, ok := sm.m[name]; !ok {
		sm.keys = append(sm.keys, name)
	}
	sm.m[name] = s
}

// Get returns the schema stored under name, or nil.
func (sm *SchemaMap) Get(name string) *Schema {
	if sm == nil {
		return nil
	}
	return sm.m[name]
}

// Has reports whether name is present.
func (sm *SchemaMap) Has(name string) bool {
	if sm == nil {
		return false
	}
	_, ok := sm.m[name]
	return ok
}

// Keys returns the names in insertion order.
func (sm *SchemaMap) Keys() []string {
	if sm == nil {
		return nil
	}
	return append([]string(nil), sm.keys...)
}

// Len returns the number of entries.
func (sm *SchemaMap) Len() int {
	if sm == nil {
		return 0
	}
	return len(sm.keys)
}

// MarshalJSON writes the entries in insertion order.
func (sm *SchemaMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if sm != nil {
		for i, k := range sm.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(sm.m[k])
			if err != nil {
				return nil, fmt.Errorf("jsonschema: property %q: %w", k, err)
			}
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the order its keys appear in.
func (sm *SchemaMap) UnmarshalJSON(data []byte) error {
	dec := stdjson.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(stdjson.Delim); !ok || d != '{' {
		return fmt.Errorf("jsonschema: expected object, got %v", tok)
	}
	*sm = SchemaMap{m: map[string]*Schema{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("jsonschema: property %q: %w", key, err)
		}
		sm.Set(key, &s)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML renders a mapping node in insertion order.
func (sm *SchemaMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if sm == nil {
		return node, nil
	}
	for _, k := range sm.keys {
		var v yaml.Node
		if err := v.Encode(sm.m[k]); err != nil {
			return nil, fmt.Errorf("jsonschema: property %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &v)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node keeping key order.
func (sm *SchemaMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("jsonschema: line %d: expected mapping", node.Line)
	}
	*sm = SchemaMap{m: map[string]*Schema{}}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var s Schema
		if err := node.Content[i+1].Decode(&s); err != nil {
			return err
		}
		sm.Set(node.Content[i].Value, &s)
	}
	return nil
}
