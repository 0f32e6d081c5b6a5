// Package openapi assembles OpenAPI 3.1 documents from route descriptions and
// the schemas they validate with.
package openapi

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/skemapi/jsonschema"
)

// Version is the OpenAPI version written to generated documents.
const Version = "3.1.0"

// Document is the root of an OpenAPI document.
type Document struct {
	OpenAPI    string      `json:"openapi" yaml:"openapi"`
	Info       Info        `json:"info" yaml:"info"`
	Paths      *Paths      `json:"paths" yaml:"paths"`
	Components *Components `json:"components,omitempty" yaml:"components,omitempty"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

type Components struct {
	Schemas *js.SchemaMap `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// PathItem holds the operations registered on one path template.
type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// SetOperation stores op under the given HTTP method.
func (p *PathItem) SetOperation(method string, op *Operation) error {
	switch strings.ToUpper(method) {
	case "GET":
		p.Get = op
	case "PUT":
		p.Put = op
	case "POST":
		p.Post = op
	case "DELETE":
		p.Delete = op
	case "OPTIONS":
		p.Options = op
	case "HEAD":
		p.Head = op
	case "PATCH":
		p.Patch = op
	default:
		return fmt.Errorf("openapi: unsupported method %q", method)
	}
	return nil
}

// Operation returns the operation registered for method, or nil.
func (p *PathItem) Operation(method string) *Operation {
	switch strings.ToUpper(method) {
	case "GET":
		return p.Get
	case "PUT":
		return p.Put
	case "POST":
		return p.Post
	case "DELETE":
		return p.Delete
	case "OPTIONS":
		return p.Options
	case "HEAD":
		return p.Head
	case "PATCH":
		return p.Patch
	}
	return nil
}

type Operation struct {
	Tags        []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string               `json:"operationId" yaml:"operationId"`
	Parameters  []Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses" yaml:"responses"`
	Deprecated  bool                 `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

type Parameter struct {
	Name     string     `json:"name" yaml:"name"`
	In       string     `json:"in" yaml:"in"`
	Required bool       `json:"required" yaml:"required"`
	Schema   *js.Schema `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Content  map[string]MediaType `json:"content" yaml:"content"`
	Required bool                 `json:"required,omitempty" yaml:"required,omitempty"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *js.Schema `json:"schema" yaml:"schema"`
}

// JSON renders the document.
func (d *Document) JSON() ([]byte, error) { return json.Marshal(d) }

// YAML renders the document with the same key order as JSON.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Paths maps path templates to their items in registration order.
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

func NewPaths() *Paths { return &Paths{items: map[string]*PathItem{}} }

// Item returns the item for path, creating it when absent.
func (p *Paths) Item(path string) *PathItem {
	if it, ok := p.items[path]; ok {
		return it
	}
	it := &PathItem{}
	p.keys = append(p.keys, path)
	p.items[path] = it
	return it
}

// Get returns the item for path, or nil.
func (p *Paths) Get(path string) *PathItem {
	if p == nil {
		return nil
	}
	return p.items[path]
}

// Keys returns the path templates in registration order.
func (p *Paths) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

func (p *Paths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, k := range p.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(p.items[k])
			if err != nil {
				return nil, fmt.Errorf("openapi: path %q: %w", k, err)
			}
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Paths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p == nil {
		return node, nil
	}
	for _, k := range p.keys {
		var v yaml.Node
		if err := v.Encode(p.items[k]); err != nil {
			return nil, fmt.Errorf("openapi: path %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &v)
	}
	return node, nil
}
