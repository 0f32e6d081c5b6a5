package openapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	js "github.com/reoring/skemapi/jsonschema"
)

const mediaJSON = "application/json"

// Route is what the builder needs to know about one operation. Params and
// Body are schemas understood by jsonschema.Export; nil means none.
type Route struct {
	Method      string
	Path        string
	Name        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	// OperationID overrides the id derived from Name, Path and Method.
	OperationID string
	// StatusCode of the successful response. Zero means 200.
	StatusCode int
	// Params is an object schema whose properties are the path parameters.
	Params any
	Body   any
	// Response documents the successful response body. Nil documents {}.
	Response any
}

// Builder produces documents for a set of routes.
type Builder struct {
	Title       string
	Version     string
	Description string
}

// Build renders routes, in order, into a document. Named schemas reachable
// from parameters and bodies become components. A route taking parameters
// or a body documents a 422 response referencing HTTPValidationError.
func (b Builder) Build(routes []Route) (*Document, error) {
	doc := &Document{
		OpenAPI: Version,
		Info:    Info{Title: b.Title, Version: b.Version, Description: b.Description},
		Paths:   NewPaths(),
	}
	defs := js.NewDefinitions(js.ComponentsRefPrefix)
	validates := false
	for _, r := range routes {
		op, v, err := buildOperation(r, defs)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s %s: %w", r.Method, r.Path, err)
		}
		validates = validates || v
		if err := doc.Paths.Item(r.Path).SetOperation(r.Method, op); err != nil {
			return nil, err
		}
	}
	if validates {
		if _, err := js.Export(HTTPValidationErrorSchema, defs); err != nil {
			return nil, err
		}
	}
	if len(defs.Names()) > 0 {
		doc.Components = &Components{Schemas: sortedSchemas(defs)}
	}
	return doc, nil
}

func buildOperation(r Route, defs *js.Definitions) (*Operation, bool, error) {
	opID := r.OperationID
	if opID == "" {
		opID = OperationID(r.Name, r.Path, r.Method)
	}
	op := &Operation{
		Tags:        r.Tags,
		Summary:     r.Summary,
		Description: r.Description,
		OperationID: opID,
		Deprecated:  r.Deprecated,
		Responses:   map[string]*Response{},
	}
	if op.Summary == "" {
		op.Summary = Summary(r.Name)
	}

	params, err := pathParameters(r.Params, defs)
	if err != nil {
		return nil, false, err
	}
	op.Parameters = params

	if r.Body != nil {
		rb, err := requestBody(r.Body, opID, defs)
		if err != nil {
			return nil, false, err
		}
		op.RequestBody = rb
	}

	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	okSchema := &js.Schema{}
	if r.Response != nil {
		if okSchema, err = js.Export(r.Response, defs); err != nil {
			return nil, false, err
		}
	}
	op.Responses[strconv.Itoa(status)] = &Response{
		Description: "Successful Response",
		Content:     map[string]MediaType{mediaJSON: {Schema: okSchema}},
	}

	validates := len(op.Parameters) > 0 || op.RequestBody != nil
	if validates {
		op.Responses[strconv.Itoa(http.StatusUnprocessableEntity)] = &Response{
			Description: "Validation Error",
			Content:     map[string]MediaType{mediaJSON: {Schema: &js.Schema{Ref: defs.Ref(HTTPValidationErrorSchema.SchemaName())}}},
		}
	}
	return op, validates, nil
}

func pathParameters(params any, defs *js.Definitions) ([]Parameter, error) {
	if params == nil {
		return nil, nil
	}
	s, err := js.Export(params, defs)
	if err != nil {
		return nil, err
	}
	if s.Ref != "" || s.Type != "object" {
		return nil, fmt.Errorf("path parameters must be an inline object schema")
	}
	out := make([]Parameter, 0, s.Properties.Len())
	for _, name := range s.Properties.Keys() {
		out = append(out, Parameter{Name: name, In: "path", Required: true, Schema: s.Property(name)})
	}
	return out, nil
}

// requestBody documents body. An unnamed object is an envelope of body
// parameters and is published as Body_<operationId>.
func requestBody(body any, opID string, defs *js.Definitions) (*RequestBody, error) {
	s, err := js.Export(body, defs)
	if err != nil {
		return nil, err
	}
	required := true
	if s.Ref == "" && s.Type == "object" {
		name := BodyComponentName(opID)
		s.Title = name
		if err := defs.Add(name, s); err != nil {
			return nil, err
		}
		required = len(s.Required) > 0
		s = &js.Schema{Ref: defs.Ref(name)}
	}
	return &RequestBody{
		Content:  map[string]MediaType{mediaJSON: {Schema: s}},
		Required: required,
	}, nil
}

func sortedSchemas(defs *js.Definitions) *js.SchemaMap {
	names := defs.Names()
	sort.Strings(names)
	out := js.NewSchemaMap()
	for _, n := range names {
		out.Set(n, defs.Get(n))
	}
	return out
}
