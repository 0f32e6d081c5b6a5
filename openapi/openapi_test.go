package openapi_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	g "github.com/reoring/skemapi/dsl"
	"github.com/reoring/skemapi/openapi"
)

func TestOperationID(t *testing.T) {
	cases := []struct{ name, path, method, want string }{
		{"update_item", "/items/{item_id}", "PUT", "update_item_items__item_id__put"},
		{"read_root", "/", "GET", "read_root__get"},
		{"create-user", "/users/me", "post", "create_user_users_me_post"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, openapi.OperationID(c.name, c.path, c.method))
	}
	assert.Equal(t, "Update Item", openapi.Summary("update_item"))
}

func noteRoute() openapi.Route {
	note := g.Object().
		Named("Note").
		Field("text", g.StringOf[string]()).Required().
		UnknownStrip().
		MustBuild()
	return openapi.Route{
		Method: "PUT",
		Path:   "/notes/{note_id}",
		Name:   "update_note",
		Params: g.Object().Field("note_id", g.IntOf[int]()).Required().MustBuild(),
		Body: g.Object().
			Field("note", g.SchemaOf(note)).Required().
			Field("pinned", g.BoolOf[bool]()).Optional().
			UnknownStrip().
			MustBuild(),
	}
}

func decode(t *testing.T, doc *openapi.Document) map[string]any {
	t.Helper()
	b, err := doc.JSON()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestBuild_EmbeddedBodyDocument(t *testing.T) {
	doc, err := openapi.Builder{Title: "Notes", Version: "1.0.0"}.Build([]openapi.Route{noteRoute()})
	require.NoError(t, err)

	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"openapi": "3.1.0",
		"info": {"title": "Notes", "version": "1.0.0"},
		"paths": {"/notes/{note_id}": {"put": {
			"summary": "Update Note",
			"operationId": "update_note_notes__note_id__put",
			"parameters": [{"name": "note_id", "in": "path", "required": true, "schema": {"title": "Note Id", "type": "integer"}}],
			"requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Body_update_note_notes__note_id__put"}}}, "required": true},
			"responses": {
				"200": {"description": "Successful Response", "content": {"application/json": {"schema": {}}}},
				"422": {"description": "Validation Error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/HTTPValidationError"}}}}
			}
		}}},
		"components": {"schemas": {
			"Body_update_note_notes__note_id__put": {
				"title": "Body_update_note_notes__note_id__put",
				"type": "object",
				"required": ["note"],
				"properties": {"note": {"$ref": "#/components/schemas/Note"}, "pinned": {"title": "Pinned", "type": "boolean"}}
			},
			"HTTPValidationError": {
				"title": "HTTPValidationError",
				"type": "object",
				"properties": {"detail": {"title": "Detail", "type": "array", "items": {"$ref": "#/components/schemas/ValidationError"}}}
			},
			"Note": {"title": "Note", "type": "object", "required": ["text"], "properties": {"text": {"title": "Text", "type": "string"}}},
			"ValidationError": {
				"title": "ValidationError",
				"type": "object",
				"required": ["loc", "msg", "type"],
				"properties": {
					"loc": {"title": "Location", "type": "array", "items": {"anyOf": [{"type": "string"}, {"type": "integer"}]}},
					"msg": {"title": "Message", "type": "string"},
					"type": {"title": "Error Type", "type": "string"}
				}
			}
		}}
	}`), &want))

	if diff := cmp.Diff(want, decode(t, doc)); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t,
		[]string{"Body_update_note_notes__note_id__put", "HTTPValidationError", "Note", "ValidationError"},
		doc.Components.Schemas.Keys())
	require.NoError(t, openapi.Validate(context.Background(), doc))
}

func TestBuild_NoInputsNoValidationComponents(t *testing.T) {
	doc, err := openapi.Builder{Title: "T", Version: "1"}.Build([]openapi.Route{{Method: "GET", Path: "/", Name: "root"}})
	require.NoError(t, err)
	op := doc.Paths.Get("/").Get
	require.NotNil(t, op)
	assert.Equal(t, "root__get", op.OperationID)
	assert.Contains(t, op.Responses, "200")
	assert.NotContains(t, op.Responses, "422")
	assert.Nil(t, doc.Components)
}

func TestBuild_NamedBodyIsReferenced(t *testing.T) {
	note := g.Object().Named("Note").Field("text", g.StringOf[string]()).Required().MustBuild()
	doc, err := openapi.Builder{Title: "T", Version: "1"}.Build([]openapi.Route{
		{Method: "POST", Path: "/notes", Name: "create_note", Body: note, StatusCode: 201},
	})
	require.NoError(t, err)
	op := doc.Paths.Get("/notes").Post
	assert.Equal(t, "#/components/schemas/Note", op.RequestBody.Content["application/json"].Schema.Ref)
	assert.True(t, op.RequestBody.Required)
	assert.Contains(t, op.Responses, "201")
	assert.False(t, doc.Components.Schemas.Has("Body_create_note_notes_post"))
}

func TestBuild_Errors(t *testing.T) {
	_, err := openapi.Builder{}.Build([]openapi.Route{{Method: "BREW", Path: "/", Name: "coffee"}})
	assert.Error(t, err)
	_, err = openapi.Builder{}.Build([]openapi.Route{{Method: "GET", Path: "/{id}", Name: "x", Params: g.Int()}})
	assert.Error(t, err)
}

func TestYAMLKeepsPathOrder(t *testing.T) {
	doc, err := openapi.Builder{Title: "T", Version: "1"}.Build([]openapi.Route{
		{Method: "GET", Path: "/zeta", Name: "z"},
		{Method: "GET", Path: "/alpha", Name: "a"},
	})
	require.NoError(t, err)
	b, err := doc.YAML()
	require.NoError(t, err)
	out := string(b)
	assert.Less(t, strings.Index(out, "/zeta:"), strings.Index(out, "/alpha:"))
	assert.True(t, strings.HasPrefix(out, "openapi: 3.1.0\n"), out)
}

func TestSwaggerUIHTML(t *testing.T) {
	html, err := openapi.SwaggerUIHTML("FastAPI", "/openapi.json")
	require.NoError(t, err)
	assert.Contains(t, html, "<title>FastAPI - Swagger UI</title>")
	assert.Contains(t, html, "url: '/openapi.json'")
	assert.Contains(t, html, openapi.SwaggerUICDN+"/swagger-ui-bundle.js")
}
