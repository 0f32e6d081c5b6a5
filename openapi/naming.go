package openapi

import (
	"regexp"
	"strings"

	js "github.com/reoring/skemapi/jsonschema"
)

var nonWord = regexp.MustCompile(`\W`)

// OperationID derives the default operation id from the route name, its
// path template and method: non-word characters of name+path become "_" and
// the lower-cased method is appended.
//
//	OperationID("update_item", "/items/{item_id}", "PUT") == "update_item_items__item_id__put"
func OperationID(name, path, method string) string {
	return nonWord.ReplaceAllString(name+path, "_") + "_" + strings.ToLower(method)
}

// Summary derives the default operation summary from the route name.
func Summary(name string) string { return js.Titleize(name) }

// BodyComponentName names the component generated for an embedded body.
func BodyComponentName(operationID string) string { return "Body_" + operationID }
