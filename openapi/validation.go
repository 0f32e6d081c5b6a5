package openapi

import (
	g "github.com/reoring/skemapi/dsl"
	"github.com/reoring/skemapi/middleware"
)

// ValidationErrorSchema describes one entry of a 422 response. It is
// registered as the ValidationError component.
var ValidationErrorSchema = g.ObjectOf[middleware.ValidationError]().
	Named("ValidationError").
	Field("loc", g.ArrayOf[any](g.AnyOfSchema(g.StringOf[string](), g.IntOf[int]()))).Title("Location").Required().
	Field("msg", g.StringOf[string]()).Title("Message").Required().
	Field("type", g.StringOf[string]()).Title("Error Type").Required().
	UnknownStrip().
	MustBind()

// HTTPValidationErrorSchema describes the body of a 422 response.
var HTTPValidationErrorSchema = g.ObjectOf[middleware.HTTPValidationError]().
	Named("HTTPValidationError").
	Field("detail", g.ArrayOf[middleware.ValidationError](ValidationErrorSchema)).Optional().
	UnknownStrip().
	MustBind()
