// Package skemapi provides schema-first request validation and API schema
// generation:
//
// - Type-safe validation and transformation based on Schema (Parse/Validate)
// - A stable error model via Issues (location segments, type code, message)
// - Presence metadata (seen / null / default applied) through WithMeta APIs
// - Source-driven decoding with duplicate-key/depth/size enforcement
//
// Layout:
// - Public validation APIs live in the root package; token decoding lives under internal/.
// - Schema builders are under dsl/, JSON Schema types under jsonschema/.
// - The HTTP framework is httpapi/ and the OpenAPI generator is openapi/.
//
// Typical usage:
//
//	s := dsl.ObjectOf[Item]().
//		Named("Item").
//		Field("name", dsl.StringOf[string]()).Required().
//		Field("price", dsl.FloatOf[float64]()).Required().
//		MustBind()
//	item, err := skemapi.ParseFrom(ctx, s, skemapi.JSONBytes(data))
//	if iss, ok := skemapi.AsIssues(err); ok {
//		// iss[0].Loc, iss[0].Code, iss[0].Message
//	}
package skemapi
