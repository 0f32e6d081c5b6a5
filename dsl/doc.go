// Package dsl provides a type-safe schema DSL for skemapi.
//
// Overview
//   - Builder API: declare JSON object semantics (unknown/required/default/refine)
//     with Object()/Field()/Required()/UnknownStrict()/MustBuild().
//   - Typed build: project wire -> T with ObjectOf[T]().Field(...).MustBind().
//   - Primitives: String()/Bool()/Float()/Int() and the *Of[T] adapters.
//   - Composition: Array(elem)/ArrayOf, AnyOf, Nullable, Min/Max.
//   - Export: every schema renders JSON Schema; Named objects publish
//     themselves into a jsonschema.Definitions registry and are referenced
//     with $ref.
//
// Field order matters. Objects validate and export fields in the order they
// were declared, so missing-field errors and "required" lists follow it.
//
// Quickstart
//
//	type User struct {
//		Username string  `json:"username"`
//		FullName *string `json:"full_name"`
//	}
//
//	var userSchema = dsl.ObjectOf[User]().
//		Named("User").
//		Field("username", dsl.StringOf[string]()).Required().
//		Field("full_name", dsl.StringOf[string]()).Optional().
//		UnknownStrip().
//		MustBind()
//
//	u, err := skemapi.ParseFrom(ctx, userSchema, skemapi.JSONBytes(body))
//
// Exported as a component, the schema above renders
//
//	{"title":"User","type":"object","required":["username"],
//	 "properties":{"username":{"title":"Username","type":"string"},
//	               "full_name":{"title":"Full Name","type":"string"}}}
package dsl
