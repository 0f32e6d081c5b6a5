package dsl

import (
	"context"
)

// ObjectOf returns a typed object builder that finishes with Bind()/MustBind().
// The type parameter lives on the builder because methods cannot declare their own.
func ObjectOf[T any]() *objectBuilderT[T] { return &objectBuilderT[T]{inner: Object()} }

type objectBuilderT[T any] struct {
	inner      *objectBuilder
	typedRules []typedRule[T]
}

// fieldStepT is the typed variant of fieldStep.
type fieldStepT[T any] struct {
	tb   *objectBuilderT[T]
	step *fieldStep
}

// Field registers a field and returns a typed field step for chaining.
func (tb *objectBuilderT[T]) Field(name string, ad AnyAdapter) *fieldStepT[T] {
	return &fieldStepT[T]{tb: tb, step: tb.inner.Field(name, ad)}
}
func (tb *objectBuilderT[T]) Named(name string) *objectBuilderT[T] { tb.inner.Named(name); return tb }
func (tb *objectBuilderT[T]) Title(t string) *objectBuilderT[T]    { tb.inner.Title(t); return tb }
func (tb *objectBuilderT[T]) Description(d string) *objectBuilderT[T] {
	tb.inner.Description(d)
	return tb
}
func (tb *objectBuilderT[T]) Require(names ...string) *objectBuilderT[T] {
	tb.inner.Require(names...)
	return tb
}
func (tb *objectBuilderT[T]) UnknownStrict() *objectBuilderT[T] { tb.inner.UnknownStrict(); return tb }
func (tb *objectBuilderT[T]) UnknownStrip() *objectBuilderT[T]  { tb.inner.UnknownStrip(); return tb }
func (tb *objectBuilderT[T]) UnknownPassthrough(target string) *objectBuilderT[T] {
	tb.inner.UnknownPassthrough(target)
	return tb
}
func (tb *objectBuilderT[T]) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilderT[T] {
	tb.inner.Refine(name, fn)
	return tb
}

// RefineT registers a rule over the bound value. It runs after the struct is
// populated; returned Issues keep their locations, other errors become
// value_error.custom at the object root.
func (tb *objectBuilderT[T]) RefineT(name string, fn func(context.Context, T) error) *objectBuilderT[T] {
	if fn != nil {
		tb.typedRules = append(tb.typedRules, typedRule[T]{name: name, fn: fn})
	}
	return tb
}

// Bind builds and binds to T.
func (tb *objectBuilderT[T]) Bind() (*TypedObject[T], error) {
	os, err := tb.inner.build()
	if err != nil {
		return nil, err
	}
	return newTypedObject[T](os, tb.typedRules)
}

// MustBind builds and binds to T, panicking on error.
func (tb *objectBuilderT[T]) MustBind() *TypedObject[T] {
	s, err := tb.Bind()
	if err != nil {
		panic(err)
	}
	return s
}

// ----- fieldStepT methods -----

// Required marks the current field as required and returns the typed builder.
func (f *fieldStepT[T]) Required() *objectBuilderT[T] { f.step.Required(); return f.tb }

// Optional marks the current field as optional and returns the typed builder.
func (f *fieldStepT[T]) Optional() *objectBuilderT[T] { f.step.Optional(); return f.tb }

// Default sets a default for the current field and exports it to JSON Schema.
func (f *fieldStepT[T]) Default(v any) *objectBuilderT[T] { f.step.Default(v); return f.tb }

// Title overrides the field title derived from its name.
func (f *fieldStepT[T]) Title(t string) *fieldStepT[T] { f.step.Title(t); return f }

// Description sets the exported field description.
func (f *fieldStepT[T]) Description(d string) *fieldStepT[T] { f.step.Description(d); return f }

func (f *fieldStepT[T]) Field(name string, ad AnyAdapter) *fieldStepT[T] { return f.tb.Field(name, ad) }
func (f *fieldStepT[T]) Named(name string) *objectBuilderT[T]            { return f.tb.Named(name) }
func (f *fieldStepT[T]) UnknownStrict() *objectBuilderT[T]               { return f.tb.UnknownStrict() }
func (f *fieldStepT[T]) UnknownStrip() *objectBuilderT[T]                { return f.tb.UnknownStrip() }
func (f *fieldStepT[T]) Bind() (*TypedObject[T], error)                  { return f.tb.Bind() }
func (f *fieldStepT[T]) MustBind() *TypedObject[T]                       { return f.tb.MustBind() }

type typedRule[T any] struct {
	name string
	fn   func(context.Context, T) error
}
