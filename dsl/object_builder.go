package dsl

import (
	"context"

	"github.com/reoring/skemapi"
)

type objectField struct {
	name        string
	ad          AnyAdapter
	required    bool
	title       string
	description string
	hasDefault  bool
	def         any
}

type objectBuilder struct {
	name          string
	title         string
	description   string
	fields        []*objectField
	index         map[string]int
	unknownPolicy skemapi.UnknownPolicy
	unknownTarget string
	refines       []objRefine
}

type fieldStep struct {
	b *objectBuilder
	f *objectField
}

// Object creates a new object builder with safe defaults (UnknownStrict).
// Fields keep the order they are declared in; that order drives both error
// reporting and schema export.
func Object() *objectBuilder {
	return &objectBuilder{
		index:         map[string]int{},
		unknownPolicy: skemapi.UnknownStrict,
	}
}

// Field registers a field with its adapter. Re-declaring a field replaces it
// in place.
func (b *objectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	f := &objectField{name: name, ad: ad}
	if i, ok := b.index[name]; ok {
		b.fields[i] = f
	} else {
		b.index[name] = len(b.fields)
		b.fields = append(b.fields, f)
	}
	return &fieldStep{b: b, f: f}
}

// Named publishes the object as a named component. Exports with a
// Definitions registry emit a $ref to it.
func (b *objectBuilder) Named(name string) *objectBuilder {
	b.name = name
	return b
}

// Title overrides the exported object title (defaults to the name).
func (b *objectBuilder) Title(t string) *objectBuilder {
	b.title = t
	return b
}

// Description sets the exported object description.
func (b *objectBuilder) Description(d string) *objectBuilder {
	b.description = d
	return b
}

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		if i, ok := b.index[n]; ok {
			b.fields[i].required = true
		}
	}
	return b
}

// UnknownStrict rejects unknown keys with value_error.extra.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = skemapi.UnknownStrict
	b.unknownTarget = ""
	return b
}

// UnknownStrip drops unknown keys.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = skemapi.UnknownStrip
	b.unknownTarget = ""
	return b
}

// UnknownPassthrough collects unknown keys into the target field.
func (b *objectBuilder) UnknownPassthrough(target string) *objectBuilder {
	b.unknownPolicy = skemapi.UnknownPassthrough
	b.unknownTarget = target
	return b
}

// Refine adds an object-level refine function. It runs after all fields parsed.
func (b *objectBuilder) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, objRefine{name: name, fn: fn})
	return b
}

// Build validates the builder and returns a Schema.
func (b *objectBuilder) Build() (skemapi.Schema[map[string]any], error) {
	s, err := b.build()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() skemapi.Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *objectBuilder) build() (*objectSchema, error) {
	if b.unknownPolicy == skemapi.UnknownPassthrough {
		if _, ok := b.index[b.unknownTarget]; !ok || b.unknownTarget == "" {
			return nil, skemapi.Issues{{Loc: skemapi.Loc{}, Code: skemapi.CodeInternal, Message: "unknown target missing for passthrough", Hint: b.unknownTarget}}
		}
	}
	fields := make([]objectField, len(b.fields))
	index := make(map[string]int, len(b.fields))
	for i, f := range b.fields {
		fields[i] = *f
		index[f.name] = i
	}
	return &objectSchema{
		name:          b.name,
		title:         b.title,
		description:   b.description,
		fields:        fields,
		index:         index,
		unknownPolicy: b.unknownPolicy,
		unknownTarget: b.unknownTarget,
		refines:       append([]objRefine(nil), b.refines...),
	}, nil
}

// ----- fieldStep methods -----

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.f.required = true
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	f.f.required = false
	return f.b
}

// Default sets a default for the current field and exports it to JSON Schema.
// The default is parsed through the field schema whenever it is applied.
func (f *fieldStep) Default(v any) *objectBuilder {
	f.f.hasDefault = true
	f.f.def = v
	return f.b
}

// Title overrides the field title derived from its name.
func (f *fieldStep) Title(t string) *fieldStep {
	f.f.title = t
	return f
}

// Description sets the exported field description.
func (f *fieldStep) Description(d string) *fieldStep {
	f.f.description = d
	return f
}

func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep { return f.b.Field(name, ad) }
func (f *fieldStep) Named(name string) *objectBuilder            { return f.b.Named(name) }
func (f *fieldStep) Require(names ...string) *objectBuilder      { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder               { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough(target string) *objectBuilder {
	return f.b.UnknownPassthrough(target)
}
func (f *fieldStep) Refine(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.Refine(name, fn)
}
func (f *fieldStep) Build() (skemapi.Schema[map[string]any], error) { return f.b.Build() }
func (f *fieldStep) MustBuild() skemapi.Schema[map[string]any]      { return f.b.MustBuild() }

type objRefine struct {
	name string
	fn   func(context.Context, map[string]any) error
}
