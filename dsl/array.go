package dsl

import (
	"context"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
)

// ArrayBuilder exposes chaining methods for array schemas while implementing Schema[[]E].
type ArrayBuilder[E any] interface {
	skemapi.Schema[[]E]
	js.Exporter
	Min(n int) ArrayBuilder[E]
	Max(n int) ArrayBuilder[E]
}

// Array returns an array schema with the given element schema.
func Array[E any](elem skemapi.Schema[E]) ArrayBuilder[E] {
	return &ArraySchema[E]{elem: elem, minLen: -1, maxLen: -1}
}

// ArrayOf adapts Array[E] to AnyAdapter for use in object builders.
// Example: Field("tags", dsl.ArrayOf[string](dsl.String()))
func ArrayOf[E any](elem skemapi.Schema[E]) AnyAdapter {
	return anyAdapterFromSchema[[]E](Array[E](elem))
}

// ArrayOfSchema converts a constrained ArrayBuilder[E] into an AnyAdapter.
// Example: Field("tags", dsl.ArrayOfSchema[string](dsl.Array(dsl.String()).Min(1)))
func ArrayOfSchema[E any](ab ArrayBuilder[E]) AnyAdapter { return anyAdapterFromSchema[[]E](ab) }

type ArraySchema[E any] struct {
	elem   skemapi.Schema[E]
	minLen int
	maxLen int
}

// Min sets the minimum length.
func (a *ArraySchema[E]) Min(n int) ArrayBuilder[E] { a.minLen = n; return a }

// Max sets the maximum length.
func (a *ArraySchema[E]) Max(n int) ArrayBuilder[E] { a.maxLen = n; return a }

func (a *ArraySchema[E]) Parse(ctx context.Context, v any) ([]E, error) {
	var out []E
	switch src := v.(type) {
	case []any:
		out = make([]E, 0, len(src))
		var iss skemapi.Issues
		for i, it := range src {
			ev, err := a.elem.Parse(ctx, it)
			if err != nil {
				iss = skemapi.AppendIssues(iss, skemapi.IssuesFromErr(skemapi.Loc{}, err).Rebase(i)...)
				if skemapi.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out = append(out, ev)
		}
		if len(iss) > 0 {
			return nil, iss
		}
	case []E:
		out = src
	default:
		return nil, skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeList)
	}
	if err := a.checkLen(len(out)); err != nil {
		return nil, err
	}
	nn, err := skemapi.ApplyNormalize[[]E](ctx, out, a)
	if err != nil {
		return nil, err
	}
	if err := skemapi.ApplyRefine[[]E](ctx, nn, a); err != nil {
		return nil, err
	}
	return nn, nil
}

func (a *ArraySchema[E]) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[[]E], error) {
	out, err := a.Parse(ctx, v)
	return skemapi.Decoded[[]E]{Value: out, Presence: rootSeen()}, err
}

func (a *ArraySchema[E]) TypeCheck(ctx context.Context, v any) error {
	switch v.(type) {
	case []any, []E:
		return nil
	}
	return skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeList)
}

func (a *ArraySchema[E]) RuleCheck(ctx context.Context, v any) error {
	switch src := v.(type) {
	case []any:
		return a.checkLen(len(src))
	case []E:
		return a.checkLen(len(src))
	}
	return nil
}

func (a *ArraySchema[E]) Validate(ctx context.Context, v any) error {
	if err := a.TypeCheck(ctx, v); err != nil {
		return err
	}
	return a.RuleCheck(ctx, v)
}

func (a *ArraySchema[E]) ValidateValue(ctx context.Context, v []E) error {
	if err := a.checkLen(len(v)); err != nil {
		return err
	}
	for i, it := range v {
		if err := a.elem.ValidateValue(ctx, it); err != nil {
			return skemapi.IssuesFromErr(skemapi.Loc{}, err).Rebase(i)
		}
	}
	return nil
}

func (a *ArraySchema[E]) checkLen(n int) error {
	if a.minLen >= 0 && n < a.minLen {
		return skemapi.Issues{skemapi.IssueAt(skemapi.Loc{}, skemapi.CodeListMinItems, map[string]any{"limit_value": a.minLen})}
	}
	if a.maxLen >= 0 && n > a.maxLen {
		return skemapi.Issues{skemapi.IssueAt(skemapi.Loc{}, skemapi.CodeListMaxItems, map[string]any{"limit_value": a.maxLen})}
	}
	return nil
}

func (a *ArraySchema[E]) JSONSchema() (*js.Schema, error) { return a.ExportJSONSchema(nil) }

// ExportJSONSchema renders {"type":"array","items":...}; named element
// schemas become $refs when defs is non-nil.
func (a *ArraySchema[E]) ExportJSONSchema(defs *js.Definitions) (*js.Schema, error) {
	items, err := js.Export(a.elem, defs)
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: items}
	if a.minLen >= 0 {
		n := a.minLen
		s.MinItems = &n
	}
	if a.maxLen >= 0 {
		n := a.maxLen
		s.MaxItems = &n
	}
	return s, nil
}
