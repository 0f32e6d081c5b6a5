package dsl

import (
	"context"
	"strings"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
)

// AnyOf accepts a value matching any of the alternatives, tried in order; the
// first success wins. It exports as {"anyOf":[...]}.
func AnyOf(alts ...AnyAdapter) AnyAdapter {
	u := unionSchema{alts: alts}
	return AnyAdapter{
		parse:         u.parse,
		validateValue: u.validateValue,
		jsonSchema:    u.exportJSONSchema,
		orig:          u,
	}
}

// AnyOfSchema returns AnyOf(alts...) as a Schema[any], for use as an array
// element.
func AnyOfSchema(alts ...AnyAdapter) skemapi.Schema[any] { return Untyped(AnyOf(alts...)) }

type unionSchema struct{ alts []AnyAdapter }

func (u unionSchema) parse(ctx context.Context, v any) (any, error) {
	var codes []string
	for _, alt := range u.alts {
		out, err := alt.Parse(ctx, v)
		if err == nil {
			return out, nil
		}
		for _, it := range skemapi.IssuesFromErr(skemapi.Loc{}, err) {
			codes = append(codes, it.Code)
		}
	}
	it := skemapi.IssueAt(skemapi.Loc{}, skemapi.CodeUnionNoMatch, nil)
	it.Hint = strings.Join(codes, ", ")
	return nil, skemapi.Issues{it}
}

func (u unionSchema) validateValue(ctx context.Context, v any) error {
	for _, alt := range u.alts {
		if alt.validateValue == nil || alt.validateValue(ctx, v) == nil {
			return nil
		}
	}
	return skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeUnionNoMatch)
}

func (u unionSchema) exportJSONSchema(defs *js.Definitions) (*js.Schema, error) {
	s := &js.Schema{}
	for _, alt := range u.alts {
		as, err := alt.ExportJSONSchema(defs)
		if err != nil {
			return nil, err
		}
		s.AnyOf = append(s.AnyOf, as)
	}
	return s, nil
}

// Untyped exposes an AnyAdapter as a Schema[any].
func Untyped(ad AnyAdapter) skemapi.Schema[any] { return untypedSchema{ad: ad} }

type untypedSchema struct{ ad AnyAdapter }

func (s untypedSchema) Parse(ctx context.Context, v any) (any, error) { return s.ad.Parse(ctx, v) }

func (s untypedSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[any], error) {
	out, err := s.ad.Parse(ctx, v)
	return skemapi.Decoded[any]{Value: out, Presence: rootSeen()}, err
}

func (s untypedSchema) TypeCheck(ctx context.Context, v any) error {
	_, err := s.ad.Parse(ctx, v)
	return err
}

func (s untypedSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (s untypedSchema) Validate(ctx context.Context, v any) error { return s.TypeCheck(ctx, v) }

func (s untypedSchema) ValidateValue(ctx context.Context, v any) error {
	if s.ad.validateValue == nil {
		return nil
	}
	return s.ad.validateValue(ctx, v)
}

func (s untypedSchema) JSONSchema() (*js.Schema, error) { return s.ad.ExportJSONSchema(nil) }

func (s untypedSchema) ExportJSONSchema(defs *js.Definitions) (*js.Schema, error) {
	return s.ad.ExportJSONSchema(defs)
}
