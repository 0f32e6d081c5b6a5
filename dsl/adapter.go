package dsl

import (
	"context"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
)

// AnyAdapter adapts Schema[T] to an any-typed DSL wrapper so it can be used as
// an object field. It keeps the original schema for default application and
// JSON Schema export.
type AnyAdapter struct {
	parse         func(context.Context, any) (any, error)
	validateValue func(context.Context, any) error
	jsonSchema    func(*js.Definitions) (*js.Schema, error)
	nullable      bool
	orig          any
}

// SchemaOf converts an arbitrary Schema[T] into an AnyAdapter.
func SchemaOf[T any](s skemapi.Schema[T]) AnyAdapter { return anyAdapterFromSchema[T](s) }

func anyAdapterFromSchema[T any](s skemapi.Schema[T]) AnyAdapter {
	return AnyAdapter{
		parse: func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		validateValue: func(ctx context.Context, v any) error {
			tv, ok := v.(T)
			if !ok {
				return skemapi.Issues{{Loc: skemapi.Loc{}, Code: skemapi.CodeInternal, Message: "invalid field type", Hint: "unexpected Go type for field"}}
			}
			return s.ValidateValue(ctx, tv)
		},
		jsonSchema: func(defs *js.Definitions) (*js.Schema, error) { return js.Export(s, defs) },
		orig:       s,
	}
}

// Orig returns the Schema[T] this adapter was created from.
func (ad AnyAdapter) Orig() any { return ad.orig }

// Parse runs the wrapped schema on v.
func (ad AnyAdapter) Parse(ctx context.Context, v any) (any, error) {
	if v == nil && ad.nullable {
		return nil, nil
	}
	if ad.parse == nil {
		return v, nil
	}
	return ad.parse(ctx, v)
}

// ExportJSONSchema implements jsonschema.Exporter.
func (ad AnyAdapter) ExportJSONSchema(defs *js.Definitions) (*js.Schema, error) {
	if ad.jsonSchema == nil {
		return &js.Schema{}, nil
	}
	return ad.jsonSchema(defs)
}

// Nullable wraps an AnyAdapter to accept JSON null. The exported schema is left
// unchanged; optional fields render the same way.
func Nullable(ad AnyAdapter) AnyAdapter {
	out := ad
	out.nullable = true
	prevValidate := ad.validateValue
	out.validateValue = func(ctx context.Context, v any) error {
		if v == nil || prevValidate == nil {
			return nil
		}
		return prevValidate(ctx, v)
	}
	return out
}

// Nullable enables fluent chaining: dsl.StringOf[string]().Nullable()
func (ad AnyAdapter) Nullable() AnyAdapter { return Nullable(ad) }

// Min sets an inclusive numeric minimum, checked at runtime and exported as
// "minimum".
func (ad AnyAdapter) Min(n float64) AnyAdapter {
	return ad.withBound(n, func(v float64) bool { return v >= n }, skemapi.CodeNumberNotGE, func(s *js.Schema) { s.Minimum = &n })
}

// Max sets an inclusive numeric maximum, checked at runtime and exported as
// "maximum".
func (ad AnyAdapter) Max(n float64) AnyAdapter {
	return ad.withBound(n, func(v float64) bool { return v <= n }, skemapi.CodeNumberNotLE, func(s *js.Schema) { s.Maximum = &n })
}

func (ad AnyAdapter) withBound(limit float64, ok func(float64) bool, code string, mark func(*js.Schema)) AnyAdapter {
	prevParse := ad.parse
	prevValidate := ad.validateValue
	prevJSON := ad.jsonSchema
	check := func(v any) error {
		f, isNum := toFloat(v)
		if !isNum || ok(f) {
			return nil
		}
		return skemapi.Issues{skemapi.IssueAt(skemapi.Loc{}, code, map[string]any{"limit_value": limitValue(limit)})}
	}
	out := ad
	out.parse = func(ctx context.Context, v any) (any, error) {
		val := v
		if prevParse != nil {
			var err error
			if val, err = prevParse(ctx, v); err != nil {
				return nil, err
			}
		}
		if err := check(val); err != nil {
			return nil, err
		}
		return val, nil
	}
	out.validateValue = func(ctx context.Context, v any) error {
		if prevValidate != nil {
			if err := prevValidate(ctx, v); err != nil {
				return err
			}
		}
		return check(v)
	}
	out.jsonSchema = func(defs *js.Definitions) (*js.Schema, error) {
		s := &js.Schema{}
		if prevJSON != nil {
			ps, err := prevJSON(defs)
			if err != nil {
				return nil, err
			}
			if ps != nil {
				cp := *ps
				s = &cp
			}
		}
		mark(s)
		if s.Type == "" {
			s.Type = "number"
		}
		return s, nil
	}
	return out
}

// limitValue renders integral limits as ints so messages read "1", not "1.0".
func limitValue(f float64) any {
	if f == float64(int64(f)) {
		return int(f)
	}
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
