package dsl

import (
	"context"
	"sort"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
)

type objectSchema struct {
	name          string
	title         string
	description   string
	fields        []objectField
	index         map[string]int
	unknownPolicy skemapi.UnknownPolicy
	unknownTarget string
	refines       []objRefine
}

var (
	_ skemapi.Schema[map[string]any] = (*objectSchema)(nil)
	_ js.Exporter                    = (*objectSchema)(nil)
	_ skemapi.Named                  = (*objectSchema)(nil)
)

// SchemaName implements skemapi.Named.
func (o *objectSchema) SchemaName() string { return o.name }

func (o *objectSchema) field(name string) (objectField, bool) {
	i, ok := o.index[name]
	if !ok {
		return objectField{}, false
	}
	return o.fields[i], true
}

// parseField parses a present field value and records presence flags.
func (o *objectSchema) parseField(ctx context.Context, f objectField, val any, pm skemapi.PresenceMap) (any, skemapi.Issues) {
	ptr := skemapi.Loc{f.name}.Pointer()
	pm[ptr] |= skemapi.PresenceSeen
	if val == nil {
		pm[ptr] |= skemapi.PresenceWasNull
		if f.ad.nullable || !f.required {
			return nil, nil
		}
		return nil, skemapi.NewIssues(skemapi.Loc{f.name}, skemapi.CodeNoneNotAllowed)
	}
	parsed, err := f.ad.Parse(ctx, val)
	if err != nil {
		return nil, skemapi.IssuesFromErr(skemapi.Loc{}, err).Rebase(f.name)
	}
	return parsed, nil
}

// missingField applies a default or reports a missing required field.
// Optional fields without default resolve to nil.
func (o *objectSchema) missingField(ctx context.Context, f objectField, pm skemapi.PresenceMap) (any, skemapi.Issues) {
	if f.hasDefault {
		dv, err := f.ad.Parse(ctx, f.def)
		if err != nil {
			return nil, skemapi.IssuesFromErr(skemapi.Loc{}, err).Rebase(f.name)
		}
		pm[skemapi.Loc{f.name}.Pointer()] |= skemapi.PresenceDefaultApplied
		return dv, nil
	}
	if f.required {
		return nil, skemapi.NewIssues(skemapi.Loc{f.name}, skemapi.CodeMissing)
	}
	return nil, nil
}

// collectKnown parses known fields in declaration order.
func (o *objectSchema) collectKnown(ctx context.Context, src map[string]any, pm skemapi.PresenceMap) (map[string]any, skemapi.Issues) {
	out := make(map[string]any, len(o.fields))
	var iss skemapi.Issues
	for _, f := range o.fields {
		var (
			v  any
			i2 skemapi.Issues
		)
		if val, exists := src[f.name]; exists {
			v, i2 = o.parseField(ctx, f, val, pm)
		} else {
			v, i2 = o.missingField(ctx, f, pm)
		}
		if len(i2) > 0 {
			iss = skemapi.AppendIssues(iss, i2...)
			if skemapi.IsFailFast(ctx) {
				return out, iss
			}
			continue
		}
		out[f.name] = v
	}
	return out, iss
}

// collectUnknown processes unknown keys in sorted order according to the
// unknown policy and may write into out for passthrough.
func (o *objectSchema) collectUnknown(src map[string]any, out map[string]any) skemapi.Issues {
	var uks []string
	for k := range src {
		if _, known := o.index[k]; !known {
			uks = append(uks, k)
		}
	}
	if len(uks) == 0 {
		return nil
	}
	sort.Strings(uks)
	var iss skemapi.Issues
	for _, k := range uks {
		switch o.unknownPolicy {
		case skemapi.UnknownStrict:
			iss = skemapi.AppendIssues(iss, skemapi.IssueAt(skemapi.Loc{k}, skemapi.CodeExtra, nil))
		case skemapi.UnknownStrip:
		case skemapi.UnknownPassthrough:
			extra, _ := out[o.unknownTarget].(map[string]any)
			if extra == nil {
				extra = map[string]any{}
			}
			extra[k] = src[k]
			out[o.unknownTarget] = extra
		}
	}
	return iss
}

func (o *objectSchema) run(ctx context.Context, v any, pm skemapi.PresenceMap) (map[string]any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeDict)
	}
	out, iss := o.collectKnown(ctx, src, pm)
	if skemapi.IsFailFast(ctx) && len(iss) > 0 {
		return nil, iss
	}
	iss = skemapi.AppendIssues(iss, o.collectUnknown(src, out)...)
	if len(iss) > 0 {
		if skemapi.IsFailFast(ctx) {
			return nil, iss[:1]
		}
		return nil, iss
	}
	nn, err := skemapi.ApplyNormalize[map[string]any](ctx, out, o)
	if err != nil {
		return nil, err
	}
	if err := skemapi.ApplyRefine[map[string]any](ctx, nn, o); err != nil {
		return nil, err
	}
	return nn, nil
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	return o.run(ctx, v, skemapi.PresenceMap{})
}

func (o *objectSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[map[string]any], error) {
	pm := skemapi.PresenceMap{"/": skemapi.PresenceSeen}
	out, err := o.run(ctx, v, pm)
	return skemapi.Decoded[map[string]any]{Value: out, Presence: pm}, err
}

func (o *objectSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(map[string]any); !ok {
		return skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeDict)
	}
	return nil
}

func (o *objectSchema) RuleCheck(ctx context.Context, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var iss skemapi.Issues
	for _, f := range o.fields {
		if _, ok := m[f.name]; ok || !f.required || f.hasDefault {
			continue
		}
		iss = skemapi.AppendIssues(iss, skemapi.IssueAt(skemapi.Loc{f.name}, skemapi.CodeMissing, nil))
		if skemapi.IsFailFast(ctx) {
			break
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (o *objectSchema) Validate(ctx context.Context, v any) error {
	if err := o.TypeCheck(ctx, v); err != nil {
		return err
	}
	return o.RuleCheck(ctx, v)
}

func (o *objectSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	for _, f := range o.fields {
		val, ok := v[f.name]
		switch {
		case !ok || val == nil:
			if f.required && !f.hasDefault && !f.ad.nullable {
				return skemapi.NewIssues(skemapi.Loc{f.name}, skemapi.CodeMissing)
			}
		case f.ad.validateValue != nil:
			if err := f.ad.validateValue(ctx, val); err != nil {
				return skemapi.IssuesFromErr(skemapi.Loc{}, err).Rebase(f.name)
			}
		}
	}
	return nil
}

// Refine implements skemapi.Refiner[map[string]any] using builder-registered hooks.
func (o *objectSchema) Refine(ctx context.Context, v map[string]any) error {
	if len(o.refines) == 0 {
		return nil
	}
	var iss skemapi.Issues
	for _, r := range o.refines {
		if err := r.fn(ctx, v); err != nil {
			iss = skemapi.AppendIssues(iss, skemapi.IssuesFromErr(skemapi.Loc{}, err)...)
			if skemapi.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// JSONSchema returns a self-contained schema; nested named objects are inlined.
func (o *objectSchema) JSONSchema() (*js.Schema, error) { return o.ExportJSONSchema(nil) }

// ExportJSONSchema renders the object. Named objects register themselves in
// defs and return a bare $ref. Properties keep declaration order and get a
// title derived from the key unless they are references.
func (o *objectSchema) ExportJSONSchema(defs *js.Definitions) (*js.Schema, error) {
	s := &js.Schema{Title: o.title, Description: o.description, Type: "object"}
	if s.Title == "" {
		s.Title = o.name
	}
	for _, f := range o.fields {
		ps, err := f.ad.ExportJSONSchema(defs)
		if err != nil {
			return nil, err
		}
		s.SetProperty(f.name, decorateProperty(ps, f))
		if f.required && !f.hasDefault {
			s.Required = append(s.Required, f.name)
		}
	}
	if o.unknownPolicy == skemapi.UnknownStrict {
		s.AdditionalProperties = false
	}
	if o.name == "" || defs == nil {
		return s, nil
	}
	if err := defs.Add(o.name, s); err != nil {
		return nil, err
	}
	return &js.Schema{Ref: defs.Ref(o.name)}, nil
}

func decorateProperty(ps *js.Schema, f objectField) *js.Schema {
	if ps == nil {
		ps = &js.Schema{}
	}
	if ps.Ref != "" {
		return ps
	}
	cp := *ps
	switch {
	case f.title != "":
		cp.Title = f.title
	case cp.Title == "":
		cp.Title = js.Titleize(f.name)
	}
	if f.description != "" {
		cp.Description = f.description
	}
	if f.hasDefault {
		cp.Default = f.def
	}
	return &cp
}
