// Package middleware holds framework-neutral helpers for validating HTTP
// request bodies and rendering validation failures.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/reoring/skemapi"
)

// ctxKeyDecoded is a typed context key for storing Decoded[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyDecoded[T any] struct{}

// ContextWithDecoded attaches a Decoded[T] to the context.
func ContextWithDecoded[T any](ctx context.Context, db skemapi.Decoded[T]) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, db)
}

// DecodedFromContext retrieves a Decoded[T] from context.
func DecodedFromContext[T any](ctx context.Context) (skemapi.Decoded[T], bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(skemapi.Decoded[T])
	return v, ok
}

// DefaultParseOpt returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Presence is collected for preserve-friendly semantics
func DefaultParseOpt() skemapi.ParseOpt {
	return skemapi.ParseOpt{
		Strictness: skemapi.Strictness{OnDuplicateKey: skemapi.Error},
		MaxDepth:   64,
		Presence:   skemapi.PresenceOpt{Collect: true},
	}
}

// ValidationError is one entry of a 422 response.
type ValidationError struct {
	Loc  []any          `json:"loc" yaml:"loc"`
	Msg  string         `json:"msg" yaml:"msg"`
	Type string         `json:"type" yaml:"type"`
	Ctx  map[string]any `json:"ctx,omitempty" yaml:"ctx,omitempty"`
}

// HTTPValidationError is the body of a 422 response.
type HTTPValidationError struct {
	Detail []ValidationError `json:"detail" yaml:"detail"`
}

// ErrorPayload shapes Issues for JSON responses. prefix is prepended to every
// location, for example "body" or "path".
func ErrorPayload(issues skemapi.Issues, prefix ...any) HTTPValidationError {
	out := HTTPValidationError{Detail: make([]ValidationError, 0, len(issues))}
	for _, it := range issues {
		loc := it.Loc.Prepend(prefix...)
		out.Detail = append(out.Detail, ValidationError{
			Loc:  []any(loc),
			Msg:  it.Message,
			Type: it.Code,
			Ctx:  it.Params,
		})
	}
	return out
}

// BodyOpt controls ParseBody.
type BodyOpt struct {
	skemapi.ParseOpt
	// Embedded treats the schema as an envelope of named body parameters:
	// a body that is not a JSON object validates as {} so every required
	// parameter is reported missing.
	Embedded bool
}

// ParseBody reads, decodes and validates a request body. Returned issues are
// located under "body". An empty body counts as absent.
func ParseBody[T any](ctx context.Context, s skemapi.Schema[T], r io.Reader, opt BodyOpt) (skemapi.Decoded[T], error) {
	var zero skemapi.Decoded[T]
	data, err := readBody(r, opt.MaxBytes)
	if err != nil {
		return zero, err
	}
	var v any
	if len(bytes.TrimSpace(data)) > 0 {
		if v, err = skemapi.DecodeValue(skemapi.JSONBytes(data), opt.ParseOpt); err != nil {
			return zero, skemapi.IssuesFromErr(skemapi.Loc{}, err).Rebase("body")
		}
	} else if !opt.Embedded {
		return zero, skemapi.NewIssues(skemapi.Loc{"body"}, skemapi.CodeMissing)
	}
	if opt.Embedded {
		if _, ok := v.(map[string]any); !ok {
			v = map[string]any{}
		}
	}
	dm, err := skemapi.ParseValueWithMeta(ctx, s, v, opt.ParseOpt)
	if err != nil {
		if iss, ok := skemapi.AsIssues(err); ok {
			return dm, iss.Rebase("body")
		}
		return dm, err
	}
	return dm, nil
}

var errTooLarge = errors.New("request body too large")

func readBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		iss := skemapi.NewIssues(skemapi.Loc{"body"}, skemapi.CodeTooLarge)
		iss[0].Cause = errTooLarge
		iss[0].Params = map[string]any{"limit_value": int(limit)}
		return nil, iss
	}
	return data, nil
}
