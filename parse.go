package skemapi

import (
	"context"
	"errors"
	"io"

	"github.com/reoring/skemapi/i18n"
	eng "github.com/reoring/skemapi/internal/engine"
	jsonsrc "github.com/reoring/skemapi/source/json"
)

// ParseFrom is the primary entry point. It consumes tokens from the Source,
// builds an any value, and delegates validation to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, NewIssues(nil, CodeInternal)
	}
	opt := lastOpt(opts)
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := DecodeValue(src, opt)
	if err != nil {
		return zero, err
	}
	return s.Parse(ctx, v)
}

// ParseFromWithMeta collects presence metadata alongside the parsed value.
// Presence gathered from the raw input is merged with the annotations the
// Schema reports (defaults applied, nulls).
func ParseFromWithMeta[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (Decoded[T], error) {
	var zero Decoded[T]
	if s == nil {
		return zero, NewIssues(nil, CodeInternal)
	}
	opt := normalizeWithMetaOpt(opts)
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := DecodeValue(src, opt)
	if err != nil {
		return zero, err
	}
	return parseValueWithMeta(ctx, s, v, opt)
}

// ParseValueWithMeta runs s on an already decoded value and merges presence
// gathered from v, like ParseFromWithMeta does for raw input.
func ParseValueWithMeta[T any](ctx context.Context, s Schema[T], v any, opts ...ParseOpt) (Decoded[T], error) {
	if s == nil {
		return Decoded[T]{}, NewIssues(nil, CodeInternal)
	}
	opt := normalizeWithMetaOpt(opts)
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	return parseValueWithMeta(ctx, s, v, opt)
}

func parseValueWithMeta[T any](ctx context.Context, s Schema[T], v any, opt ParseOpt) (Decoded[T], error) {
	dm, err := s.ParseWithMeta(ctx, v)
	dm.Presence = mergePresence(dm.Presence, v, opt)
	return dm, err
}

// DecodeValue decodes exactly one JSON value from src, applying the
// enforcement configured in opt. Decode failures are returned as Issues with
// CodeJSONDecode; when the driver reports a byte offset the issue location is
// that offset.
func DecodeValue(src Source, opt ParseOpt) (any, error) {
	ts := enforce(src, opt)
	var (
		v   any
		err error
	)
	switch src.NumberMode() {
	case NumberFloat64:
		v, err = eng.DecodeAnyFromSourceAsFloat64(ts)
	default:
		v, err = eng.DecodeAnyFromSource(ts)
	}
	if err == nil {
		err = eng.ExpectEOF(ts)
	}
	if err != nil {
		return nil, decodeIssues(err, src.Location())
	}
	return v, nil
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return ParseOpt{}
}

func normalizeWithMetaOpt(opts []ParseOpt) ParseOpt {
	opt := lastOpt(opts)
	if !opt.Presence.Collect && len(opt.Presence.Include) == 0 && len(opt.Presence.Exclude) == 0 {
		opt.Presence.Collect = true
	}
	return opt
}

// mergePresence ORs raw input presence into the schema-provided map. Fields
// that only received a default keep that status.
func mergePresence(schemaPM PresenceMap, raw any, opt ParseOpt) PresenceMap {
	if !opt.Presence.Collect {
		return nil
	}
	pm := make(PresenceMap, len(schemaPM))
	for k, v := range schemaPM {
		pm[k] = v
	}
	for k, sv := range collectPresenceMapFromValue(raw) {
		if pm.DefaultOnly(k) {
			sv &^= PresenceSeen
		}
		pm[k] |= sv
	}
	return applyPresenceOptions(pm, opt.Presence)
}

func decodeIssues(err error, location int64) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Loc: Loc(ie.Loc), Code: ie.Code, Message: i18n.T(ie.Code, nil), Hint: ie.Message, Cause: err}}
	}
	msg := err.Error()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		msg = i18n.T(CodeJSONDecode, nil)
	}
	it := Issue{Loc: Loc{}, Code: CodeJSONDecode, Message: msg, Cause: err}
	if off, ok := jsonsrc.SyntaxOffset(err); ok {
		it.Loc = Loc{int(off)}
		it.Params = map[string]any{"pos": int(off)}
	} else if location >= 0 {
		it.Params = map[string]any{"pos": int(location)}
	}
	return Issues{it}
}

// StreamParse validates input read from r. When MaxBytes is set the size cap
// is enforced up front, otherwise it delegates to ParseFrom.
func StreamParse[T any](ctx context.Context, s Schema[T], r io.Reader, opts ...ParseOpt) (T, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			var zero T
			return zero, Issues{{Loc: Loc{}, Code: CodeJSONDecode, Message: err.Error(), Cause: err}}
		}
		if int64(len(data)) > opt.MaxBytes {
			var zero T
			return zero, NewIssues(Loc{}, CodeTooLarge)
		}
		return ParseFrom[T](ctx, s, JSONBytes(data), opts...)
	}
	return ParseFrom[T](ctx, s, JSONReader(r), opts...)
}
