package engine

// Enforcement wrapper for TokenSource to apply duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// Issue codes produced by enforcement. They match the root package codes.
const (
	CodeDuplicateKey = "value_error.duplicate_key"
	CodeTooDeep      = "value_error.too_deep"
	CodeTooLarge     = "value_error.too_large"
)

// SimpleIssue is a minimal issue representation used by the engine.
// Loc holds object keys (string) and array indices (int).
type SimpleIssue struct {
	Code    string
	Loc     []any
	Message string
}

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink optionally receives non-fatal issues (duplicate keys in warn mode).
	IssueSink func(SimpleIssue)
	// FailFast turns warn-level issues into errors.
	FailFast bool
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	loc          []any
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key policy,
// maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	loc := e.locForToken(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, loc: loc}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, loc: loc}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{SimpleIssue{Code: CodeTooDeep, Loc: loc, Message: "max depth exceeded"}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if e.opt.OnDuplicate != DupIgnore {
					if _, ok := top.keys[tok.String]; ok {
						si := SimpleIssue{Code: CodeDuplicateKey, Loc: loc, Message: "key '" + tok.String + "' duplicated"}
						if e.opt.IssueSink != nil {
							e.opt.IssueSink(si)
						}
						if e.opt.OnDuplicate == DupError || e.opt.FailFast {
							return Token{}, IssueError{si}
						}
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			return Token{}, IssueError{SimpleIssue{Code: CodeTooLarge, Loc: loc, Message: "max bytes exceeded"}}
		}
	}
	return tok, nil
}

// valueDone flips the enclosing object back to expecting a key.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) locForToken(tok Token) []any {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return appendLoc(top.loc, tok.String)
	case KindBeginObject, KindBeginArray, KindString, KindNumber, KindBool, KindNull:
		switch top.kind {
		case kindArray:
			loc := appendLoc(top.loc, top.nextIndex)
			top.nextIndex++
			return loc
		default:
			if !top.expectingKey {
				return appendLoc(top.loc, top.pendingKey)
			}
		}
	}
	return top.loc
}

func appendLoc(base []any, seg any) []any {
	out := make([]any, 0, len(base)+1)
	out = append(out, base...)
	return append(out, seg)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
