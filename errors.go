package skemapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Issue codes. They double as the "type" field of validation error payloads.
const (
	CodeMissing        = "value_error.missing"
	CodeExtra          = "value_error.extra"
	CodeJSONDecode     = "value_error.jsondecode"
	CodeDuplicateKey   = "value_error.duplicate_key"
	CodeTooDeep        = "value_error.too_deep"
	CodeTooLarge       = "value_error.too_large"
	CodeNumberNotGE    = "value_error.number.not_ge"
	CodeNumberNotLE    = "value_error.number.not_le"
	CodeListMinItems   = "value_error.list.min_items"
	CodeListMaxItems   = "value_error.list.max_items"
	CodeInteger        = "type_error.integer"
	CodeFloat          = "type_error.float"
	CodeString         = "type_error.str"
	CodeBool           = "type_error.bool"
	CodeDict           = "type_error.dict"
	CodeList           = "type_error.list"
	CodeNoneNotAllowed = "type_error.none.not_allowed"
	CodeUnionNoMatch   = "type_error.union"
	CodeCustom         = "value_error.custom"
	CodeInternal       = "internal_error"
)

// Loc is the location of an issue: object keys (string) and array indices
// (int), outermost first.
type Loc []any

// Pointer renders the location as an RFC 6901 JSON Pointer ("/" for the root).
func (l Loc) Pointer() string {
	if len(l) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range l {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(pointerEscaper.Replace(s))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprint(b, s)
		}
	}
	return b.String()
}

// Prepend returns a new Loc with segs placed before l.
func (l Loc) Prepend(segs ...any) Loc {
	out := make(Loc, 0, len(segs)+len(l))
	out = append(out, segs...)
	return append(out, l...)
}

// Key appends an object key segment.
func (l Loc) Key(k string) Loc { return append(append(Loc(nil), l...), k) }

// Index appends an array index segment.
func (l Loc) Index(i int) Loc { return append(append(Loc(nil), l...), i) }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Issue represents a single validation entry.
type Issue struct {
	Loc     Loc    // Location relative to the value handed to the schema.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected types, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"limit_value": 1}) for i18n
	// and the "ctx" member of error payloads.
	Params map[string]any
}

// Path returns the JSON Pointer of the issue location.
func (it Issue) Path() string { return it.Loc.Pointer() }

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. value_error.missing at /item
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Rebase returns a copy of iss with segs prepended to every location.
func (iss Issues) Rebase(segs ...any) Issues {
	if len(iss) == 0 {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Loc = it.Loc.Prepend(segs...)
		out[i] = it
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts err into Issues located at loc. Errors that are not
// Issues become a single CodeCustom issue.
func IssuesFromErr(loc Loc, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Loc: loc, Code: CodeCustom, Message: err.Error(), Cause: err}}
}
