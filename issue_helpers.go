package skemapi

import (
	"strconv"

	"github.com/reoring/skemapi/i18n"
)

// IssueAt creates an Issue at loc with the catalog message for code.
func IssueAt(loc Loc, code string, params map[string]any) Issue {
	return Issue{Loc: loc, Code: code, Message: i18n.T(code, stringParams(params)), Params: params}
}

// NewIssues is a shorthand for a single-entry Issues at loc.
func NewIssues(loc Loc, code string) Issues {
	return Issues{IssueAt(loc, code, nil)}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case string:
			out[k] = t
		case int:
			out[k] = strconv.Itoa(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'g', -1, 64)
		}
	}
	return out
}
