package httpapi

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
	"github.com/reoring/skemapi/middleware"
	"github.com/reoring/skemapi/middleware/ginmw"
	"github.com/reoring/skemapi/openapi"
)

// Request is what a handler receives once parameters and body validated.
type Request[P, B any] struct {
	Params P
	Body   B
	// Presence records which body members the client actually sent.
	Presence skemapi.PresenceMap
	HTTP     *http.Request
}

// Route declares one typed operation. Params validates the path parameters
// as an object keyed by parameter name; Body validates the JSON body. A nil
// schema means the route takes no such input.
//
// A Body that is an unnamed object schema is an envelope of several body
// parameters: anything other than a JSON object is validated as {} so every
// required member is reported missing. Any other Body schema validates the
// whole payload.
type Route[P, B any] struct {
	Method      string
	Path        string
	Name        string
	Summary     string
	Description string
	Tags        []string
	StatusCode  int
	Params      skemapi.Schema[P]
	Body        skemapi.Schema[B]
	// Response documents the successful response body.
	Response any
	// Hidden keeps the route out of the OpenAPI document.
	Hidden  bool
	Handler func(ctx context.Context, req *Request[P, B]) (any, error)
}

// Handle registers r on app.
func Handle[P, B any](app *App, r Route[P, B]) error {
	if r.Handler == nil {
		return errorf("route %s %s has no handler", r.Method, r.Path)
	}
	embedded := false
	if r.Body != nil {
		s, err := js.Export(r.Body, nil)
		if err != nil {
			return errorf("route %s %s: %v", r.Method, r.Path, err)
		}
		embedded = skemapi.NameOf(r.Body) == "" && s.Type == "object"
	}
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	info := RouteInfo{
		Method: r.Method,
		Path:   r.Path,
		Name:   r.Name,
		Hidden: r.Hidden,
		op: openapi.Route{
			Method:      r.Method,
			Path:        r.Path,
			Name:        r.Name,
			Summary:     r.Summary,
			Description: r.Description,
			Tags:        r.Tags,
			StatusCode:  r.StatusCode,
			Params:      r.Params,
			Body:        r.Body,
			Response:    r.Response,
		},
	}
	app.register(info, func(c *gin.Context) {
		ctx := c.Request.Context()
		req := &Request[P, B]{HTTP: c.Request}
		var iss skemapi.Issues
		if r.Params != nil {
			p, err := r.Params.Parse(ctx, pathValues(c))
			if err != nil {
				if !collect(&iss, err, "path") {
					app.fail(c, err)
					return
				}
			}
			req.Params = p
		}
		if r.Body != nil {
			dm, err := middleware.ParseBody(ctx, r.Body, c.Request.Body, middleware.BodyOpt{ParseOpt: app.parseOpt(), Embedded: embedded})
			if err != nil {
				if !collect(&iss, err) {
					app.fail(c, err)
					return
				}
			}
			req.Body, req.Presence = dm.Value, dm.Presence
		}
		if len(iss) > 0 {
			ginmw.Abort(c, iss)
			return
		}
		out, err := r.Handler(ctx, req)
		if err != nil {
			app.fail(c, err)
			return
		}
		writeJSON(c, status, out)
	})
	return nil
}

// MustHandle is like Handle but panics on error.
func MustHandle[P, B any](app *App, r Route[P, B]) {
	if err := Handle(app, r); err != nil {
		panic(err)
	}
}

// collect appends validation issues from err, rebased under prefix, and
// reports whether err was a validation failure.
func collect(dst *skemapi.Issues, err error, prefix ...any) bool {
	got, ok := skemapi.AsIssues(err)
	if !ok {
		return false
	}
	*dst = skemapi.AppendIssues(*dst, got.Rebase(prefix...)...)
	return true
}

func pathValues(c *gin.Context) map[string]any {
	m := make(map[string]any, len(c.Params))
	for _, p := range c.Params {
		m[p.Key] = p.Value
	}
	return m
}

var pathParam = regexp.MustCompile(`\{(\w+)\}`)

// ginPath turns "/items/{item_id}" into "/items/:item_id".
func ginPath(p string) string { return pathParam.ReplaceAllString(p, ":$1") }
