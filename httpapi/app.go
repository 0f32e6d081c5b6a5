// Package httpapi serves typed, validated JSON routes on gin and publishes
// an OpenAPI document describing them.
package httpapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reoring/skemapi"
	"github.com/reoring/skemapi/middleware"
	"github.com/reoring/skemapi/openapi"
)

// Config describes the application and where its documentation is served.
// Empty URLs disable the corresponding endpoint.
type Config struct {
	Title        string
	Version      string
	Description  string
	OpenAPIURL   string
	DocsURL      string
	MaxBodyBytes int64
}

// DefaultConfig mirrors the defaults of the framework the demo comes from.
func DefaultConfig() Config {
	return Config{
		Title:        "FastAPI",
		Version:      "0.1.0",
		OpenAPIURL:   "/openapi.json",
		DocsURL:      "/docs",
		MaxBodyBytes: 1 << 20,
	}
}

// App is a gin engine plus the route table the OpenAPI document is built
// from.
type App struct {
	cfg    Config
	engine *gin.Engine
	log    *zap.Logger

	mu     sync.Mutex
	routes []RouteInfo
	doc    *openapi.Document
}

// RouteInfo summarizes a registered route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
	Hidden bool

	op openapi.Route
}

type Option func(*App)

// WithLogger sets the logger used for request logs and handler failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMiddleware installs gin middleware ahead of every route.
func WithMiddleware(h ...gin.HandlerFunc) Option {
	return func(a *App) { a.engine.Use(h...) }
}

// New creates an App. Request logging and panic recovery are always
// installed; 404 and 405 answer with a JSON detail.
func New(cfg Config, opts ...Option) *App {
	a := &App{cfg: cfg, engine: gin.New(), log: zap.NewNop()}
	a.engine.HandleMethodNotAllowed = true
	a.engine.NoRoute(func(c *gin.Context) { writeDetail(c, http.StatusNotFound, "Not Found") })
	a.engine.NoMethod(func(c *gin.Context) { writeDetail(c, http.StatusMethodNotAllowed, "Method Not Allowed") })
	for _, o := range opts {
		o(a)
	}
	a.engine.Use(requestID(), requestLogger(a.log), recovery(a.log))
	a.mountDocs()
	return a
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) { a.engine.ServeHTTP(w, r) }

// Config returns the configuration the App was created with.
func (a *App) Config() Config { return a.cfg }

// Logger returns the App logger.
func (a *App) Logger() *zap.Logger { return a.log }

// Routes lists registered routes in registration order.
func (a *App) Routes() []RouteInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RouteInfo(nil), a.routes...)
}

// OpenAPI returns the document for the routes registered so far. It is
// rebuilt after new registrations.
func (a *App) OpenAPI() (*openapi.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc != nil {
		return a.doc, nil
	}
	ops := make([]openapi.Route, 0, len(a.routes))
	for _, r := range a.routes {
		if !r.Hidden {
			ops = append(ops, r.op)
		}
	}
	doc, err := openapi.Builder{Title: a.cfg.Title, Version: a.cfg.Version, Description: a.cfg.Description}.Build(ops)
	if err != nil {
		return nil, err
	}
	a.doc = doc
	return doc, nil
}

func (a *App) register(ri RouteInfo, h gin.HandlerFunc) {
	a.mu.Lock()
	a.routes = append(a.routes, ri)
	a.doc = nil
	a.mu.Unlock()
	a.engine.Handle(strings.ToUpper(ri.Method), ginPath(ri.Path), h)
}

func (a *App) parseOpt() skemapi.ParseOpt {
	opt := middleware.DefaultParseOpt()
	opt.MaxBytes = a.cfg.MaxBodyBytes
	return opt
}

func (a *App) mountDocs() {
	if a.cfg.OpenAPIURL == "" {
		return
	}
	a.engine.GET(a.cfg.OpenAPIURL, func(c *gin.Context) {
		doc, err := a.OpenAPI()
		if err != nil {
			a.fail(c, err)
			return
		}
		writeJSON(c, http.StatusOK, doc)
	})
	if yamlURL := YAMLURL(a.cfg.OpenAPIURL); yamlURL != a.cfg.OpenAPIURL {
		a.engine.GET(yamlURL, func(c *gin.Context) {
			doc, err := a.OpenAPI()
			if err == nil {
				var b []byte
				if b, err = doc.YAML(); err == nil {
					c.Data(http.StatusOK, "application/yaml", b)
					return
				}
			}
			a.fail(c, err)
		})
	}
	if a.cfg.DocsURL == "" {
		return
	}
	a.engine.GET(a.cfg.DocsURL, func(c *gin.Context) {
		html, err := openapi.SwaggerUIHTML(a.cfg.Title, a.cfg.OpenAPIURL)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	})
}

// YAMLURL is where the YAML rendition of the document at openapiURL is
// served.
func YAMLURL(openapiURL string) string {
	return strings.TrimSuffix(openapiURL, ".json") + ".yaml"
}
