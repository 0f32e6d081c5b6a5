package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/reoring/skemapi"
	"github.com/reoring/skemapi/middleware/ginmw"
)

// HTTPError is returned by handlers to answer with a specific status and a
// {"detail": ...} body.
type HTTPError struct {
	Status int
	Detail any
}

func (e *HTTPError) Error() string { return fmt.Sprintf("http %d: %v", e.Status, e.Detail) }

// NewHTTPError returns an HTTPError; a nil detail defaults to the status text.
func NewHTTPError(status int, detail any) *HTTPError {
	if detail == nil {
		detail = http.StatusText(status)
	}
	return &HTTPError{Status: status, Detail: detail}
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("httpapi: "+format, args...)
}

// fail maps err to a response: HTTPError keeps its status, Issues become a
// 422, anything else is logged and answered with 500.
func (a *App) fail(c *gin.Context, err error) {
	var he *HTTPError
	if errors.As(err, &he) {
		writeDetail(c, he.Status, he.Detail)
		return
	}
	if _, ok := skemapi.AsIssues(err); ok {
		ginmw.Abort(c, err)
		return
	}
	a.log.Error("handler failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
	)
	writeDetail(c, http.StatusInternalServerError, "Internal Server Error")
}

func writeDetail(c *gin.Context, status int, detail any) {
	writeJSON(c, status, map[string]any{"detail": detail})
	c.Abort()
}

func writeJSON(c *gin.Context, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.Data(http.StatusInternalServerError, "application/json", []byte(`{"detail":"Internal Server Error"}`))
		return
	}
	c.Data(status, "application/json", b)
}
