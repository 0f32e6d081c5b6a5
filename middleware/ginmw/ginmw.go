// Package ginmw adapts skemapi body validation to gin.
package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/skemapi"
	"github.com/reoring/skemapi/middleware"
)

// ValidateBody parses the incoming JSON using schema s, stores Decoded[T] in
// the request context and continues. On validation failure it aborts with 422
// and a {"detail": [...]} payload. A zero opt selects DefaultParseOpt.
func ValidateBody[T any](s skemapi.Schema[T], opt middleware.BodyOpt) gin.HandlerFunc {
	if opt.ParseOpt.Strictness.OnDuplicateKey == skemapi.Ignore && !opt.ParseOpt.Presence.Collect {
		opt.ParseOpt = middleware.DefaultParseOpt()
	}
	return func(c *gin.Context) {
		dm, err := middleware.ParseBody(c.Request.Context(), s, c.Request.Body, opt)
		if err != nil {
			Abort(c, err)
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), dm))
		c.Next()
	}
}

// Abort writes err as a response and stops the handler chain. Issues become a
// 422 validation payload; anything else is a 500.
func Abort(c *gin.Context, err error) {
	if iss, ok := skemapi.AsIssues(err); ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, middleware.ErrorPayload(iss))
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
}

// GetDecoded fetches Decoded[T] stored by ValidateBody.
func GetDecoded[T any](c *gin.Context) (skemapi.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
