package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/octavehouse/storefront/internal/types"
)

// HeaderRequestID is the inbound/outbound request correlation header
const HeaderRequestID = "X-Request-ID"

// RequestMiddleware stamps every request with a correlation id and the
// client ip, both carried on the request context
func RequestMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	ctx = types.SetClientIP(ctx, c.ClientIP())

	c.Request = c.Request.WithContext(ctx)
	c.Header(HeaderRequestID, requestID)

	c.Next()
}
