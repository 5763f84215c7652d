package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/types"
)

// RequestIDMiddleware tags every request with an ID for log correlation and
// echoes it back in the response headers.
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// ContextMiddleware copies the resolved identity headers into the request
// context. Role resolution is out of scope here; the values arrive already
// resolved from the upstream gateway.
func ContextMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	ctx = types.SetTenantID(ctx, tenantID)

	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}
	if role := c.GetHeader(types.HeaderUserRole); role != "" {
		ctx = types.SetUserRole(ctx, role)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
