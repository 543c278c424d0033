package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snapnutrient/snapnutrient/internal/rest/response"
)

// IdentityHeader carries the caller's email, set by the session layer in
// front of this service.
const IdentityHeader = "X-User-Email"

// CORS allows browser clients on other origins to call the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+IdentityHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SetRequestContextWithTimeout bounds every request with a deadline.
func SetRequestContextWithTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Identity attaches the caller's email to the gin context when the header
// is present. Handlers that require it answer 401 themselves, so public
// reads stay anonymous.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if email := c.GetHeader(IdentityHeader); email != "" {
			c.Set("user_email", email)
		}
		c.Next()
	}
}

// RequireIdentity aborts with 401 unless the identity header is present.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader(IdentityHeader)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err("User not authenticated"))
			return
		}
		c.Set("user_email", email)
		c.Next()
	}
}
